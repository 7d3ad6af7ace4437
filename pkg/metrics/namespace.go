package metrics

// Namespace prefixes every collector the service registers.
const Namespace = "gift_parser"
