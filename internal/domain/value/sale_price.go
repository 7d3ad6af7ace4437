package value

// SalePriceMinted ставится, когда на странице нет цены: подарок не выставлен на продажу.
const SalePriceMinted = "Minted"
