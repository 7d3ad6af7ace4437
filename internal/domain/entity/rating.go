package entity

// Rating результат оценки серийного номера
type Rating struct {
	Score       float64 // 0.0 - 100.0
	Description string  // Например: "Solid", "Ladder"
	IsUnique    bool    // Флаг, что номер имеет ценность
}
