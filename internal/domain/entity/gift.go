package entity

import (
	"time"

	"gift_parser/internal/domain/value"
)

// Gift запись каталога. ID присваивает fragment.com, база его не генерирует.
type Gift struct {
	ID             int64
	Name           value.GiftName
	Model          string
	Backdrop       string
	Symbol         string
	SalePrice      string
	RarityScore    *float64
	EstimatedPrice *float64
	DateAdded      time.Time
}

// Complete истинно, когда заполнены имя и все три атрибута. Неполные записи не сохраняются.
func (g Gift) Complete() bool {
	return g.Name != "" && g.Model != "" && g.Backdrop != "" && g.Symbol != ""
}

// UpsertResult результат вставки: Created=false означает, что запись с таким именем уже была.
type UpsertResult struct {
	Created bool
	Gift    Gift
}

// Pricing ручная оценка подарка. Nil-поля не меняются.
type Pricing struct {
	SalePrice      *string
	RarityScore    *float64
	EstimatedPrice *float64
}
