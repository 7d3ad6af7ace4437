package persistence

import (
	"database/sql"
	"time"

	"gift_parser/internal/domain/entity"
	"gift_parser/internal/domain/value"
)

const giftColumns = `id, name, model, backdrop, symbol, sale_price, rarity_score, estimated_price, date_added`

// giftSchema внутренняя структура для маппинга строки БД.
type giftSchema struct {
	ID             int64           `db:"id"`
	Name           string          `db:"name"`
	Model          string          `db:"model"`
	Backdrop       string          `db:"backdrop"`
	Symbol         string          `db:"symbol"`
	SalePrice      sql.NullString  `db:"sale_price"`
	RarityScore    sql.NullFloat64 `db:"rarity_score"`
	EstimatedPrice sql.NullFloat64 `db:"estimated_price"`
	DateAdded      time.Time       `db:"date_added"`
}

func fromGift(g entity.Gift) giftSchema {
	s := giftSchema{
		ID:        g.ID,
		Name:      g.Name.String(),
		Model:     g.Model,
		Backdrop:  g.Backdrop,
		Symbol:    g.Symbol,
		SalePrice: sql.NullString{String: g.SalePrice, Valid: g.SalePrice != ""},
		DateAdded: g.DateAdded,
	}

	if g.RarityScore != nil {
		s.RarityScore = sql.NullFloat64{Float64: *g.RarityScore, Valid: true}
	}

	if g.EstimatedPrice != nil {
		s.EstimatedPrice = sql.NullFloat64{Float64: *g.EstimatedPrice, Valid: true}
	}

	return s
}

func (s giftSchema) toDomain() entity.Gift {
	g := entity.Gift{
		ID:        s.ID,
		Name:      value.GiftName(s.Name),
		Model:     s.Model,
		Backdrop:  s.Backdrop,
		Symbol:    s.Symbol,
		SalePrice: s.SalePrice.String,
		DateAdded: s.DateAdded,
	}

	if s.RarityScore.Valid {
		g.RarityScore = &s.RarityScore.Float64
	}

	if s.EstimatedPrice.Valid {
		g.EstimatedPrice = &s.EstimatedPrice.Float64
	}

	return g
}
