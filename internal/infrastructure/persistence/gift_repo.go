package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"gift_parser/internal/domain"
	"gift_parser/internal/domain/entity"
	"gift_parser/internal/domain/value"
	"gift_parser/pkg/errcodes"
)

//nolint:gochecknoglobals
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type GiftRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewGiftRepository создаёт новый экземпляр репозитория.
func NewGiftRepository(db *sqlx.DB) *GiftRepository {
	return &GiftRepository{db: db, now: time.Now}
}

// withTx выполняет функцию в транзакции: коммит при успехе, откат при ошибке или панике.
func (r *GiftRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// GetByName возвращает подарок по имени.
func (r *GiftRepository) GetByName(ctx context.Context, name value.GiftName) (*entity.Gift, error) {
	var gift entity.Gift

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		found, err := r.getByNameTx(ctx, tx, name)
		if err != nil {
			return err
		}

		gift = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &gift, nil
}

// Upsert вставляет подарок, если записи с таким именем ещё нет. Существующая запись
// не перезаписывается: возвращается она же с Created=false.
func (r *GiftRepository) Upsert(ctx context.Context, gift entity.Gift) (entity.UpsertResult, error) {
	var res entity.UpsertResult

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		existing, err := r.getByNameTx(ctx, tx, gift.Name)

		switch {
		case err == nil:
			res = entity.UpsertResult{Created: false, Gift: existing}

			return nil
		case !domain.IsCode(err, errcodes.GiftNotFound):
			return err
		}

		gift.DateAdded = r.now().UTC()

		query := `
			INSERT INTO gifts (` + giftColumns + `)
			VALUES (:id, :name, :model, :backdrop, :symbol, :sale_price, :rarity_score, :estimated_price, :date_added)
			ON CONFLICT DO NOTHING`

		result, err := tx.NamedExecContext(ctx, query, fromGift(gift))
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to insert gift")
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
		}

		if rows == 1 {
			res = entity.UpsertResult{Created: true, Gift: gift}

			return nil
		}

		// Конфликт: имя успели вставить параллельно, либо id уже занят другим именем.
		existing, err = r.getByNameTx(ctx, tx, gift.Name)
		if err == nil {
			res = entity.UpsertResult{Created: false, Gift: existing}

			return nil
		}

		if domain.IsCode(err, errcodes.GiftNotFound) {
			return domain.NewError(errcodes.GiftIDTaken, fmt.Sprintf("gift id %d is stored under another name", gift.ID))
		}

		return err
	})
	if err != nil {
		return entity.UpsertResult{}, err
	}

	return res, nil
}

// CountByPrefix считает подарки, имя которых начинается с prefix. Символы шаблона LIKE экранируются.
func (r *GiftRepository) CountByPrefix(ctx context.Context, prefix string) (int, error) {
	var count int

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `SELECT count(*) FROM gifts WHERE name LIKE $1 ESCAPE '\'`

		if err := tx.GetContext(ctx, &count, query, likeEscaper.Replace(prefix)+"%"); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to count gifts by prefix")
		}

		return nil
	})

	return count, err
}

// Count общее число подарков.
func (r *GiftRepository) Count(ctx context.Context) (int, error) {
	var count int

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &count, `SELECT count(*) FROM gifts`); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to count gifts")
		}

		return nil
	})

	return count, err
}

// List возвращает страницу каталога в порядке id.
func (r *GiftRepository) List(ctx context.Context, limit, offset int) ([]entity.Gift, error) {
	var schemas []giftSchema

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `SELECT ` + giftColumns + ` FROM gifts ORDER BY id LIMIT $1 OFFSET $2`

		if err := tx.SelectContext(ctx, &schemas, query, limit, offset); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to list gifts")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	gifts := make([]entity.Gift, 0, len(schemas))
	for _, s := range schemas {
		gifts = append(gifts, s.toDomain())
	}

	return gifts, nil
}

// UpdatePricing перезаписывает оценку подарка. Поля, равные nil, остаются прежними.
func (r *GiftRepository) UpdatePricing(ctx context.Context, name value.GiftName, pricing entity.Pricing) (*entity.Gift, error) {
	var schema giftSchema

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE gifts
			SET sale_price      = COALESCE($2, sale_price),
			    rarity_score    = COALESCE($3, rarity_score),
			    estimated_price = COALESCE($4, estimated_price)
			WHERE name = $1
			RETURNING ` + giftColumns

		err := tx.GetContext(ctx, &schema, query, name.String(), pricing.SalePrice, pricing.RarityScore, pricing.EstimatedPrice)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NewError(errcodes.GiftNotFound, "gift not found")
			}

			return domain.WrapError(err, errcodes.InternalServerError, "failed to update gift pricing")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	gift := schema.toDomain()

	return &gift, nil
}

func (r *GiftRepository) getByNameTx(ctx context.Context, tx *sqlx.Tx, name value.GiftName) (entity.Gift, error) {
	query := `SELECT ` + giftColumns + ` FROM gifts WHERE name = $1`

	var schema giftSchema
	if err := tx.GetContext(ctx, &schema, query, name.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Gift{}, domain.NewError(errcodes.GiftNotFound, "gift not found")
		}

		return entity.Gift{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get gift")
	}

	return schema.toDomain(), nil
}

// Ping проверяет соединение с базой для /ready и /health.
func (r *GiftRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "database unreachable")
	}

	return nil
}
