package persistence

import (
	"context"
	_ "embed"

	"github.com/jmoiron/sqlx"

	"gift_parser/internal/domain"
	"gift_parser/pkg/errcodes"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema создаёт таблицу gifts, если её ещё нет. Повторный вызов ничего не меняет.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to ensure schema")
	}

	logger(ctx).Info("gifts schema ensured")

	return nil
}
