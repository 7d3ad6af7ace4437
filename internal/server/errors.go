package server

import (
	"context"
	"errors"
	"net/http"

	"git.appkode.ru/pub/go/failure"

	"gift_parser/internal/domain"
	"gift_parser/pkg/errcodes"
	"gift_parser/pkg/httpx/reply"
)

// replyError переводит доменные коды в HTTP-статусы. Ошибки без кода уходят в reply.Error как есть.
func replyError(ctx context.Context, w http.ResponseWriter, err error) {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		reply.Error(ctx, w, err)

		return
	}

	switch appErr.Code {
	case errcodes.ValidationError,
		errcodes.InvalidPaging,
		errcodes.InvalidGiftID,
		errcodes.InvalidGiftType,
		errcodes.InvalidGiftName,
		errcodes.InvalidRange,
		errcodes.InvalidDelay:
		reply.Error(ctx, w, failure.NewInvalidArgumentErrorFromError(
			err,
			failure.WithCode(appErr.Code),
			failure.WithDescription(appErr.Message),
		))
	case errcodes.GiftNotFound, errcodes.GiftNotParsed, errcodes.JobNotFound:
		reply.Fail(ctx, w, http.StatusNotFound, appErr.Code, appErr.Message)
	case errcodes.GiftIDTaken, errcodes.JobAlreadyFinished:
		reply.Fail(ctx, w, http.StatusConflict, appErr.Code, appErr.Message)
	default:
		reply.Error(ctx, w, err)
	}
}
