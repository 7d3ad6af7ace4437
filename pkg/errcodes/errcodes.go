package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	InvalidPaging       failure.ErrorCode = "InvalidPaging"

	GiftNotFound       failure.ErrorCode = "GiftNotFound"
	GiftIDTaken        failure.ErrorCode = "GiftIDTaken"
	GiftNotParsed      failure.ErrorCode = "GiftNotParsed" // страница не скачалась или данных недостаточно
	InvalidGiftID      failure.ErrorCode = "InvalidGiftID"
	InvalidGiftType    failure.ErrorCode = "InvalidGiftType"
	InvalidGiftName    failure.ErrorCode = "InvalidGiftName"
	InvalidRange       failure.ErrorCode = "InvalidRange"
	InvalidDelay       failure.ErrorCode = "InvalidDelay"
	JobNotFound        failure.ErrorCode = "JobNotFound"
	JobAlreadyFinished failure.ErrorCode = "JobAlreadyFinished"
)
