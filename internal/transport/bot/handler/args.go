package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"gift_parser/internal/domain/entity"
	"gift_parser/internal/domain/value"
)

const defaultBatchDelay = time.Second

var errUsage = errors.New("usage")

// commandTail текст после команды, например "Plush Pepe #2790" для "/gift Plush Pepe #2790".
func commandTail(text string) string {
	_, tail, _ := strings.Cut(strings.TrimSpace(text), " ")

	return strings.TrimSpace(tail)
}

func commandArgs(text string) []string {
	return strings.Fields(commandTail(text))
}

func parsePage(args []string) int {
	if len(args) == 0 {
		return 1
	}

	page, err := strconv.Atoi(args[0])
	if err != nil || page < 1 {
		return 1
	}

	return page
}

// parseParseArgs разбирает "/parse <тип> <id>".
func parseParseArgs(args []string) (value.GiftType, int64, error) {
	if len(args) != 2 { //nolint:mnd
		return "", 0, errUsage
	}

	giftType, err := value.ParseGiftType(args[0])
	if err != nil {
		return "", 0, errUsage
	}

	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || id <= 0 {
		return "", 0, errUsage
	}

	return giftType, id, nil
}

// parseBatchArgs разбирает "/batch <тип> <начало> <конец> [пауза в секундах]".
// Границы диапазона и паузы проверяет BatchRunner.
func parseBatchArgs(args []string) (entity.BatchRequest, error) {
	if len(args) < 3 || len(args) > 4 {
		return entity.BatchRequest{}, errUsage
	}

	startID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return entity.BatchRequest{}, errUsage
	}

	endID, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return entity.BatchRequest{}, errUsage
	}

	delay := defaultBatchDelay

	if len(args) == 4 { //nolint:mnd
		seconds, err := strconv.ParseFloat(strings.ReplaceAll(args[3], ",", "."), 64)
		if err != nil {
			return entity.BatchRequest{}, errUsage
		}

		delay = time.Duration(seconds * float64(time.Second))
	}

	return entity.BatchRequest{
		GiftType: args[0],
		StartID:  startID,
		EndID:    endID,
		Delay:    delay,
	}, nil
}

func totalPages(total, pageSize int) int {
	return max(1, (total+pageSize-1)/pageSize)
}
