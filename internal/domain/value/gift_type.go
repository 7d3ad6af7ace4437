package value

import (
	"strings"

	"git.appkode.ru/pub/go/failure"

	"gift_parser/pkg/errcodes"
)

// GiftType коллекция подарка в адресе страницы fragment.com (plushpepe, durovscap).
type GiftType string

// ParseGiftType приводит тип к нижнему регистру и выбрасывает всё, кроме [a-z0-9],
// чтобы значение можно было подставить в путь запроса.
func ParseGiftType(raw string) (GiftType, error) {
	var b strings.Builder

	for _, r := range strings.ToLower(raw) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	if b.Len() == 0 {
		return "", failure.NewInvalidArgumentError(
			"empty gift type",
			failure.WithCode(errcodes.InvalidGiftType),
			failure.WithDescription("gift type must contain latin letters or digits"),
		)
	}

	return GiftType(b.String()), nil
}

func (t GiftType) String() string {
	return string(t)
}
