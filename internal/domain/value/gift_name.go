package value

import (
	"regexp"
	"strconv"
	"strings"
)

const nftLinkBase = "https://t.me/nft/"

//nolint:gochecknoglobals
var (
	serialSuffix = regexp.MustCompile(`\s*#(\d+)$`)
	nonAlnum     = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// GiftName имя подарка вместе с серийным номером, например "Plush Pepe #2790".
// Это натуральный ключ каталога.
type GiftName string

func (n GiftName) String() string {
	return string(n)
}

// Slug имя коллекции без номера в виде, принятом в ссылках t.me/nft.
func (n GiftName) Slug() string {
	base := serialSuffix.ReplaceAllString(strings.TrimSpace(string(n)), "")

	return strings.ToLower(nonAlnum.ReplaceAllString(base, ""))
}

// Serial серийный номер из хвоста имени.
func (n GiftName) Serial() (int, bool) {
	m := serialSuffix.FindStringSubmatch(strings.TrimSpace(string(n)))
	if m == nil {
		return 0, false
	}

	serial, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}

	return serial, true
}

// NFTLink ссылка на подарок в Telegram.
func NFTLink(name GiftName, id int64) string {
	return nftLinkBase + name.Slug() + "-" + strconv.FormatInt(id, 10)
}
