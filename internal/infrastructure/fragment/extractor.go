package fragment

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"gift_parser/internal/domain/entity"
	"gift_parser/internal/domain/value"
)

const (
	selectorTitle = ".tm-section-header-title"
	selectorPrice = ".table-cell-value.tm-value.icon-before.icon-ton"
	selectorTags  = "a.table-cell-value-link"

	currencySuffix = "TON"
	requiredTags   = 3
)

// PageExtractor разбирает страницу подарка fragment.com.
type PageExtractor struct{}

func NewPageExtractor() PageExtractor {
	return PageExtractor{}
}

// Extract возвращает заполненную запись или false, если на странице меньше трёх
// непустых ссылок-тегов либо нет заголовка. Теги сопоставляются по позиции:
// модель, фон, символ.
func (PageExtractor) Extract(id int64, body []byte) (entity.Gift, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return entity.Gift{}, false
	}

	name := strings.TrimSpace(doc.Find(selectorTitle).First().Text())

	salePrice := value.SalePriceMinted
	if price := doc.Find(selectorPrice).First(); price.Length() > 0 {
		salePrice = strings.TrimSpace(strings.ReplaceAll(price.Text(), currencySuffix, ""))
	}

	tags := doc.Find(selectorTags)
	if tags.Length() < requiredTags {
		return entity.Gift{}, false
	}

	attrs := make([]string, requiredTags)

	for i := range attrs {
		attrs[i] = strings.TrimSpace(tags.Eq(i).Text())
		if attrs[i] == "" {
			return entity.Gift{}, false
		}
	}

	gift := entity.Gift{
		ID:        id,
		Name:      value.GiftName(name),
		Model:     attrs[0],
		Backdrop:  attrs[1],
		Symbol:    attrs[2],
		SalePrice: salePrice,
	}

	if !gift.Complete() {
		return entity.Gift{}, false
	}

	return gift, true
}
