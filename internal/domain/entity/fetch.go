package entity

// FetchResult ответ fragment.com на запрос одной страницы. Ошибка здесь значение,
// а не сигнал прервать обработку: пакетный разбор просто считает её неудачей.
type FetchResult struct {
	URL        string
	StatusCode int
	Body       []byte
	Err        error
}

func (r FetchResult) OK() bool {
	return r.Err == nil
}
