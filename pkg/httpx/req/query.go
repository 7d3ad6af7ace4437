package req

import (
	"net/http"
	"strconv"

	"git.appkode.ru/pub/go/failure"

	"gift_parser/pkg/errcodes"
)

// QueryInt reads an integer query parameter. A missing parameter yields def,
// a value outside [lo, hi] is rejected.
func QueryInt(r *http.Request, name string, def, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return 0, failure.NewInvalidArgumentError(
			"invalid query parameter "+name,
			failure.WithCode(errcodes.InvalidPaging),
			failure.WithDescription(name+" must be an integer between "+strconv.Itoa(lo)+" and "+strconv.Itoa(hi)),
		)
	}

	return v, nil
}
