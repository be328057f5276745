package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

// DecodeJSON decodes exactly one JSON value from the request body into
// dst. A body like {}{} is rejected so a smuggled second document can
// never slip past validation.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return domain.ErrInvalidJSON(err)
	}

	switch err := dec.Decode(&struct{}{}); {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return domain.ErrInvalidJSON(err)
	default:
		return domain.ErrInvalidJSON(errors.New("multiple JSON values"))
	}
}
