package validators

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"time"

	pkgerrors "github.com/angelmondragon/fueltrips-backend/pkg/errors"
	"github.com/angelmondragon/fueltrips-backend/pkg/validation"
)

const maxBodyBytes = 1 << 20

// DecodeJSONBody decodes a single JSON object into dest. Unknown fields are
// rejected; field rules are applied by the owning service.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dest any) error {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return decodeError(err, nil)
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return decodeError(err, raw)
	}
	if decoder.More() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid request body").
			WithDetails(map[string]any{"errors": validation.Violations{{Field: "body", Message: "must contain a single JSON object"}}})
	}
	return nil
}

func decodeError(err error, raw []byte) error {
	var (
		typeErr *json.UnmarshalTypeError
		sizeErr *http.MaxBytesError
		timeErr *time.ParseError
		v       validation.Violations
	)
	switch {
	case errors.Is(err, io.EOF):
		v.Add("body", "is required")
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		v.Add(field, "has the wrong type")
	case errors.As(err, &sizeErr):
		v.Add("body", "is too large")
	case errors.As(err, &timeErr):
		v.Add(fieldWithValue(raw, timeErr.Value), "must be an RFC 3339 timestamp")
	default:
		v.Add("body", err.Error())
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").
		WithDetails(map[string]any{"errors": v})
}

// fieldWithValue returns the first top-level key (alphabetically) whose string
// value equals value, or "body" when none does.
func fieldWithValue(raw []byte, value string) string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "body"
	}
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		var s string
		if json.Unmarshal(obj[key], &s) == nil && s == value {
			return key
		}
	}
	return "body"
}
