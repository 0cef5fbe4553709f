package models

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// ToValues converts a create or update struct to a column map through
// its JSON tags. Fields marked omitempty and left unset disappear, so
// an update only touches the columns the caller supplied. Nested maps
// are re-encoded to JSON text so they can be bound to jsonb columns.
func ToValues(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encoding values")
	}

	values := map[string]any{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, errors.Wrap(err, "decoding values")
	}

	for k, v := range values {
		if nested, ok := v.(map[string]any); ok {
			enc, err := json.Marshal(nested)
			if err != nil {
				return nil, errors.Wrapf(err, "encoding column %s", k)
			}
			values[k] = string(enc)
		}
	}

	return values, nil
}
