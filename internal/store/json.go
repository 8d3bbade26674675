package store

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/roach88/selfcare/internal/model"
)

// marshalJSON encodes v with HTML escaping disabled so stored notes keep
// characters like "<" and "&" verbatim.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Encoder adds a trailing newline, remove it
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// GetJSON reads key and decodes it into dst. found is false, and dst is
// untouched, when the key is absent.
func GetJSON(ctx context.Context, g Gateway, key string, dst any) (found bool, err error) {
	data, found, err := g.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return true, &model.PersistenceError{Op: "decode", Key: key, Err: err}
	}
	return true, nil
}

// SetJSON encodes v and stores it at key.
func SetJSON(ctx context.Context, g Gateway, key string, v any) error {
	data, err := marshalJSON(v)
	if err != nil {
		return &model.PersistenceError{Op: "encode", Key: key, Err: err}
	}
	return g.Set(ctx, key, data)
}
