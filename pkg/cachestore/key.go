package cachestore

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
)

// Key addresses a cache entry. It is built from the query parameters of a
// request and encodes them deterministically: the same parameter set always
// produces the same Key, regardless of construction order, and distinct
// parameter sets cannot collide because names and values are escaped
// individually rather than concatenated.
type Key struct {
	encoded string
}

// NewKey builds a Key from a set of request parameters. The canonical form
// is captured immediately, so the caller may reuse the Values afterwards.
func NewKey(params url.Values) Key {
	// url.Values.Encode sorts by parameter name and escapes each name and
	// value, which gives us the canonical form for free.
	return Key{encoded: params.Encode()}
}

// NewKeyFromPairs is a convenience constructor for the common case of
// single-valued parameters, e.g. {"geo": "county:109", "year": "2010"}.
func NewKeyFromPairs(params map[string]string) Key {
	values := url.Values{}
	for name, value := range params {
		values.Set(name, value)
	}
	return NewKey(values)
}

// String returns the canonical encoded form of the key.
func (k Key) String() string {
	return k.encoded
}

// Filename returns a fixed-length, path-safe identifier for the key, used by
// stores that address entries by file or object name.
func (k Key) Filename() string {
	sum := sha256.Sum256([]byte(k.encoded))
	return hex.EncodeToString(sum[:])
}
