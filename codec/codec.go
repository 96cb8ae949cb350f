// Package codec selects the text encoding of exported manifests.
//
// Both built-in codecs produce plain JSON, so either can read what the other
// wrote. Command-line tools pick one with ByName.
package codec

import "fmt"

// Codec encodes and decodes values. Implementations are safe for
// concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Names returns the names accepted by ByName.
func Names() []string {
	return []string{"go-json", "json"}
}

// MustMarshal marshals v with c, or with Default when c is nil, and panics
// on error. It is meant for tests and constant data.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
