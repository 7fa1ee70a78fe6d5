package evloop

import (
	"github.com/buger/jsonparser"
)

// LoadConfig extracts an Options value from a JSON blob using
// jsonparser's partial-field extraction rather than a full
// encoding/json unmarshal, the same preference the teacher shows
// for config-shaped documents (attrs/community.go, msg/attr.go).
// Unset fields take DefaultOptions' values.
func LoadConfig(raw []byte) (*Options, error) {
	opts := DefaultOptions

	if n, err := jsonparser.GetInt(raw, "setsize"); err == nil {
		opts.SetSize = int(n)
	} else if err != jsonparser.KeyPathNotFoundError {
		return nil, err
	}

	if s, err := jsonparser.GetString(raw, "backend"); err == nil {
		opts.Backend = s
	} else if err != jsonparser.KeyPathNotFoundError {
		return nil, err
	}

	return &opts, nil
}
