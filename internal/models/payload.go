package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// RawPayload is an opaque JSON blob column. It round-trips the caller's
// bytes unchanged through both the database and the JSON API.
type RawPayload []byte

func (p RawPayload) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("null"), nil
	}
	return p, nil
}

func (p *RawPayload) UnmarshalJSON(data []byte) error {
	if p == nil {
		return errors.New("RawPayload: UnmarshalJSON on nil pointer")
	}
	*p = append((*p)[0:0], data...)
	return nil
}

func (p RawPayload) Value() (driver.Value, error) {
	if len(p) == 0 {
		return nil, nil
	}
	return string(p), nil
}

func (p *RawPayload) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*p = append((*p)[0:0], v...)
	case string:
		*p = RawPayload(v)
	default:
		return fmt.Errorf("RawPayload: cannot scan %T", value)
	}
	return nil
}
