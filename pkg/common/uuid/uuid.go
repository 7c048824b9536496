package uuid

import (
	"database/sql/driver"
	"fmt"

	guuid "github.com/gofrs/uuid/v5"
)

// UUID wraps gofrs/uuid so models and DTOs share one type.
type UUID guuid.UUID

var Nil = UUID(guuid.Nil)

func NewV4() UUID {
	return UUID(guuid.Must(guuid.NewV4()))
}

func (u UUID) IsNil() bool {
	return guuid.UUID(u) == guuid.Nil
}

func (u UUID) String() string {
	return guuid.UUID(u).String()
}

func (u UUID) MarshalText() ([]byte, error) {
	return guuid.UUID(u).MarshalText()
}

func (u *UUID) UnmarshalText(text []byte) error {
	return (*guuid.UUID)(u).UnmarshalText(text)
}

func (u UUID) Value() (driver.Value, error) {
	if u.IsNil() {
		return nil, nil
	}
	return u.String(), nil
}

func (u *UUID) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*u = Nil
		return nil
	case string:
		return u.UnmarshalText([]byte(v))
	case []byte:
		if len(v) == guuid.Size {
			return (*guuid.UUID)(u).UnmarshalBinary(v)
		}
		return u.UnmarshalText(v)
	default:
		return fmt.Errorf("uuid: cannot scan %T", src)
	}
}
