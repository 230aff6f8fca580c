package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrParentNotFound = errors.New("parent record not found")
	ErrDuplicate      = errors.New("duplicate record")
	ErrInUse          = errors.New("record still referenced")
)

// translate maps gorm errors onto the package sentinels. TranslateError
// must be enabled on the handle for duplicate keys to be recognised.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
