package repo

import (
	"errors"

	"gorm.io/gorm"
)

// ErrInsufficientStock is returned when a conditional stock decrement matches
// no row, i.e. the product has fewer units than requested.
var ErrInsufficientStock = errors.New("insufficient stock")

type GormRepo struct {
	DB *gorm.DB
}
