package order

import (
	"strings"
	"time"
)

// Product type identifiers. Service and digital goods are non-physical:
// they can be returned without ever having been issued.
const (
	ProductTypeFinishedGood = "FINISHED_GOOD"
	ProductTypeService      = "SERVICE"
	ProductTypeDigitalGood  = "DIGITAL_GOOD"
)

// Product is the product master record consulted for returnability rules
type Product struct {
	ProductID                  string `gorm:"primaryKey"`
	ProductTypeID              string
	InternalName               string
	Returnable                 string // "Y" or "N"
	SupportDiscontinuationDate *time.Time
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

// TableName returns the database table name
func (Product) TableName() string {
	return "products"
}

// IsReturnable reports whether the product may be returned at the given
// time. A product is not returnable when its returnable flag is "N" or its
// support discontinuation date has passed.
func (p *Product) IsReturnable(now time.Time) bool {
	if strings.EqualFold(p.Returnable, "N") {
		return false
	}
	if p.SupportDiscontinuationDate != nil && !now.Before(*p.SupportDiscontinuationDate) {
		return false
	}
	return true
}

// IsPhysical returns true for goods that must be issued/shipped before they
// can be returned
func (p *Product) IsPhysical() bool {
	switch p.ProductTypeID {
	case ProductTypeService, ProductTypeDigitalGood:
		return false
	}
	return true
}
