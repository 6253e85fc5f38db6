package model

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Product is an inventory line item owned by a single user.
type Product struct {
	BaseModel
	Name         string     `gorm:"type:varchar(255);not null;index" json:"name" validate:"notblank"`
	Quantity     int        `gorm:"not null;default:0;check:quantity >= 0" json:"quantity" validate:"min=0"`
	UserID       string     `gorm:"type:varchar(128);not null;index" json:"userId"`
	Category     string     `gorm:"type:varchar(100);default:''" json:"category"`
	SellingPrice float64    `gorm:"not null;default:0" json:"sellingPrice" validate:"min=0"`
	PurchaseCost float64    `gorm:"not null;default:0" json:"purchaseCost" validate:"min=0"`
	SupplierName string     `gorm:"type:varchar(255);default:''" json:"supplierName"`
	ExpiryDate   *time.Time `json:"expiryDate"`
}

// Normalize trims the free-text fields the same way on create and update.
func (p *Product) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	p.SupplierName = strings.TrimSpace(p.SupplierName)
}

// Clone returns a deep copy, including the expiry date pointer.
func (p Product) Clone() Product {
	if p.ExpiryDate != nil {
		exp := *p.ExpiryDate
		p.ExpiryDate = &exp
	}
	return p
}

// ProductPatch carries a partial update; nil fields are left untouched.
type ProductPatch struct {
	Name         *string    `json:"name"`
	Quantity     *int       `json:"quantity"`
	Category     *string    `json:"category"`
	SellingPrice *float64   `json:"sellingPrice"`
	PurchaseCost *float64   `json:"purchaseCost"`
	SupplierName *string    `json:"supplierName"`
	ExpiryDate   OptionalTime `json:"expiryDate"`
}

// OptionalTime tells an absent JSON key apart from an explicit null.
// Set is true whenever the key was present; a null leaves Value nil.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

// ClearTime is the patch value that removes a date
func ClearTime() OptionalTime {
	return OptionalTime{Set: true}
}

// SetTime is the patch value that replaces a date with t
func SetTime(t time.Time) OptionalTime {
	return OptionalTime{Set: true, Value: &t}
}

func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	o.Value = &t
	return nil
}

// Apply merges the patch into p.
func (patch ProductPatch) Apply(p *Product) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Quantity != nil {
		p.Quantity = *patch.Quantity
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.SellingPrice != nil {
		p.SellingPrice = *patch.SellingPrice
	}
	if patch.PurchaseCost != nil {
		p.PurchaseCost = *patch.PurchaseCost
	}
	if patch.SupplierName != nil {
		p.SupplierName = *patch.SupplierName
	}
	if patch.ExpiryDate.Set {
		p.ExpiryDate = nil
		if patch.ExpiryDate.Value != nil {
			exp := *patch.ExpiryDate.Value
			p.ExpiryDate = &exp
		}
	}
	p.Normalize()
}
