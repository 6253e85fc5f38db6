package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sale is an immutable ledger entry written by the sale transaction.
type Sale struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;" json:"_id"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index" json:"productId"`
	Product      *Product  `gorm:"foreignKey:ProductID" json:"-"`
	ProductName  string    `gorm:"type:varchar(255);not null" json:"productName"` // Snapshot at sale time
	QuantitySold int       `gorm:"not null;check:quantity_sold > 0" json:"quantitySold"`
	TotalProfit  float64   `gorm:"not null" json:"totalProfit"`
	UserID       string    `gorm:"type:varchar(128);not null;index" json:"userId"`
	Date         time.Time `gorm:"column:sold_at;not null;index" json:"date"`
	CreatedAt    time.Time `json:"createdAt"`
}

// BeforeCreate assigns the id and defaults the sale date to now
func (s *Sale) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Date.IsZero() {
		s.Date = time.Now()
	}
	return
}
