package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

type Book struct {
	ID                 uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Title              string  `gorm:"not null" json:"title"`
	Author             string  `gorm:"not null;index" json:"author"`
	Description        string  `json:"description,omitempty"`
	ISBN               string  `gorm:"uniqueIndex" json:"isbn"`
	Price              float64 `gorm:"not null" json:"price"`
	OnSale             bool    `json:"onSale"`
	DiscountPercentage float64 `json:"discountPercentage"`
	// Derived on every read, never stored.
	DiscountedPrice float64        `gorm:"-" json:"discountedPrice"`
	Stock           int            `json:"stock"`
	Image           string         `json:"image"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// ApplyPricing fills DiscountedPrice from the sale fields.
func (b *Book) ApplyPricing() {
	if b.OnSale && b.DiscountPercentage > 0 {
		b.DiscountedPrice = round2(b.Price * (1 - b.DiscountPercentage/100))
		return
	}
	b.DiscountedPrice = b.Price
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
