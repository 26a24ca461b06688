package models

import "time"

type Cart struct {
	ID     uint       `gorm:"primaryKey" json:"id"`
	UserID string     `gorm:"uniqueIndex;not null" json:"userId"` // one cart per user
	Items  []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`

	// Aggregates are recomputed on every response and never stored.
	TotalItems         int     `gorm:"-" json:"totalItems"`
	TotalPrice         float64 `gorm:"-" json:"totalPrice"`
	DiscountPercentage float64 `gorm:"-" json:"discountPercentage"`
	DiscountAmount     float64 `gorm:"-" json:"discountAmount"`
	FinalPrice         float64 `gorm:"-" json:"finalPrice"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"index" json:"-"`
	BookID    uint      `gorm:"not null" json:"bookId"`
	BookTitle string    `json:"bookTitle"`
	BookImage string    `json:"bookImage"`
	UnitPrice float64   `json:"unitPrice"` // sale-adjusted snapshot taken when the item was added
	Quantity  int       `json:"quantity"`
	Subtotal  float64   `gorm:"-" json:"subtotal"`
	AddedAt   time.Time `json:"addedAt"`
}

// Recalculate fills the derived aggregates. A cart-level discount of
// discountPercent applies once the cart holds at least minItems units.
func (c *Cart) Recalculate(discountPercent float64, minItems int) {
	var total float64
	var count int
	for i := range c.Items {
		c.Items[i].Subtotal = round2(c.Items[i].UnitPrice * float64(c.Items[i].Quantity))
		total += c.Items[i].Subtotal
		count += c.Items[i].Quantity
	}

	c.TotalItems = count
	c.TotalPrice = round2(total)
	c.DiscountPercentage = 0
	c.DiscountAmount = 0
	if discountPercent > 0 && minItems > 0 && count >= minItems {
		c.DiscountPercentage = discountPercent
		c.DiscountAmount = round2(total * discountPercent / 100)
	}

	c.FinalPrice = round2(c.TotalPrice - c.DiscountAmount)
	if c.FinalPrice < 0 {
		c.FinalPrice = 0
	}
}
