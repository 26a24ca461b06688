package models

import "time"

type WishlistItem struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"uniqueIndex:idx_wishlist_user_book;not null" json:"-"`
	BookID uint   `gorm:"uniqueIndex:idx_wishlist_user_book;not null" json:"bookId"`
	Book   *Book  `gorm:"foreignKey:BookID" json:"-"`

	// Pricing and availability are mirrored from the book at fetch time and
	// refreshed on every list reload. Display-only; never used for checkout math.
	BookTitle          string  `gorm:"-" json:"bookTitle"`
	BookAuthor         string  `gorm:"-" json:"bookAuthor"`
	BookImage          string  `gorm:"-" json:"bookImage"`
	Price              float64 `gorm:"-" json:"price"`
	OnSale             bool    `gorm:"-" json:"onSale"`
	DiscountPercentage float64 `gorm:"-" json:"discountPercentage"`
	DiscountedPrice    float64 `gorm:"-" json:"discountedPrice"`
	Available          bool    `gorm:"-" json:"available"`

	CreatedAt time.Time `json:"addedAt"`
}

// MirrorBook copies the display snapshot fields from the referenced book.
func (w *WishlistItem) MirrorBook(b *Book) {
	if b == nil {
		return
	}
	b.ApplyPricing()
	w.BookTitle = b.Title
	w.BookAuthor = b.Author
	w.BookImage = b.Image
	w.Price = b.Price
	w.OnSale = b.OnSale
	w.DiscountPercentage = b.DiscountPercentage
	w.DiscountedPrice = b.DiscountedPrice
	w.Available = b.Stock > 0
}
