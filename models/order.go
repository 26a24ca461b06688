package models

import (
	"errors"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"    // placed, awaiting confirmation
	OrderStatusConfirmed  OrderStatus = "Confirmed"  // confirmed by staff
	OrderStatusProcessing OrderStatus = "Processing" // being prepared for pickup/dispatch
	OrderStatusShipped    OrderStatus = "Shipped"    // handed to the carrier
	OrderStatusCompleted  OrderStatus = "Completed"  // delivered or picked up
	OrderStatusCancelled  OrderStatus = "Cancelled"  // cancelled before shipping
	OrderStatusRefunded   OrderStatus = "Refunded"   // money returned, staff-only transition
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusCompleted},
	OrderStatusCancelled:  {},
	OrderStatusCompleted:  {},
	OrderStatusRefunded:   {},
}

// ParseOrderStatus maps a raw string to an OrderStatus.
func ParseOrderStatus(status string) (OrderStatus, error) {
	for known := range orderTransitions {
		if strings.EqualFold(status, string(known)) {
			return known, nil
		}
	}
	return "", errors.New("invalid order status")
}

// CanTransitionTo reports whether moving from s to next is a legal transition.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Refundable reports whether a staff member may move the order to Refunded.
// Refunds are only issued once money actually changed hands and the order is
// no longer in flight.
func (s OrderStatus) Refundable() bool {
	return s == OrderStatusCancelled || s == OrderStatusCompleted
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

type Order struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   string `gorm:"not null;index" json:"userId"`
	OrderRef string `gorm:"uniqueIndex" json:"orderRef"`
	// ClaimCode is the opaque pickup token, immutable once issued.
	ClaimCode string      `gorm:"uniqueIndex" json:"claimCode"`
	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`

	TotalAmount        float64 `json:"totalAmount"`
	DiscountPercentage float64 `json:"discountPercentage"`
	DiscountAmount     float64 `json:"discountAmount"`
	FinalAmount        float64 `json:"finalAmount"`

	Status    OrderStatus `gorm:"type:VARCHAR(20);default:'Pending'" json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// CanCancel reports whether the customer cancel action still applies.
func (o *Order) CanCancel() bool {
	return o.Status.CanTransitionTo(OrderStatusCancelled)
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index" json:"-"`
	BookID    uint    `json:"bookId"`
	BookTitle string  `json:"bookTitle"`
	BookImage string  `json:"bookImage"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}
