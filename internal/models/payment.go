package models

import "gorm.io/gorm"

// PaymentOrder records a checkout order created against the payment provider
// so captures can be verified server side instead of trusting the client.
type PaymentOrder struct {
	gorm.Model

	// OrderID is the provider-assigned order identifier.
	OrderID  string `gorm:"uniqueIndex;not null"`
	Amount   string `gorm:"not null"`
	Currency string `gorm:"not null"`
	// Status mirrors the provider status: "CREATED", "COMPLETED", "FAILED".
	Status string `gorm:"not null"`
}
