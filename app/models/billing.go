package models

import "gorm.io/gorm"

// PaymentStatus is the closed set of payment states.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Valid reports whether s is a defined payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// Payment attaches money movement to a service request. Several
// payments may exist per request; they are created independently of
// status transitions.
type Payment struct {
	gorm.Model
	ServiceRequestID uint          `gorm:"not null;index" json:"serviceRequestId"`
	Amount           float64       `gorm:"not null" json:"amount"`
	Status           PaymentStatus `gorm:"size:20;not null;default:pending" json:"status"`
	Method           string        `gorm:"size:50" json:"method"`
}

// Review is a one-directional rating attached to a service request.
type Review struct {
	gorm.Model
	ServiceRequestID uint   `gorm:"not null;index" json:"serviceRequestId"`
	FromUserID       uint   `gorm:"not null;index" json:"fromUserId"`
	ToUserID         uint   `gorm:"not null;index" json:"toUserId"`
	Rating           int    `gorm:"not null" json:"rating"`
	Comment          string `gorm:"size:2000" json:"comment"`
}
