package model

import (
	"fmt"
	"time"
)

// PaymentStatus is the closed set of payment states. Paid and canceled are
// terminal.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentCanceled PaymentStatus = "canceled"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentPaid, PaymentCanceled:
		return PaymentStatus(s), nil
	}
	return "", fmt.Errorf("unknown payment status %q", s)
}

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentPaid || s == PaymentCanceled
}

// Payment records one checkout session issued by the payment provider for a
// booking. SessionID and SessionURL are opaque provider values.
type Payment struct {
	ID          string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	BookingID   string        `json:"booking_id" bson:"booking_id" validate:"required,mongodb"`
	Status      PaymentStatus `json:"status" bson:"status" validate:"required,oneof=pending paid canceled"`
	AmountToPay float64       `json:"amount_to_pay" bson:"amount_to_pay" validate:"required,gt=0"`
	SessionID   string        `json:"session_id" bson:"session_id"`
	SessionURL  string        `json:"session_url" bson:"session_url"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// PaymentRequest is the API payload for initiating a checkout session.
type PaymentRequest struct {
	BookingID   string  `json:"booking_id" validate:"required,mongodb"`
	AmountToPay float64 `json:"amount_to_pay" validate:"required,gt=0"`
}
