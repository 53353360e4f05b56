package entity

import (
	"net/http"
	"time"
	"tutorbot/lib/validate"
)

// RequestStatus is the shared lifecycle of admin-reviewed requests:
// pending -> approved | rejected. Terminal states never transition again.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

func (s RequestStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// PaymentRequest is created once per screenshot upload and reviewed by an
// admin. FileRef is the messaging platform's file id of the screenshot.
type PaymentRequest struct {
	Id            string        `json:"id" bson:"id" validate:"required"`
	UserId        int64         `json:"user_id" bson:"user_id" validate:"required"`
	FileRef       string        `json:"file_ref" bson:"file_ref"`
	PaymentMethod PaymentMethod `json:"payment_method" bson:"payment_method"`
	Amount        int64         `json:"amount" bson:"amount"`
	Status        RequestStatus `json:"status" bson:"status"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
}

func (p *PaymentRequest) Bind(_ *http.Request) error {
	return validate.Struct(p)
}

// WithdrawalRequest always carries the user's full reward balance at request
// time; partial withdrawal is not supported. The balance is decremented only
// when an admin approves the request.
type WithdrawalRequest struct {
	Id            string        `json:"id" bson:"id" validate:"required"`
	UserId        int64         `json:"user_id" bson:"user_id" validate:"required"`
	Amount        int64         `json:"amount" bson:"amount" validate:"gt=0"`
	AccountNumber string        `json:"account_number" bson:"account_number" validate:"required"`
	AccountName   string        `json:"account_name" bson:"account_name" validate:"required"`
	PaymentMethod PaymentMethod `json:"payment_method" bson:"payment_method"`
	Status        RequestStatus `json:"status" bson:"status"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
}

func (w *WithdrawalRequest) Bind(_ *http.Request) error {
	return validate.Struct(w)
}
