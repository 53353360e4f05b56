package entity

import (
	"net/http"
	"strconv"
	"time"
	"tutorbot/lib/validate"
)

// RegistrationStep tracks a user's position in the registration wizard.
// Steps only advance forward along the fixed sequence; cancel resets to
// StepNotStarted.
type RegistrationStep string

const (
	StepNotStarted            RegistrationStep = "not_started"
	StepAwaitingName          RegistrationStep = "awaiting_name"
	StepAwaitingPhone         RegistrationStep = "awaiting_phone"
	StepAwaitingStream        RegistrationStep = "awaiting_stream"
	StepAwaitingPaymentMethod RegistrationStep = "awaiting_payment_method"
	StepAwaitingScreenshot    RegistrationStep = "awaiting_screenshot"
	StepCompleted             RegistrationStep = "completed"
)

// PaymentStatus tracks the fee payment lifecycle.
type PaymentStatus string

const (
	PaymentNotStarted      PaymentStatus = "not_started"
	PaymentPendingApproval PaymentStatus = "pending_approval"
	PaymentApproved        PaymentStatus = "approved"
	PaymentRejected        PaymentStatus = "rejected"
)

// StudentType is the field of study selected during registration.
type StudentType string

const (
	StudentNatural StudentType = "natural"
	StudentSocial  StudentType = "social"
)

func (s StudentType) Label() string {
	if s == StudentSocial {
		return "Social Science"
	}
	return "Natural Science"
}

// PaymentMethod is a mobile-money channel.
type PaymentMethod string

const (
	MethodTeleBirr PaymentMethod = "telebirr"
	MethodCBE      PaymentMethod = "cbe"
)

func (m PaymentMethod) Label() string {
	if m == MethodCBE {
		return "CBE Birr"
	}
	return "TeleBirr"
}

// User is a student record, keyed by Telegram id.
// Registration fields are reset wholesale when a new registration starts;
// referral fields (ReferrerId, ReferralCount, Rewards, TotalRewards) and
// JoinedAt survive both reset and cancel.
type User struct {
	TelegramId    int64            `json:"telegram_id" bson:"telegram_id" validate:"required"`
	FirstName     string           `json:"first_name" bson:"first_name"`
	Username      string           `json:"username,omitempty" bson:"username,omitempty"`
	Name          string           `json:"name" bson:"name"`
	Phone         string           `json:"phone" bson:"phone"`
	StudentType   StudentType      `json:"student_type" bson:"student_type"`
	PaymentMethod PaymentMethod    `json:"payment_method" bson:"payment_method"`
	Step          RegistrationStep `json:"registration_step" bson:"registration_step"`
	PaymentStatus PaymentStatus    `json:"payment_status" bson:"payment_status"`
	IsVerified    bool             `json:"is_verified" bson:"is_verified"`

	// Referral linkage. ReferrerId is a weak back-reference kept as the
	// referrer's id in string form; it is never removed, even if the
	// referrer is later deleted.
	ReferrerId    string `json:"referrer_id,omitempty" bson:"referrer_id,omitempty"`
	ReferralCount int64  `json:"referral_count" bson:"referral_count"`
	Rewards       int64  `json:"rewards" bson:"rewards"`
	TotalRewards  int64  `json:"total_rewards" bson:"total_rewards"`

	// Withdrawal payout profile.
	PayoutMethod  PaymentMethod `json:"payout_method,omitempty" bson:"payout_method,omitempty"`
	AccountNumber string        `json:"account_number,omitempty" bson:"account_number,omitempty"`
	AccountName   string        `json:"account_name,omitempty" bson:"account_name,omitempty"`

	JoinedAt time.Time `json:"joined_at" bson:"joined_at"`
	Blocked  bool      `json:"blocked" bson:"blocked"`
}

func (u *User) Bind(_ *http.Request) error {
	return validate.Struct(u)
}

func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return "User " + strconv.FormatInt(u.TelegramId, 10)
}

// HasPayoutProfile reports whether both payout fields required for a
// withdrawal request are set.
func (u *User) HasPayoutProfile() bool {
	return u.AccountNumber != "" && u.AccountName != ""
}

// InRegistration reports whether the user is mid-wizard, between entry and
// the screenshot step.
func (u *User) InRegistration() bool {
	switch u.Step {
	case StepAwaitingName, StepAwaitingPhone, StepAwaitingStream,
		StepAwaitingPaymentMethod, StepAwaitingScreenshot:
		return true
	}
	return false
}

var stepOrder = map[RegistrationStep]int{
	StepNotStarted:            0,
	StepAwaitingName:          1,
	StepAwaitingPhone:         2,
	StepAwaitingStream:        3,
	StepAwaitingPaymentMethod: 4,
	StepAwaitingScreenshot:    5,
	StepCompleted:             6,
}

// Follows reports whether s is the step immediately after prev in the fixed
// wizard sequence.
func (s RegistrationStep) Follows(prev RegistrationStep) bool {
	a, ok1 := stepOrder[prev]
	b, ok2 := stepOrder[s]
	return ok1 && ok2 && b == a+1
}
