package core

import (
	"errors"
	"log/slog"
	"time"
	"tutorbot/entity"
	"tutorbot/internal/settings"
	"tutorbot/lib/sl"
)

// Typed denial reasons. The bot layer maps these to user-facing messages;
// anything else is reported as a generic failure.
var (
	ErrBlocked           = errors.New("user is blocked")
	ErrAlreadyVerified   = errors.New("user is already verified")
	ErrWrongStep         = errors.New("input does not match registration step")
	ErrInvalidName       = errors.New("invalid name")
	ErrInsufficientFunds = errors.New("reward balance below withdrawal minimum")
	ErrNoPayoutProfile   = errors.New("payout account details missing")
	ErrAlreadyResolved   = errors.New("request already resolved")
)

// Database is the persistence surface the core needs. Implemented by
// internal/database.MongoDB.
type Database interface {
	GetUser(id int64) (*entity.User, error)
	SaveUser(user *entity.User) error
	DeleteUser(id int64) error
	AllUsers() ([]*entity.User, error)
	VerifiedUsers() ([]*entity.User, error)
	UsersByDateRange(from, to time.Time) ([]*entity.User, error)
	UserReferrals(referrerId string) ([]*entity.User, error)
	TopReferrers(limit int64) ([]*entity.User, error)

	CreditReferral(referrerId, refereeId int64, reward int64) error
	SetReferrer(userId int64, referrerId string) error
	AdjustRewards(userId int64, delta int64) error

	AddPaymentRequest(req *entity.PaymentRequest) error
	GetPaymentRequest(id string) (*entity.PaymentRequest, error)
	PendingPayments() ([]*entity.PaymentRequest, error)
	SetPaymentStatus(id string, status entity.RequestStatus) error

	AddWithdrawalRequest(req *entity.WithdrawalRequest) error
	GetWithdrawalRequest(id string) (*entity.WithdrawalRequest, error)
	PendingWithdrawals() ([]*entity.WithdrawalRequest, error)
	SetWithdrawalStatus(id string, status entity.RequestStatus) error
}

// AuthService authenticates ops API tokens. Implemented by impl/auth.
type AuthService interface {
	ActorByToken(token string) (string, error)
}

type Core struct {
	db       Database
	settings *settings.Store
	auth     AuthService
	log      *slog.Logger
}

func New(db Database, st *settings.Store, log *slog.Logger) *Core {
	if db == nil {
		panic("database is nil")
	}
	return &Core{
		db:       db,
		settings: st,
		log:      log.With(sl.Module("core")),
	}
}

func (c *Core) Settings() *settings.Store {
	return c.settings
}

func (c *Core) SetAuthService(auth AuthService) {
	c.auth = auth
}

func (c *Core) ActorByToken(token string) (string, error) {
	if c.auth == nil {
		return "", errors.New("auth service not connected")
	}
	return c.auth.ActorByToken(token)
}

// User loads a student record; entity.ErrNotFound for an unknown id.
func (c *Core) User(id int64) (*entity.User, error) {
	return c.db.GetUser(id)
}

// EnsureUser loads the record for a Telegram account, creating it on first
// contact. The created flag lets the caller run first-contact logic, such
// as referral crediting, only once.
func (c *Core) EnsureUser(id int64, firstName, username string) (*entity.User, bool, error) {
	user, err := c.db.GetUser(id)
	if err == nil {
		if user.FirstName != firstName || user.Username != username {
			user.FirstName = firstName
			user.Username = username
			if err = c.db.SaveUser(user); err != nil {
				c.log.Error("update user identity", sl.Chat(id), sl.Err(err))
			}
		}
		return user, false, nil
	}
	if !errors.Is(err, entity.ErrNotFound) {
		return nil, false, err
	}
	user = &entity.User{
		TelegramId:    id,
		FirstName:     firstName,
		Username:      username,
		Step:          entity.StepNotStarted,
		PaymentStatus: entity.PaymentNotStarted,
		JoinedAt:      time.Now(),
	}
	if err = c.db.SaveUser(user); err != nil {
		return nil, false, err
	}
	c.log.Info("new user registered", sl.Chat(id), slog.String("username", username))
	return user, true, nil
}

// AllStudents returns every stored user record.
func (c *Core) AllStudents() ([]*entity.User, error) {
	return c.db.AllUsers()
}

// VerifiedStudents returns users whose fee payment has been approved.
func (c *Core) VerifiedStudents() ([]*entity.User, error) {
	return c.db.VerifiedUsers()
}

// StudentsByDateRange returns users who joined within [from, to].
func (c *Core) StudentsByDateRange(from, to time.Time) ([]*entity.User, error) {
	return c.db.UsersByDateRange(from, to)
}

// DeleteStudent removes a user record. Referral credit markers and the
// referrer_id back-references of their referees stay in place.
func (c *Core) DeleteStudent(id int64) error {
	return c.db.DeleteUser(id)
}
