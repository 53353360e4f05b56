package core

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	"tutorbot/entity"
	"tutorbot/internal/settings"
	"tutorbot/lib/sl"
	"tutorbot/lib/validate"

	"github.com/google/uuid"
)

// SavePayoutProfile stores the account a user wants rewards paid to.
func (c *Core) SavePayoutProfile(id int64, method entity.PaymentMethod, number, name string) (*entity.User, error) {
	user, err := c.db.GetUser(id)
	if err != nil {
		return nil, err
	}
	if method != entity.MethodTeleBirr && method != entity.MethodCBE {
		return nil, fmt.Errorf("unknown payout method %q", method)
	}
	if err = validate.AccountNumber(number); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("account name is empty")
	}

	user.PayoutMethod = method
	user.AccountNumber = number
	user.AccountName = name
	if err = c.db.SaveUser(user); err != nil {
		return nil, err
	}
	c.log.Info("payout profile updated", sl.Chat(id), slog.String("method", string(method)))
	return user, nil
}

// RequestWithdrawal files a withdrawal of the user's full reward balance.
// The balance check runs before the payout profile check, so a user who
// fails both is told about funds first. The balance itself is not touched
// here; it is decremented only when an admin approves.
func (c *Core) RequestWithdrawal(id int64) (*entity.WithdrawalRequest, error) {
	user, err := c.db.GetUser(id)
	if err != nil {
		return nil, err
	}
	if user.Blocked {
		return nil, ErrBlocked
	}
	if user.Rewards < c.MinWithdrawal() {
		return nil, ErrInsufficientFunds
	}
	if !user.HasPayoutProfile() {
		return nil, ErrNoPayoutProfile
	}

	req := &entity.WithdrawalRequest{
		Id:            uuid.NewString(),
		UserId:        id,
		Amount:        user.Rewards,
		AccountNumber: user.AccountNumber,
		AccountName:   user.AccountName,
		PaymentMethod: user.PayoutMethod,
		Status:        entity.StatusPending,
		CreatedAt:     time.Now(),
	}
	if err = c.db.AddWithdrawalRequest(req); err != nil {
		return nil, err
	}
	c.log.Info("withdrawal requested",
		sl.Chat(id),
		slog.String("request", req.Id),
		slog.Int64("amount", req.Amount))
	return req, nil
}

// MinWithdrawal returns the withdrawal floor: the referral minimum times
// the per-referral reward. The floor follows an admin edit of either
// factor; min_withdrawal_amount is a display-only config entry.
func (c *Core) MinWithdrawal() int64 {
	return c.settings.Int(settings.KeyMinReferralsWithdraw) * c.settings.Int(settings.KeyReferralReward)
}
