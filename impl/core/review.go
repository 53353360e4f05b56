package core

import (
	"log/slog"
	"tutorbot/entity"
	"tutorbot/lib/sl"
)

// PendingPayments lists payment requests waiting for review.
func (c *Core) PendingPayments() ([]*entity.PaymentRequest, error) {
	return c.db.PendingPayments()
}

// PendingWithdrawals lists withdrawal requests waiting for review.
func (c *Core) PendingWithdrawals() ([]*entity.WithdrawalRequest, error) {
	return c.db.PendingWithdrawals()
}

// ApprovePayment resolves a payment request and verifies the student.
// A request already in a terminal state is rejected with ErrAlreadyResolved
// so two admins tapping the same button cannot double-apply.
func (c *Core) ApprovePayment(requestId, reviewedBy string) (*entity.PaymentRequest, *entity.User, error) {
	req, err := c.db.GetPaymentRequest(requestId)
	if err != nil {
		return nil, nil, err
	}
	if req.Status.Terminal() {
		return req, nil, ErrAlreadyResolved
	}
	if err = c.db.SetPaymentStatus(requestId, entity.StatusApproved); err != nil {
		return nil, nil, err
	}
	req.Status = entity.StatusApproved

	user, err := c.db.GetUser(req.UserId)
	if err != nil {
		return req, nil, err
	}
	user.IsVerified = true
	user.PaymentStatus = entity.PaymentApproved
	if err = c.db.SaveUser(user); err != nil {
		return req, nil, err
	}
	c.log.Info("payment approved",
		slog.String("request", requestId),
		sl.Chat(req.UserId),
		slog.String("reviewed_by", reviewedBy))
	return req, user, nil
}

// RejectPayment resolves a payment request negatively. The student drops
// back to the screenshot step so a corrected proof can be uploaded without
// redoing the whole wizard.
func (c *Core) RejectPayment(requestId, reviewedBy string) (*entity.PaymentRequest, *entity.User, error) {
	req, err := c.db.GetPaymentRequest(requestId)
	if err != nil {
		return nil, nil, err
	}
	if req.Status.Terminal() {
		return req, nil, ErrAlreadyResolved
	}
	if err = c.db.SetPaymentStatus(requestId, entity.StatusRejected); err != nil {
		return nil, nil, err
	}
	req.Status = entity.StatusRejected

	user, err := c.db.GetUser(req.UserId)
	if err != nil {
		return req, nil, err
	}
	user.PaymentStatus = entity.PaymentRejected
	user.Step = entity.StepAwaitingScreenshot
	if err = c.db.SaveUser(user); err != nil {
		return req, nil, err
	}
	c.log.Info("payment rejected",
		slog.String("request", requestId),
		sl.Chat(req.UserId),
		slog.String("reviewed_by", reviewedBy))
	return req, user, nil
}

// ApproveWithdrawal resolves a withdrawal request and deducts the paid
// amount from the user's balance. Rewards earned after the request was
// filed stay on the balance.
func (c *Core) ApproveWithdrawal(requestId, reviewedBy string) (*entity.WithdrawalRequest, error) {
	req, err := c.db.GetWithdrawalRequest(requestId)
	if err != nil {
		return nil, err
	}
	if req.Status.Terminal() {
		return req, ErrAlreadyResolved
	}
	if err = c.db.SetWithdrawalStatus(requestId, entity.StatusApproved); err != nil {
		return nil, err
	}
	req.Status = entity.StatusApproved

	if err = c.db.AdjustRewards(req.UserId, -req.Amount); err != nil {
		return req, err
	}
	c.log.Info("withdrawal approved",
		slog.String("request", requestId),
		sl.Chat(req.UserId),
		slog.Int64("amount", req.Amount),
		slog.String("reviewed_by", reviewedBy))
	return req, nil
}

// RejectWithdrawal resolves a withdrawal request negatively; the balance
// is untouched.
func (c *Core) RejectWithdrawal(requestId, reviewedBy string) (*entity.WithdrawalRequest, error) {
	req, err := c.db.GetWithdrawalRequest(requestId)
	if err != nil {
		return nil, err
	}
	if req.Status.Terminal() {
		return req, ErrAlreadyResolved
	}
	if err = c.db.SetWithdrawalStatus(requestId, entity.StatusRejected); err != nil {
		return nil, err
	}
	req.Status = entity.StatusRejected
	c.log.Info("withdrawal rejected",
		slog.String("request", requestId),
		sl.Chat(req.UserId),
		slog.String("reviewed_by", reviewedBy))
	return req, nil
}
