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

// BeginRegistration starts (or restarts) the wizard. Registration fields
// are reset wholesale; referral fields and JoinedAt survive the reset.
func (c *Core) BeginRegistration(id int64, firstName, username string) (*entity.User, error) {
	user, _, err := c.EnsureUser(id, firstName, username)
	if err != nil {
		return nil, err
	}
	if user.Blocked {
		return nil, ErrBlocked
	}
	if user.IsVerified {
		return nil, ErrAlreadyVerified
	}

	user.Name = ""
	user.Phone = ""
	user.StudentType = ""
	user.PaymentMethod = ""
	user.Step = entity.StepAwaitingName
	user.PaymentStatus = entity.PaymentNotStarted

	if err = c.db.SaveUser(user); err != nil {
		return nil, err
	}
	c.log.Info("registration started", sl.Chat(id))
	return user, nil
}

// SubmitName consumes the typed name at the awaiting_name step.
func (c *Core) SubmitName(id int64, name string) (*entity.User, error) {
	user, err := c.db.GetUser(id)
	if err != nil {
		return nil, err
	}
	if user.Step != entity.StepAwaitingName {
		return nil, ErrWrongStep
	}
	if err = validate.Name(name); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidName, err)
	}

	user.Name = strings.TrimSpace(name)
	user.Step = entity.StepAwaitingPhone
	if err = c.db.SaveUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// SubmitPhone consumes a shared contact at the awaiting_phone step. The
// contact must belong to the sender.
func (c *Core) SubmitPhone(id int64, contactUserId int64, phone string) (*entity.User, error) {
	user, err := c.db.GetUser(id)
	if err != nil {
		return nil, err
	}
	if user.Step != entity.StepAwaitingPhone {
		return nil, ErrWrongStep
	}
	if contactUserId != id || phone == "" {
		return nil, fmt.Errorf("%w: contact is not the sender's own", ErrWrongStep)
	}

	user.Phone = phone
	user.Step = entity.StepAwaitingStream
	if err = c.db.SaveUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// SelectStream consumes the stream choice at the awaiting_stream step.
func (c *Core) SelectStream(id int64, stream entity.StudentType) (*entity.User, error) {
	user, err := c.db.GetUser(id)
	if err != nil {
		return nil, err
	}
	if user.Step != entity.StepAwaitingStream {
		return nil, ErrWrongStep
	}
	if stream != entity.StudentNatural && stream != entity.StudentSocial {
		return nil, fmt.Errorf("%w: unknown stream %q", ErrWrongStep, stream)
	}

	user.StudentType = stream
	user.Step = entity.StepAwaitingPaymentMethod
	if err = c.db.SaveUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// SelectPaymentMethod consumes the payment channel choice. Also accepted at
// the screenshot step so a student can switch channels before uploading.
func (c *Core) SelectPaymentMethod(id int64, method entity.PaymentMethod) (*entity.User, error) {
	user, err := c.db.GetUser(id)
	if err != nil {
		return nil, err
	}
	if user.Step != entity.StepAwaitingPaymentMethod && user.Step != entity.StepAwaitingScreenshot {
		return nil, ErrWrongStep
	}
	if method != entity.MethodTeleBirr && method != entity.MethodCBE {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrWrongStep, method)
	}

	user.PaymentMethod = method
	user.Step = entity.StepAwaitingScreenshot
	if err = c.db.SaveUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// SubmitScreenshot completes the wizard: it files a payment request for
// admin review and marks the user pending approval. A screenshot sent at
// any other step is rejected with ErrWrongStep and changes nothing.
func (c *Core) SubmitScreenshot(id int64, fileRef string) (*entity.User, *entity.PaymentRequest, error) {
	user, err := c.db.GetUser(id)
	if err != nil {
		return nil, nil, err
	}
	if user.Step != entity.StepAwaitingScreenshot {
		return nil, nil, ErrWrongStep
	}
	if fileRef == "" {
		return nil, nil, fmt.Errorf("%w: empty file reference", ErrWrongStep)
	}

	req := &entity.PaymentRequest{
		Id:            uuid.NewString(),
		UserId:        id,
		FileRef:       fileRef,
		PaymentMethod: user.PaymentMethod,
		Amount:        c.settings.Int(settings.KeyRegistrationFee),
		Status:        entity.StatusPending,
		CreatedAt:     time.Now(),
	}
	if err = c.db.AddPaymentRequest(req); err != nil {
		return nil, nil, err
	}

	user.Step = entity.StepCompleted
	user.PaymentStatus = entity.PaymentPendingApproval
	if err = c.db.SaveUser(user); err != nil {
		return nil, nil, err
	}
	c.log.Info("payment request filed",
		sl.Chat(id),
		slog.String("request", req.Id),
		slog.Int64("amount", req.Amount))
	return user, req, nil
}

// CancelRegistration abandons the wizard and clears the collected fields.
// Referral fields and JoinedAt are untouched.
func (c *Core) CancelRegistration(id int64) (*entity.User, error) {
	user, err := c.db.GetUser(id)
	if err != nil {
		return nil, err
	}
	user.Name = ""
	user.Phone = ""
	user.StudentType = ""
	user.PaymentMethod = ""
	user.Step = entity.StepNotStarted
	user.PaymentStatus = entity.PaymentNotStarted
	if err = c.db.SaveUser(user); err != nil {
		return nil, err
	}
	c.log.Info("registration cancelled", sl.Chat(id))
	return user, nil
}
