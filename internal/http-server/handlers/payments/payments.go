package payments

import (
	"errors"
	"log/slog"
	"net/http"
	"tutorbot/entity"
	"tutorbot/impl/core"
	"tutorbot/lib/api/cont"
	"tutorbot/lib/api/response"
	"tutorbot/lib/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Core interface {
	PendingPayments() ([]*entity.PaymentRequest, error)
	ApprovePayment(requestId, reviewedBy string) (*entity.PaymentRequest, *entity.User, error)
	RejectPayment(requestId, reviewedBy string) (*entity.PaymentRequest, *entity.User, error)
}

func Pending(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.payments"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		requests, err := handler.PendingPayments()
		if err != nil {
			log.Error("listing pending payments", sl.Err(err))
			render.Status(r, 500)
			render.JSON(w, r, response.Error("Request failed"))
			return
		}
		render.JSON(w, r, response.Ok(requests))
	}
}

func Approve(logger *slog.Logger, handler Core) http.HandlerFunc {
	return resolve(logger, "approve", func(id, actor string) (*entity.PaymentRequest, error) {
		req, _, err := handler.ApprovePayment(id, actor)
		return req, err
	})
}

func Reject(logger *slog.Logger, handler Core) http.HandlerFunc {
	return resolve(logger, "reject", func(id, actor string) (*entity.PaymentRequest, error) {
		req, _, err := handler.RejectPayment(id, actor)
		return req, err
	})
}

func resolve(logger *slog.Logger, action string, fn func(id, actor string) (*entity.PaymentRequest, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestId := chi.URLParam(r, "id")
		log := logger.With(
			sl.Module("http.handlers.payments"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("payment_request", requestId),
			slog.String("action", action),
		)

		req, err := fn(requestId, cont.GetActor(r.Context()))
		switch {
		case errors.Is(err, entity.ErrNotFound):
			render.Status(r, 404)
			render.JSON(w, r, response.Error("Payment request not found"))
			return
		case errors.Is(err, core.ErrAlreadyResolved):
			render.Status(r, 409)
			render.JSON(w, r, response.Error("Payment request already resolved"))
			return
		case err != nil:
			log.Error("resolving payment request", sl.Err(err))
			render.Status(r, 500)
			render.JSON(w, r, response.Error("Request failed"))
			return
		}

		log.Info("payment request resolved", slog.String("status", string(req.Status)))
		render.JSON(w, r, response.Ok(req))
	}
}
