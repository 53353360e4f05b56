package withdrawals

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
	PendingWithdrawals() ([]*entity.WithdrawalRequest, error)
	ApproveWithdrawal(requestId, reviewedBy string) (*entity.WithdrawalRequest, error)
	RejectWithdrawal(requestId, reviewedBy string) (*entity.WithdrawalRequest, error)
}

func Pending(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.withdrawals"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		requests, err := handler.PendingWithdrawals()
		if err != nil {
			log.Error("listing pending withdrawals", sl.Err(err))
			render.Status(r, 500)
			render.JSON(w, r, response.Error("Request failed"))
			return
		}
		render.JSON(w, r, response.Ok(requests))
	}
}

func Approve(logger *slog.Logger, handler Core) http.HandlerFunc {
	return resolve(logger, "approve", handler.ApproveWithdrawal)
}

func Reject(logger *slog.Logger, handler Core) http.HandlerFunc {
	return resolve(logger, "reject", handler.RejectWithdrawal)
}

func resolve(logger *slog.Logger, action string, fn func(id, actor string) (*entity.WithdrawalRequest, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestId := chi.URLParam(r, "id")
		log := logger.With(
			sl.Module("http.handlers.withdrawals"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("withdrawal_request", requestId),
			slog.String("action", action),
		)

		req, err := fn(requestId, cont.GetActor(r.Context()))
		switch {
		case errors.Is(err, entity.ErrNotFound):
			render.Status(r, 404)
			render.JSON(w, r, response.Error("Withdrawal request not found"))
			return
		case errors.Is(err, core.ErrAlreadyResolved):
			render.Status(r, 409)
			render.JSON(w, r, response.Error("Withdrawal request already resolved"))
			return
		case err != nil:
			log.Error("resolving withdrawal request", sl.Err(err))
			render.Status(r, 500)
			render.JSON(w, r, response.Error("Request failed"))
			return
		}

		log.Info("withdrawal request resolved", slog.String("status", string(req.Status)))
		render.JSON(w, r, response.Ok(req))
	}
}
