package students

import (
	"log/slog"
	"net/http"
	"time"
	"tutorbot/entity"
	"tutorbot/impl/core"
	"tutorbot/lib/api/response"
	"tutorbot/lib/clock"
	"tutorbot/lib/sl"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Core interface {
	AllStudents() ([]*entity.User, error)
	StudentsByDateRange(from, to time.Time) ([]*entity.User, error)
	StudentStats() (*core.Stats, error)
}

// List returns the student roster. Optional from/to query parameters
// (YYYY-MM-DD) restrict by join date.
func List(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.students")
		log := logger.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		fromDay := r.URL.Query().Get("from")
		toDay := r.URL.Query().Get("to")

		var users []*entity.User
		var err error
		if fromDay != "" || toDay != "" {
			from, to, rerr := clock.DayRange(fromDay, toDay)
			if rerr != nil {
				log.Warn("invalid date range", sl.Err(rerr))
				render.Status(r, 400)
				render.JSON(w, r, response.Error(rerr.Error()))
				return
			}
			users, err = handler.StudentsByDateRange(from, to)
		} else {
			users, err = handler.AllStudents()
		}
		if err != nil {
			log.Error("listing students", sl.Err(err))
			render.Status(r, 500)
			render.JSON(w, r, response.Error("Request failed"))
			return
		}

		log.With(slog.Int("count", len(users))).Debug("students listed")
		render.JSON(w, r, response.Ok(users))
	}
}

// Stats returns aggregate numbers over the student base.
func Stats(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.students")
		log := logger.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		stats, err := handler.StudentStats()
		if err != nil {
			log.Error("aggregating stats", sl.Err(err))
			render.Status(r, 500)
			render.JSON(w, r, response.Error("Request failed"))
			return
		}
		render.JSON(w, r, response.Ok(stats))
	}
}
