package botconfig

import (
	"errors"
	"log/slog"
	"net/http"
	"tutorbot/internal/settings"
	"tutorbot/lib/api/cont"
	"tutorbot/lib/api/response"
	"tutorbot/lib/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type updateRequest struct {
	Value interface{} `json:"value"`
}

// All returns every known configuration key with its effective value.
func All(logger *slog.Logger, store *settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.botconfig"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		values := make(map[string]interface{})
		for _, key := range settings.FinancialKeys {
			values[key] = store.Int(key)
		}
		for _, key := range settings.ToggleKeys {
			values[key] = store.Bool(key)
		}
		for _, key := range settings.MessageKeys {
			values[key] = store.String(key)
		}
		for _, key := range settings.ButtonKeys {
			values[key] = store.String(key)
		}

		log.Debug("configuration exported", slog.Int("keys", len(values)))
		render.JSON(w, r, response.Ok(values))
	}
}

// Update sets a single configuration key. The authenticated actor is
// recorded as updated_by.
func Update(logger *slog.Logger, store *settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")
		log := logger.With(
			sl.Module("http.handlers.botconfig"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("key", key),
		)

		var req updateRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Warn("invalid body", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		err := store.Set(key, req.Value, cont.GetActor(r.Context()))
		if errors.Is(err, settings.ErrUnknownKey) {
			render.Status(r, 404)
			render.JSON(w, r, response.Error("Unknown configuration key"))
			return
		}
		if err != nil {
			log.Error("updating configuration", sl.Err(err))
			render.Status(r, 500)
			render.JSON(w, r, response.Error("Request failed"))
			return
		}

		log.Info("configuration updated")
		render.JSON(w, r, response.Ok(map[string]string{key: store.String(key)}))
	}
}
