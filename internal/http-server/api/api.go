package api

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
	"tutorbot/internal/config"
	"tutorbot/internal/http-server/handlers/botconfig"
	"tutorbot/internal/http-server/handlers/errors"
	"tutorbot/internal/http-server/handlers/payments"
	"tutorbot/internal/http-server/handlers/students"
	"tutorbot/internal/http-server/handlers/withdrawals"
	"tutorbot/internal/settings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"tutorbot/internal/http-server/middleware/authenticate"
	"tutorbot/internal/http-server/middleware/timeout"
	"tutorbot/lib/api/response"
	"tutorbot/lib/sl"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

// Handler bundles the capabilities the ops API needs.
type Handler interface {
	authenticate.Authenticate
	students.Core
	payments.Core
	withdrawals.Core
}

func New(conf *config.Config, log *slog.Logger, handler Handler, store *settings.Store) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := chi.NewRouter()
	router.Use(timeout.Timeout(5))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, response.Ok("alive"))
	})

	router.Route("/v1", func(rootApi chi.Router) {
		rootApi.Use(authenticate.New(log, handler))
		rootApi.Route("/students", func(st chi.Router) {
			st.Get("/", students.List(log, handler))
			st.Get("/stats", students.Stats(log, handler))
		})
		rootApi.Route("/payments", func(pm chi.Router) {
			pm.Get("/pending", payments.Pending(log, handler))
			pm.Post("/{id}/approve", payments.Approve(log, handler))
			pm.Post("/{id}/reject", payments.Reject(log, handler))
		})
		rootApi.Route("/withdrawals", func(wd chi.Router) {
			wd.Get("/pending", withdrawals.Pending(log, handler))
			wd.Post("/{id}/approve", withdrawals.Approve(log, handler))
			wd.Post("/{id}/reject", withdrawals.Reject(log, handler))
		})
		rootApi.Route("/config", func(cf chi.Router) {
			cf.Get("/", botconfig.All(log, store))
			cf.Put("/{key}", botconfig.Update(log, store))
		})
	})

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:      router,
		ErrorLog:     httpLog,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIp, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
