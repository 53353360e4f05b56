package auth

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"tutorbot/internal/config"
	"tutorbot/lib/sl"
)

var ErrInvalidToken = errors.New("invalid token")

// Service authenticates ops API callers against the static bearer token
// from the configuration. The configured actor name is attached to every
// authenticated request and recorded on config writes.
type Service struct {
	token string
	actor string
	log   *slog.Logger
}

func New(conf *config.Config, log *slog.Logger) *Service {
	return &Service{
		token: conf.Ops.Token,
		actor: conf.Ops.Actor,
		log:   log.With(sl.Module("impl.auth")),
	}
}

// ActorByToken returns the actor name for a valid token. An empty
// configured token disables the ops API entirely.
func (s *Service) ActorByToken(token string) (string, error) {
	if s.token == "" {
		return "", errors.New("ops api disabled: no token configured")
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) != 1 {
		return "", ErrInvalidToken
	}
	return s.actor, nil
}
