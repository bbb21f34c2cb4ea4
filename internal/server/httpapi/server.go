// Package httpapi exposes the public HTTP surface: authentication endpoints,
// the announces CRUD, and the metrics/liveness endpoints.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/petiteannonce/server/internal/logging"
	"github.com/petiteannonce/server/internal/server/config"
	"github.com/petiteannonce/server/internal/server/metrics"
	"github.com/petiteannonce/server/internal/server/models"
	"github.com/petiteannonce/server/internal/server/services"
)

// UserService is the slice of the authentication service the handlers need.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	IssueToken(user *models.User) (string, error)
	SessionValidity() time.Duration
}

// AnnounceService is the slice of the listings service the handlers need.
type AnnounceService interface {
	Create(ctx context.Context, in *services.AnnounceInput, ownerID int64, upload *services.ImageUpload) (*models.Announce, error)
	Get(ctx context.Context, id int64) (*models.Announce, error)
	List(ctx context.Context) ([]*models.Announce, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.Announce, error)
	Update(ctx context.Context, id int64, patch *services.AnnouncePatch, callerID int64) (*models.Announce, error)
	Delete(ctx context.Context, id int64, callerID int64) (string, error)
}

type HTTPServer struct {
	address        string
	logger         logging.Logger
	users          UserService
	announces      AnnounceService
	recorder       metrics.Recorder
	metricsHandler http.Handler
	jwtSecret      []byte
	corsOrigins    []string
	validate       *validator.Validate
}

func NewHTTPServer(cfg *config.Config, l logging.Logger, us UserService, as AnnounceService,
	rec metrics.Recorder, metricsHandler http.Handler) (*HTTPServer, error) {

	v, err := newValidator()
	if err != nil {
		return nil, err
	}

	return &HTTPServer{
		address:        cfg.EndpointAddrHTTP,
		logger:         l.With("module", "http_server"),
		users:          us,
		announces:      as,
		recorder:       rec,
		metricsHandler: metricsHandler,
		jwtSecret:      []byte(cfg.SecretKey),
		corsOrigins:    cfg.CORSAllowedOrigins,
		validate:       v,
	}, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
