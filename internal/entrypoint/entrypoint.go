package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	http_controllers "github.com/mrlokans/bookshelf/internal/http"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs srv until ctx is cancelled, then drains in-flight requests
// within timeout and calls onShutdown.
func Serve(ctx context.Context, srv *http.Server, timeout time.Duration, onShutdown ShutdownFunc) error {
	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Starting server at %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("Shutdown Server, waiting %v before killing", timeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)

	if onShutdown != nil {
		onShutdown(shutdownCtx)
	}

	if err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Println("Server exiting")
	return nil
}

// InitDatabase opens the gateway and creates the schema.
func InitDatabase(cfg *config.Config) (*database.Database, error) {
	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Initialize(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// NewServer builds the HTTP server around the book routes.
func NewServer(cfg *config.Config, db *database.Database, limiter *http_controllers.RateLimiter) *http.Server {
	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Sessions: db,
		BaseURL:  cfg.HTTP.BaseURL,
		Limiter:  limiter,

		TrustedProxies: cfg.HTTP.TrustedProxies,
	})

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       time.Minute,
	}
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Bookshelf v%s", version)

	if cfg.HTTP.GinMode != "" {
		gin.SetMode(cfg.HTTP.GinMode)
	}

	// The schema must exist before the listener accepts traffic.
	db, err := InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	var limiter *http_controllers.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = http_controllers.NewRateLimiter(http_controllers.RateLimitConfig{
			RPS:   cfg.RateLimit.RPS,
			Burst: cfg.RateLimit.Burst,
		})
		log.Printf("Rate limiting enabled: %.2f req/s, burst %d", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	srv := NewServer(cfg, db, limiter)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if limiter != nil {
			limiter.Stop()
		}
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}

	if err := Serve(ctx, srv, timeout, onShutdown); err != nil {
		onShutdown(context.Background())
		log.Printf("Server error: %v", err)
		os.Exit(1)
	}
}
