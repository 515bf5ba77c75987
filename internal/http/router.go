package http

import (
	"log"

	"github.com/gin-gonic/gin"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// RouterConfig holds the router's dependencies.
type RouterConfig struct {
	Sessions SessionAcquirer
	BaseURL  string       // Optional prefix for the "url" field
	Limiter  *RateLimiter // nil disables rate limiting

	// TrustedProxies lists the proxies allowed to set X-Forwarded-For.
	// Empty means the client IP is always the TCP peer.
	TrustedProxies []string
}

// NewRouter creates and configures the HTTP router with the /book endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Printf("Invalid trusted proxies %v, trusting none: %v", cfg.TrustedProxies, err)
		router.SetTrustedProxies(nil)
	}
	router.Use(gin.CustomRecovery(recoveryHandler))
	router.Use(gin.Logger())
	router.Use(RequestIDMiddleware())

	router.HandleMethodNotAllowed = true
	router.NoRoute(noRouteHandler)
	router.NoMethod(noMethodHandler)

	if cfg.Limiter != nil {
		router.Use(cfg.Limiter.Middleware())
	}

	booksController := NewBooksController(cfg.BaseURL)

	book := router.Group("/book")
	book.Use(limitBody(MaxBodyBytes))
	book.Use(SessionMiddleware(cfg.Sessions))
	{
		book.POST("", booksController.CreateBook)
		book.POST("/", booksController.CreateBook)
		book.GET("/:id", booksController.GetBook)
		book.PUT("/:id", booksController.UpdateBook)
		book.DELETE("/:id", booksController.DeleteBook)
	}

	return router
}
