package server

import (
	"context"
	"net/http"

	"chargeledger/internal/auth"
	"chargeledger/internal/charge"
	"chargeledger/internal/config"
	"chargeledger/internal/events"
	"chargeledger/internal/ledger"
	"chargeledger/internal/notify"
	"chargeledger/internal/phone"
	"chargeledger/internal/reconcile"
	"chargeledger/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	srv    *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(db *sqlx.DB, cfg *config.Config, publisher events.Publisher, notifier *notify.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	store := ledger.New(db, cfg.LockTimeout)

	userHandler := user.NewHandler(db, cfg.JWTSecret)
	phoneHandler := phone.NewHandler(db)
	chargeHandler := charge.NewHandler(store, publisher, chargeNotifier(notifier))
	reconcileHandler := reconcile.NewHandler(db)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.GET("/phone-numbers", phoneHandler.ListActive)
		protected.GET("/phone-numbers/:phoneID", phoneHandler.Get)
		protected.POST("/credit-requests", chargeHandler.CreateCreditRequest)
		protected.GET("/credit-requests", chargeHandler.ListCreditRequests)
		protected.POST("/charge-sales", chargeHandler.CreateChargeSale)
		protected.GET("/charge-sales", chargeHandler.ListChargeSales)
	}

	adminMiddleware := auth.RequireRole("admin")
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("/phone-numbers", phoneHandler.Create)
		admin.POST("/phone-numbers/:phoneID/deactivate", phoneHandler.Deactivate)
		admin.DELETE("/phone-numbers/:phoneID", phoneHandler.Delete)
		admin.POST("/credit-requests/:requestID/approve", chargeHandler.ApproveCreditRequest)
		admin.POST("/credit-requests/:requestID/reject", chargeHandler.RejectCreditRequest)
		admin.GET("/validate", reconcileHandler.ValidateGlobal)
		admin.GET("/validate/users/:userID", reconcileHandler.ValidateUser)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())

	return &Server{
		router: router,
		db:     db,
		config: cfg,
	}
}

// chargeNotifier keeps the nil check in one place: a nil *notify.Service
// must become a nil interface, not a typed nil.
func chargeNotifier(n *notify.Service) charge.Notifier {
	if n == nil {
		return nil
	}
	return n
}

func (s *Server) Start(port string) error {
	s.srv = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// Router is exposed for handler-level tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
