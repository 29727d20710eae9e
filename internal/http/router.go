package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/auth"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/authz"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/config"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/http/handlers"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/http/middlewares"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/ledger"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/notifications"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/observability"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type RouterDeps struct {
	Cfg         config.Config
	Log         *slog.Logger
	Pool        *pgxpool.Pool
	Prom        *observability.Prom
	Metrics     *prometheus.Registry
	JWT         *auth.Manager
	Hub         *notifications.Hub
	Broadcaster notifications.Broadcaster
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(deps.Log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(deps.Cfg.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(otelgin.Middleware("gestion-pagos"))

	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}

	// health
	ping := func() error {
		if deps.Pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return deps.Pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{})))
	}

	// wire up repositories and the ledger
	usersRepo := postgres.NewUsersRepo(deps.Pool, deps.Prom)
	loginsRepo := postgres.NewLoginsRepo(deps.Pool, deps.Prom)
	paymentsRepo := postgres.NewPaymentsRepo(deps.Pool, deps.Prom)
	deletedRepo := postgres.NewDeletedPaymentsRepo(deps.Pool, deps.Prom)

	ldg := ledger.New(paymentsRepo, deletedRepo, deps.Log)

	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, loginsRepo, deps.JWT, deps.Log)
	paymentsHandler := handlers.NewPaymentsHandler(ldg)
	broadcastHandler := handlers.NewBroadcastHandler(deps.Hub, deps.Broadcaster, deps.Prom)

	gate := middlewares.NewGate(deps.JWT)
	loginLimiter := middlewares.NewRateLimiter(10, time.Minute)

	api := r.Group("/api")

	users := api.Group("/users")
	users.Use(middlewares.RequireJSON())
	users.POST("/register", authHandler.Register)
	users.POST("/login", loginLimiter.ByIP(), authHandler.Login)

	payments := api.Group("/payments")
	payments.POST("", middlewares.RequireJSON(), gate.Require(authz.OpCreatePayment), paymentsHandler.CreatePayment)
	payments.GET("", gate.Require(authz.OpListPayments), paymentsHandler.ListPayments)
	payments.PUT("/:id", middlewares.RequireJSON(), gate.Require(authz.OpUpdatePayment), paymentsHandler.UpdatePayment)
	payments.DELETE("/:id", gate.Require(authz.OpDeactivatePayment), paymentsHandler.DeletePayment)

	// admin broadcast channel, unauthenticated at the channel layer
	admin := api.Group("/admin")
	admin.POST("/broadcast", middlewares.RequireJSON(), broadcastHandler.Publish)
	admin.GET("/stream", broadcastHandler.Stream)

	return r
}
