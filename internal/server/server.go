package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/lodgerhq/lodger/internal/config"
	licenseservice "github.com/lodgerhq/lodger/internal/license/service"
	"github.com/lodgerhq/lodger/internal/observability"
	obslogger "github.com/lodgerhq/lodger/internal/observability/logger"
	obsmetrics "github.com/lodgerhq/lodger/internal/observability/metrics"
	obstracing "github.com/lodgerhq/lodger/internal/observability/tracing"
	paymentservice "github.com/lodgerhq/lodger/internal/payment/service"
	plandomain "github.com/lodgerhq/lodger/internal/plan/domain"
	"github.com/lodgerhq/lodger/internal/ratelimit"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config) *gin.Engine {
	return NewEngine(obsCfg)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	db         *gorm.DB
	paymentSvc *paymentservice.Service
	licenseSvc *licenseservice.Service
	planRepo   plandomain.Repository
	limiter    *ratelimit.PaymentLimiter
	obsMetrics *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	DB         *gorm.DB
	PaymentSvc *paymentservice.Service
	LicenseSvc *licenseservice.Service
	PlanRepo   plandomain.Repository
	Limiter    *ratelimit.PaymentLimiter
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		db:         p.DB,
		paymentSvc: p.PaymentSvc,
		licenseSvc: p.LicenseSvc,
		planRepo:   p.PlanRepo,
		limiter:    p.Limiter,
		obsMetrics: p.ObsMetrics,
	}

	svc.registerHealthRoutes()
	svc.registerPaymentRoutes()
	svc.registerPlanRoutes()
	svc.registerLicenseRoutes()

	return svc
}

func (s *Server) registerHealthRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := s.db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, Response{
				Status:      "error",
				Message:     "unhealthy",
				Description: "database is unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
