package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/pledge/docs"
	"github.com/fatflowers/pledge/internal/app/api/handlers"
	mw "github.com/fatflowers/pledge/internal/app/api/middleware"
	"github.com/fatflowers/pledge/internal/app/service/collection"
	"github.com/fatflowers/pledge/internal/app/service/donation"
	nh "github.com/fatflowers/pledge/internal/app/service/notification_handler"
	"github.com/fatflowers/pledge/internal/app/service/payment"
	"github.com/fatflowers/pledge/internal/app/service/statistics"
	"github.com/fatflowers/pledge/internal/app/service/translog"
	cfgpkg "github.com/fatflowers/pledge/pkg/config"
	metrics "github.com/fatflowers/pledge/pkg/metrics"
)

const shutdownTimeout = 120 * time.Second

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

type routeDeps struct {
	fx.In

	Log       *zap.SugaredLogger
	DB        *gorm.DB
	Cfg       *cfgpkg.Config
	Donations *donation.Service
	Payments  *payment.Service
	TxLog     *translog.Service
	Collector *collection.Service
	Stats     *statistics.Service
	Notif     *nh.NotificationHandler
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	log := d.Log
	// Prometheus metrics
	if d.Cfg != nil && d.Cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: log,
		})
		p.SetListenAddress(d.Cfg.MetricsAddr)
		p.Use(r)

		log.Infow("metrics started", "addr", d.Cfg.MetricsAddr)
	}
	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(log))
	handlers.RegisterHealthRoutes(pub, d.DB)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(log))

	handlers.RegisterDonationRoutes(apiV1.Group("/donations"), d.Donations)
	handlers.RegisterAdminRoutes(apiV1.Group("/admin"), d.Payments, d.TxLog, d.Collector, d.Stats)
	handlers.RegisterPaymentWebhookRoutes(apiV1.Group("/webhook"), d.Notif)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
