package server

import (
	"context"
	"net/http"
	"time"

	"github.com/craftbid/matchengine/internal/config"
	"github.com/craftbid/matchengine/internal/distribution"
	matchingdomain "github.com/craftbid/matchengine/internal/matching/domain"
	obsmetrics "github.com/craftbid/matchengine/internal/observability/metrics"
	quotedomain "github.com/craftbid/matchengine/internal/quote/domain"
	quorankdomain "github.com/craftbid/matchengine/internal/quoterank/domain"
	ratingdomain "github.com/craftbid/matchengine/internal/rating/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewEngine builds the gin engine with recovery, metrics, and error mapping.
func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmetrics.GinMiddleware(obsmetrics.Engine()))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine      *gin.Engine
	log         *zap.Logger
	distributor *distribution.Client
	matcherSvc  matchingdomain.Service
	ratingSvc   ratingdomain.Service
	quoteSvc    quotedomain.Service
	rankSvc     quorankdomain.Service
}

type Params struct {
	fx.In

	Gin         *gin.Engine
	Log         *zap.Logger
	Distributor *distribution.Client
	MatcherSvc  matchingdomain.Service
	RatingSvc   ratingdomain.Service
	QuoteSvc    quotedomain.Service
	RankSvc     quorankdomain.Service
}

func NewServer(p Params) *Server {
	return &Server{
		engine:      p.Gin,
		log:         p.Log.Named("http.server"),
		distributor: p.Distributor,
		matcherSvc:  p.MatcherSvc,
		ratingSvc:   p.RatingSvc,
		quoteSvc:    p.QuoteSvc,
		rankSvc:     p.RankSvc,
	}
}

// RegisterRoutes wires the engine operations consumed by the surrounding
// marketplace.
func (s *Server) RegisterRoutes() {
	v1 := s.engine.Group("/v1")

	v1.POST("/projects/:id/distribute", s.DistributeProject)
	v1.GET("/projects/:id/candidates", s.ListCandidates)
	v1.GET("/projects/:id/exclusions", s.ExplainExclusions)
	v1.GET("/projects/:id/quotes/ranked", s.ListRankedQuotes)

	v1.GET("/suppliers/:id/rating", s.GetSupplierRating)
	v1.POST("/suppliers/:id/rating/recalculate", s.RecalculateSupplierRating)

	v1.POST("/quotes", s.SubmitQuote)
	v1.POST("/quotes/:id/accept", s.AcceptQuote)
	v1.POST("/quotes/:id/withdraw", s.WithdrawQuote)
}

// RunHTTP starts the HTTP listener under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) {
		s.RegisterRoutes()
	}),
	fx.Invoke(RunHTTP),
)
