package app

import (
	"context"
	"net/http"
	"time"

	"github.com/enertrack/meterd/config"
	"github.com/enertrack/meterd/core/logger"
	"github.com/enertrack/meterd/gateway"
	infralogger "github.com/enertrack/meterd/infra/logger"
	"github.com/enertrack/meterd/infra/metrics"
)

// GatewayService hosts the public HTTP API in front of the data service.
type GatewayService struct {
	srv      *http.Server
	log      logger.Logger
	promOn   bool
	promAddr string
}

// NewGateway assembles the gateway service. The data service client is
// built from the configured base URL; tests substitute their own client
// through gateway.NewHandler.
func NewGateway(cfg *config.Config) (*GatewayService, error) {
	logg := infralogger.New("gateway")
	client := gateway.NewDataClient(cfg.Gateway.DataURL)
	handler := gateway.NewHandler(client, logg)
	router := gateway.NewRouter(handler, cfg.Gateway.StaticDir, logg)

	return &GatewayService{
		srv:      &http.Server{Addr: cfg.Gateway.Addr, Handler: router, ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second},
		log:      logg,
		promOn:   cfg.Metrics.PrometheusEnabled,
		promAddr: cfg.Metrics.PrometheusAddr,
	}, nil
}

// Run serves until the context is canceled.
func (s *GatewayService) Run(ctx context.Context) error {
	if s.promOn {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr, s.log); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("gateway shutdown: %v", err)
		}
	}()
	s.log.Infof("gateway listening on %s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
