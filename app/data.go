package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/enertrack/meterd/api/consumption"
	"github.com/enertrack/meterd/config"
	"github.com/enertrack/meterd/core/logger"
	coremetrics "github.com/enertrack/meterd/core/metrics"
	"github.com/enertrack/meterd/core/query"
	"github.com/enertrack/meterd/core/store"
	"github.com/enertrack/meterd/infra/announce"
	infralogger "github.com/enertrack/meterd/infra/logger"
	"github.com/enertrack/meterd/infra/metrics"
)

// DataService hosts the record store behind the internal JSON API. The
// store is fully loaded before the listener starts.
type DataService struct {
	srv      *http.Server
	log      logger.Logger
	pub      *announce.Publisher
	promOn   bool
	promAddr string
}

// NewData loads the record store and assembles the data service. A source
// file that cannot be read fails startup.
func NewData(cfg *config.Config) (*DataService, error) {
	logg := infralogger.New("data-service")
	sink, err := metrics.FromConfig(cfg.Metrics, logg)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	began := time.Now()
	st, err := store.Load(cfg.Data.CSVPath, logg)
	if err != nil {
		return nil, fmt.Errorf("record store: %w", err)
	}
	stats := st.Stats()
	logg.Infof("loaded %d consumption records (%d rows skipped, %d without timestamp)",
		st.Len(), stats.RowsSkipped, stats.Unparsable)
	if err := sink.RecordLoad(coremetrics.LoadEvent{
		RowsLoaded:  stats.RowsLoaded,
		RowsSkipped: stats.RowsSkipped,
		Unparsable:  stats.Unparsable,
		Duration:    time.Since(began),
		Time:        began,
	}); err != nil {
		logg.Errorf("record load metric: %v", err)
	}

	svc := query.New(st, logg, sink)
	mux := http.NewServeMux()
	mux.Handle("/v1/records", consumption.NewRecordsHandler(svc, logg))
	mux.Handle("/v1/stats", consumption.NewStatsHandler(svc, logg))
	mux.HandleFunc("/v1/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy", "service": "consumption-data"})
	})

	ds := &DataService{
		srv:      &http.Server{Addr: cfg.Data.Addr, Handler: mux, ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second},
		log:      logg,
		promOn:   cfg.Metrics.PrometheusEnabled,
		promAddr: cfg.Metrics.PrometheusAddr,
	}

	if cfg.Announce.Enabled {
		pub, err := announce.New(cfg.Announce)
		if err != nil {
			logg.Errorf("announce publisher: %v", err)
		} else {
			ds.pub = pub
			ds.announce(st)
		}
	}
	return ds, nil
}

func (s *DataService) announce(st *store.Store) {
	ds := announce.Dataset{
		Records:     st.Len(),
		RowsSkipped: st.Stats().RowsSkipped,
		Unparsable:  st.Stats().Unparsable,
		LoadedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if first, last := st.Coverage(); first != nil {
		ds.First = first.UTC().Format(time.RFC3339)
		ds.Last = last.UTC().Format(time.RFC3339)
	}
	if err := s.pub.Announce(ds); err != nil {
		s.log.Errorf("dataset announcement: %v", err)
	}
}

// Run serves until the context is canceled.
func (s *DataService) Run(ctx context.Context) error {
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
			s.log.Errorf("data server shutdown: %v", err)
		}
	}()
	s.log.Infof("data service listening on %s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *DataService) Close() error {
	if s.pub != nil {
		s.pub.Close()
	}
	return nil
}
