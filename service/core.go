package service

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/brimdata/zexpr/api"
	"github.com/brimdata/zexpr/config"
	"github.com/brimdata/zexpr/driver"
	"github.com/brimdata/zexpr/filter"
	"github.com/brimdata/zexpr/zbuf"
	"github.com/gorilla/mux"
	"github.com/paulbellamy/ratecounter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Config struct {
	Filter    filter.Config
	BatchSize int
	Logger    *zap.Logger
	Version   string
}

type Core struct {
	batchSize int64
	conf      Config
	filter    *filter.Filter
	logger    *zap.Logger
	progress  zbuf.Progress
	rate      *ratecounter.RateCounter
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	routerAPI *mux.Router
	routerAux *mux.Router
}

func NewCore(ctx context.Context, conf Config) (*Core, error) {
	if conf.Logger == nil {
		conf.Logger = zap.NewNop()
	}
	if conf.Version == "" {
		conf.Version = "unknown"
	}
	if conf.BatchSize <= 0 {
		conf.BatchSize = driver.DefaultBatchSize
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())

	f, err := filter.New(conf.Filter, conf.Logger, registry)
	if err != nil {
		return nil, err
	}

	c := &Core{
		batchSize: int64(conf.BatchSize),
		conf:      conf,
		filter:    f,
		logger:    conf.Logger.Named("core"),
		rate:      ratecounter.NewRateCounter(time.Minute),
		registry:  registry,
		requests: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "zexpr_http_requests_total",
			Help: "HTTP requests served by the API, by status code.",
		}, []string{"code"}),
	}
	c.addAuxRoutes()
	c.addAPIServerRoutes()
	c.logger.Info("Started",
		zap.Bool("enable", conf.Filter.Enable),
		zap.String("expression", conf.Filter.Expression),
	)
	return c, nil
}

func (c *Core) addAuxRoutes() {
	c.routerAux = mux.NewRouter()
	c.routerAux.Handle("/metrics", promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
	c.routerAux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Content-Type", api.MediaTypeJSON)
		json.NewEncoder(w).Encode(&api.VersionResponse{Version: c.conf.Version})
	})
}

func (c *Core) addAPIServerRoutes() {
	c.routerAPI = mux.NewRouter()
	c.routerAPI.Use(withRequestID, c.logRequests, c.catchPanics)
	c.handle("/status", handleStatus).Methods("GET")
	c.handle("/config", handleConfigGet).Methods("GET")
	c.handle("/config", handleConfigPut).Methods("PUT")
	c.handle("/readings", handleReadingsPost).Methods("POST")
}

func (c *Core) handler(f func(*Core, http.ResponseWriter, *http.Request)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f(c, w, r)
	})
}

func (c *Core) handle(path string, f func(*Core, http.ResponseWriter, *http.Request)) *mux.Route {
	return c.routerAPI.Handle(path, c.handler(f))
}

// Reconfigure installs conf, typically after the configuration file
// changed.
func (c *Core) Reconfigure(conf config.Config) error {
	if err := c.filter.Reconfigure(conf.Filter); err != nil {
		return err
	}
	if conf.BatchSize > 0 {
		atomic.StoreInt64(&c.batchSize, int64(conf.BatchSize))
	}
	return nil
}

func (c *Core) Filter() *filter.Filter {
	return c.filter
}

func (c *Core) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Core) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var rm mux.RouteMatch
	if c.routerAux.Match(r, &rm) {
		rm.Handler.ServeHTTP(w, r)
		return
	}
	c.routerAPI.ServeHTTP(w, r)
}

func (c *Core) Shutdown() {
	c.logger.Info("Shutdown", zap.Any("progress", c.progress.Copy()))
}

func (c *Core) requestLogger(r *http.Request) *zap.Logger {
	return c.logger.With(zap.String("request_id", api.RequestIDFromContext(r.Context())))
}
