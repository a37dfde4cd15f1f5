package coremain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pmkol/linkseq/mlog"
	"github.com/pmkol/linkseq/pkg/script"
	"github.com/pmkol/linkseq/pkg/workspace"
)

type Linkseq struct {
	logger *zap.Logger

	ws     *workspace.Workspace
	runner *script.Runner

	httpAPIMux *http.ServeMux
	metricsReg *prometheus.Registry
}

func NewLinkseq(cfg *Config) (*Linkseq, error) {
	lg, err := mlog.NewLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	m := &Linkseq{
		logger:     lg,
		httpAPIMux: http.NewServeMux(),
		metricsReg: newMetricsReg(),
	}

	m.ws, err = workspace.New(cfg.Workspace, lg.Named("workspace"), m.GetMetricsReg())
	if err != nil {
		return nil, fmt.Errorf("failed to init workspace, %w", err)
	}
	m.runner, err = script.NewRunner(m.ws, lg.Named("script"), m.GetMetricsReg())
	if err != nil {
		return nil, fmt.Errorf("failed to init script runner, %w", err)
	}

	m.httpAPIMux.Handle("/metrics", promhttp.HandlerFor(m.metricsReg, promhttp.HandlerOpts{}))
	m.httpAPIMux.HandleFunc("/debug/pprof/", pprof.Index)
	m.httpAPIMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	m.httpAPIMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	m.httpAPIMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	m.httpAPIMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	m.httpAPIMux.HandleFunc("GET /lists", m.handleNames)
	m.httpAPIMux.HandleFunc("GET /lists/{name}", m.handleList)
	return m, nil
}

// RunLinkseq runs the steps of cfg once. If an api server is configured or
// watch is set, it then keeps serving, re-running the steps whenever
// cfgFile changes, until ctx is done.
func RunLinkseq(ctx context.Context, cfg *Config, cfgFile string, watch bool) error {
	m, err := NewLinkseq(cfg)
	if err != nil {
		return err
	}
	defer m.logger.Sync()

	if err := m.runner.Run(ctx, cfg.Steps); err != nil {
		if !watch {
			return fmt.Errorf("script failed, %w", err)
		}
		m.logger.Error("script failed", zap.Error(err))
	}

	httpAddr := cfg.API.HTTP
	if len(httpAddr) == 0 && !watch {
		return nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	if len(httpAddr) > 0 {
		httpServer := &http.Server{
			Addr:    httpAddr,
			Handler: m.httpAPIMux,
		}
		g.Go(func() error {
			m.logger.Info("starting api http server", zap.String("addr", httpAddr))
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("api http server exited, %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gCtx.Done()
			return httpServer.Close()
		})
	}
	if watch {
		g.Go(func() error {
			return m.watch(gCtx, cfgFile)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	m.logger.Info("linkseq exited", zap.Error(context.Cause(ctx)))
	return nil
}

// rerun reloads cfgFile and runs its steps on an emptied workspace.
// Workspace and log settings of the reloaded file are ignored.
func (m *Linkseq) rerun(ctx context.Context, cfgFile string) error {
	cfg, _, err := loadConfigWithInclude(cfgFile)
	if err != nil {
		return err
	}
	m.ws.Reset()
	return m.runner.Run(ctx, cfg.Steps)
}

func (m *Linkseq) handleNames(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	names := m.ws.Names()
	if len(names) == 0 {
		return
	}
	_, _ = w.Write([]byte(strings.Join(names, "\n") + "\n"))
}

func (m *Linkseq) handleList(w http.ResponseWriter, r *http.Request) {
	s, ok := m.ws.Render(r.PathValue("name"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(s + "\n"))
}

func (m *Linkseq) GetWorkspace() *workspace.Workspace {
	return m.ws
}

func (m *Linkseq) GetMetricsReg() prometheus.Registerer {
	return prometheus.WrapRegistererWithPrefix("linkseq_", m.metricsReg)
}

func (m *Linkseq) GetHTTPAPIMux() *http.ServeMux {
	return m.httpAPIMux
}

func newMetricsReg() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	reg.MustRegister(collectors.NewGoCollector())
	return reg
}
