package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/mevdschee/tqdbkit/batch"
	"github.com/mevdschee/tqdbkit/cache"
	"github.com/mevdschee/tqdbkit/config"
	"github.com/mevdschee/tqdbkit/deadletter"
	"github.com/mevdschee/tqdbkit/logger"
	"github.com/mevdschee/tqdbkit/metrics"
	"github.com/mevdschee/tqdbkit/translator"
	"github.com/mevdschee/tqdbkit/writer"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "render":
			os.Exit(runRender(os.Args[2:], os.Stdin, os.Stdout, os.Stderr))
		case "replay":
			os.Exit(runReplay(os.Args[2:]))
		}
	}
	os.Exit(runIngest(os.Args[1:]))
}

// pipeline is a batch with everything it writes through.
type pipeline struct {
	batch  *batch.Batch
	writer *writer.SQLWriter
	cache  *cache.Cache
	dead   *deadletter.File
}

func (p *pipeline) Close() {
	if p.dead != nil {
		if err := p.dead.Close(); err != nil {
			logger.Log.Error("failed to close dead letter file", "error", err)
		}
	}
	if err := p.writer.Close(); err != nil {
		logger.Log.Error("failed to close database", "error", err)
	}
	p.cache.Close()
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func newPipeline(cfg *config.Config) (*pipeline, error) {
	dialect, err := translator.Lookup(cfg.Database.Dialect)
	if err != nil {
		return nil, err
	}
	tr, err := translator.New(dialect, cfg.TranslatorOptions()...)
	if err != nil {
		return nil, err
	}
	stmts, err := cache.New(cfg.Translator.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("statement cache: %w", err)
	}
	w, err := writer.Open(cfg.Database.Driver, cfg.Database.DSN, tr, writer.WithCache(stmts))
	if err != nil {
		stmts.Close()
		return nil, err
	}
	p := &pipeline{writer: w, cache: stmts}

	var handler batch.FailureHandler = batch.FailureHandlerFunc(func(entries []batch.Entry) {
		logger.Log.Error("entries dropped after failed flush", "batch", cfg.Batch.Name, "rows", len(entries))
	})
	if cfg.DeadLetter.Path != "" {
		dead, err := deadletter.Open(cfg.DeadLetter.Path, cfg.Batch.Name)
		if err != nil {
			p.Close()
			return nil, err
		}
		p.dead = dead
		handler = dead
	}

	b, err := batch.New(w, cfg.BatchConfig(), batch.WithFailureHandler(handler))
	if err != nil {
		p.Close()
		return nil, err
	}
	p.batch = b
	return p, nil
}

func runIngest(args []string) int {
	fs := flag.NewFlagSet("tqdbkit", flag.ContinueOnError)
	configPath := fs.String("config", "tqdbkit.ini", "Path to configuration file (empty for defaults)")
	metricsAddr := fs.String("metrics", "", "Metrics endpoint address, overrides [metrics] listen")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Log.Error("failed to load config", "error", err)
		return 1
	}
	if *metricsAddr != "" {
		cfg.Metrics.Listen = *metricsAddr
	}
	logger.Init(cfg.Log.Level)
	metrics.Init()

	p, err := newPipeline(cfg)
	if err != nil {
		logger.Log.Error("failed to set up batch", "error", err)
		return 1
	}
	defer p.Close()

	if err := p.batch.Start(); err != nil {
		logger.Log.Error("failed to start batch", "error", err)
		return 1
	}
	logger.Log.Info("tqdbkit started, reading rows from stdin",
		"driver", cfg.Database.Driver, "dialect", cfg.Database.Dialect, "batch_size", cfg.Batch.Size)

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Metrics.Listen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{Addr: cfg.Metrics.Listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			logger.Log.Info("metrics endpoint", "url", "http://localhost"+cfg.Metrics.Listen+"/metrics")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if *configPath != "" {
		g.Go(func() error {
			return config.Watch(gctx, *configPath, func(c *config.Config) {
				logger.SetLevel(c.Log.Level)
			})
		})
	}

	lines := readLines(os.Stdin)
	g.Go(func() error {
		// EOF ends the run like a signal does.
		defer cancel()
		return ingest(gctx, lines, p.batch)
	})

	runErr := g.Wait()
	if runErr != nil {
		logger.Log.Error("stopped with error", "error", runErr)
	}

	logger.Log.Info("shutting down")
	if err := p.batch.Destroy(context.Background()); err != nil {
		logger.Log.Error("final flush failed", "error", err)
		return 1
	}
	if runErr != nil {
		return 1
	}
	return 0
}

// record is one NDJSON input line.
type record struct {
	Table string         `json:"table"`
	Row   map[string]any `json:"row"`
}

// readLines scans r on its own goroutine so a blocked read never holds up
// shutdown. The channel is closed at EOF.
func readLines(r io.Reader) <-chan []byte {
	lines := make(chan []byte)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
		for sc.Scan() {
			lines <- append([]byte(nil), sc.Bytes()...)
		}
		if err := sc.Err(); err != nil {
			logger.Log.Error("reading input", "error", err)
		}
	}()
	return lines
}

// ingest adds every line to b until lines is closed or ctx is done.
// Malformed lines are logged and skipped.
func ingest(ctx context.Context, lines <-chan []byte, b *batch.Batch) error {
	n := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				logger.Log.Info("end of input", "lines", n)
				return nil
			}
			n++
			if len(line) == 0 {
				continue
			}
			var rec record
			if err := json.Unmarshal(line, &rec); err != nil {
				logger.Log.Warn("skipping malformed line", "line", n, "error", err)
				continue
			}
			if rec.Table == "" || len(rec.Row) == 0 {
				logger.Log.Warn("skipping line without table or row", "line", n)
				continue
			}
			// A size-triggered flush runs inside AddRow; a signal must not
			// abort it halfway.
			if err := b.AddRow(context.WithoutCancel(ctx), rec.Table, rec.Row); err != nil {
				return fmt.Errorf("line %d: %w", n, err)
			}
		}
	}
}
