package main

import (
	"context"
	"flag"

	"github.com/mevdschee/tqdbkit/deadletter"
	"github.com/mevdschee/tqdbkit/logger"
)

// runReplay adds the records of a dead letter file to a fresh batch. Rows
// failing again go to the configured dead letter file, which must differ
// from the one being replayed.
func runReplay(args []string) int {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	configPath := fs.String("config", "tqdbkit.ini", "Path to configuration file (empty for defaults)")
	file := fs.String("file", "", "Dead letter file to replay")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *file == "" {
		logger.Log.Error("replay needs -file")
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Log.Error("failed to load config", "error", err)
		return 1
	}
	logger.Init(cfg.Log.Level)
	if cfg.DeadLetter.Path == *file {
		logger.Log.Error("replay file is the configured dead letter file", "path", *file)
		return 1
	}

	records, err := deadletter.ReadFile(*file)
	if err != nil {
		logger.Log.Error("failed to read dead letters", "error", err)
		return 1
	}

	p, err := newPipeline(cfg)
	if err != nil {
		logger.Log.Error("failed to set up batch", "error", err)
		return 1
	}
	defer p.Close()

	n, err := replay(context.Background(), p, records)
	if err != nil {
		logger.Log.Error("replay failed", "replayed", n, "error", err)
		return 1
	}
	logger.Log.Info("replay finished", "replayed", n)
	return 0
}

func replay(ctx context.Context, p *pipeline, records []deadletter.Record) (int, error) {
	n := 0
	for _, rec := range records {
		if err := p.batch.Add(ctx, rec.Entry()); err != nil {
			return n, err
		}
		n++
	}
	return n, p.batch.Destroy(ctx)
}
