package app

import (
	"context"
	"fmt"
	"time"

	"codeshape/internal/core/ports"
	"codeshape/internal/engine/parser"
)

// staleLease is how long a parser may stay leased before health degrades.
// Single-file parses finish in milliseconds.
const staleLease = 30 * time.Second

type HealthStatus struct {
	Status     string             `json:"status" yaml:"status"`
	Timestamp  time.Time          `json:"timestamp" yaml:"timestamp"`
	Components map[string]string  `json:"components" yaml:"components"`
	Cache      *ports.CacheStats  `json:"cache,omitempty" yaml:"cache,omitempty"`
	Parsers    []parser.PoolStats `json:"parsers,omitempty" yaml:"parsers,omitempty"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	if s.app.analyzer != nil {
		status.Components["analyzer"] = "ok"
	} else {
		status.Status = "degraded"
		status.Components["analyzer"] = "missing"
	}

	if reporter, ok := s.app.analyzer.(ports.ParserStatsReporter); ok {
		status.Parsers = reporter.ParserStats()
		for _, st := range status.Parsers {
			key := "parser." + string(st.Dialect)
			if st.OldestLease > staleLease {
				status.Status = "degraded"
				status.Components[key] = fmt.Sprintf("lease held for %s", st.OldestLease.Round(time.Second))
				continue
			}
			status.Components[key] = fmt.Sprintf("ok (%d active, %d idle, %d created)", st.Active, st.Idle, st.Created)
		}
	}

	switch {
	case s.app.cache != nil:
		st := s.app.cache.Stats()
		status.Cache = &st
		switch {
		case st.DiskError != "":
			status.Status = "degraded"
			status.Components["cache"] = "disk tier unreadable: " + st.DiskError
		case st.DiskEnabled:
			status.Components["cache"] = fmt.Sprintf("ok (%d/%d in memory, %d on disk)", st.Entries, st.Capacity, st.DiskEntries)
		default:
			status.Components["cache"] = fmt.Sprintf("ok (%d/%d in memory)", st.Entries, st.Capacity)
		}
	case s.app.Config().Cache.IsEnabled():
		status.Status = "degraded"
		status.Components["cache"] = "missing but enabled in config"
	default:
		status.Components["cache"] = "disabled"
	}

	if s.app.watching.Load() {
		status.Components["watcher"] = "active"
	} else {
		status.Components["watcher"] = "idle"
	}

	return status
}
