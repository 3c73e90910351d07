// Package connectivity tracks whether the backend is reachable.
package connectivity

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Probe checks reachability; a nil error means online.
type Probe func(ctx context.Context) error

type Monitor struct {
	probe    Probe
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger

	mu          sync.Mutex
	online      bool
	subscribers []func(bool)
}

func NewMonitor(probe Probe, interval time.Duration, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := 5 * time.Second
	if interval > 0 && interval < timeout {
		timeout = interval
	}
	return &Monitor{
		probe:    probe,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With("component", "connectivity"),
	}
}

// Subscribe registers fn for connectivity transitions. It is not called
// for repeated reports of the same state.
func (m *Monitor) Subscribe(fn func(online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Report records an observed state, notifying subscribers on a change.
func (m *Monitor) Report(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	subscribers := append([]func(bool){}, m.subscribers...)
	m.mu.Unlock()

	m.logger.Info("connectivity changed", "online", online)
	for _, fn := range subscribers {
		fn(online)
	}
}

// Check probes once and reports the outcome.
func (m *Monitor) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := m.probe(ctx)
	if err != nil {
		m.logger.Debug("connectivity probe failed", "error", err)
	}
	m.Report(err == nil)
	return err == nil
}

// Run probes immediately and then on every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	m.Check(ctx)
	if m.interval <= 0 {
		return
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// HTTPProbe checks the backend REST endpoint. Any response below 500 counts
// as reachable.
func HTTPProbe(client *http.Client, supabaseURL, apiKey string) Probe {
	if client == nil {
		client = http.DefaultClient
	}
	endpoint := strings.TrimSuffix(supabaseURL, "/") + "/rest/v1/"

	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to create probe request: %w", err)
		}
		req.Header.Set("apikey", apiKey)

		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("backend returned %d", resp.StatusCode)
		}
		return nil
	}
}
