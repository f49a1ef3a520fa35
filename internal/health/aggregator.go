package health

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusError     = "error"

	defaultProbeTimeout = 3 * time.Second
)

// Probe checks one dependency. A false result with a nil error means the
// dependency answered as down; an error means the check itself failed.
type Probe interface {
	Name() string
	Check(ctx context.Context) (bool, error)
}

type Status struct {
	Status    string
	Message   string
	Timestamp time.Time
}

type Ping struct {
	Status    string
	Message   string
	Timestamp time.Time
}

// Aggregator folds the entry store probe and any external-service probes
// into a single status. It never fails; problems become StatusError.
type Aggregator struct {
	store    Probe
	external []Probe
	timeout  time.Duration
	now      func() time.Time
}

type Option func(*Aggregator)

func WithExternal(probes ...Probe) Option {
	return func(a *Aggregator) {
		for _, p := range probes {
			if p != nil {
				a.external = append(a.external, p)
			}
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(a *Aggregator) {
		if timeout > 0 {
			a.timeout = timeout
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

func NewAggregator(store Probe, opts ...Option) *Aggregator {
	a := &Aggregator{store: store, timeout: defaultProbeTimeout, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Aggregator) Status(ctx context.Context) Status {
	probes := make([]Probe, 0, len(a.external)+1)
	if a.store != nil {
		probes = append(probes, a.store)
	}
	probes = append(probes, a.external...)

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	results := make([]bool, len(probes))
	var g errgroup.Group
	for i, probe := range probes {
		g.Go(func() error {
			healthy, err := runProbe(ctx, probe)
			if err != nil {
				return err
			}
			results[i] = healthy
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("Health check failed", "error", err)
		return a.status(StatusError, fmt.Sprintf("Health check failed: %v", err))
	}

	if a.store == nil {
		return a.status(StatusUnhealthy, "Some systems are down")
	}

	for i, healthy := range results {
		if !healthy {
			log.Warn("Dependency unhealthy", "probe", probes[i].Name())
			return a.status(StatusUnhealthy, "Some systems are down")
		}
	}
	return a.status(StatusHealthy, "All systems operational")
}

func (a *Aggregator) Ping() Ping {
	return Ping{Status: "ok", Message: "pong", Timestamp: a.now().UTC()}
}

func (a *Aggregator) status(status, message string) Status {
	return Status{Status: status, Message: message, Timestamp: a.now().UTC()}
}

func runProbe(ctx context.Context, probe Probe) (healthy bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			healthy = false
			err = fmt.Errorf("%s probe panicked: %v", probe.Name(), r)
		}
	}()
	return probe.Check(ctx)
}
