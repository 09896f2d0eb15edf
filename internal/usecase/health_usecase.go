package usecase

import (
	"context"
	"time"
)

// Pinger is any dependency the health check pings.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthUsecase interface {
	// Check reports "ok" per healthy dependency and the error text otherwise.
	// healthy is false when any required dependency fails.
	Check(ctx context.Context) (status map[string]string, healthy bool)
}

type healthUsecase struct {
	required map[string]Pinger
	optional map[string]Pinger
}

// NewHealthUsecase pings required dependencies (database) and optional ones
// (redis). Optional failures are reported but do not mark the service unhealthy.
func NewHealthUsecase(required, optional map[string]Pinger) HealthUsecase {
	return &healthUsecase{required: required, optional: optional}
}

func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}
	healthy := true
	for name, p := range u.required {
		if err := p.Ping(ctx); err != nil {
			status[name] = err.Error()
			healthy = false
			continue
		}
		status[name] = "ok"
	}
	for name, p := range u.optional {
		if err := p.Ping(ctx); err != nil {
			status[name] = "degraded: " + err.Error()
			continue
		}
		status[name] = "ok"
	}
	if !healthy {
		status["status"] = "unavailable"
	}
	return status, healthy
}
