package settlement

import (
	"context"
	"time"
)

type Config struct {
	Delay time.Duration `mapstructure:"delay"`
}

type Request struct {
	TransactionCode string
	ProductCode     string
	CustomerNumber  string
	Amount          int64
}

type Result struct {
	Provider  string
	Reference string
}

// Provider performs the external settlement step for a submitted
// transaction. Implementations decide success or failure; they never touch
// the ledger.
type Provider interface {
	Settle(ctx context.Context, req Request) (Result, error)
}

type simulated struct {
	cfg Config
}

// NewSimulatedProvider returns a provider that always settles successfully
// after an artificial delay, standing in for a real PPOB supplier link.
func NewSimulatedProvider(cfg Config) Provider {
	return &simulated{cfg: cfg}
}

func (s *simulated) Settle(ctx context.Context, req Request) (Result, error) {
	if s.cfg.Delay > 0 {
		select {
		case <-time.After(s.cfg.Delay):
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}

	return Result{
		Provider:  "simulated",
		Reference: "SIM-" + req.TransactionCode,
	}, nil
}
