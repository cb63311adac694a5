package strategy

import (
	"errors"
	"fmt"
	"strings"

	sig "github.com/innosenze88/ExpertAdvisor/internal/signal"
)

// ErrUnknownMode is returned by Build for a mode no strategy answers to.
var ErrUnknownMode = errors.New("unknown strategy mode")

// Strategy maps a decoded market sample to a trade decision.
// Implementations must be safe for concurrent use by many sessions.
type Strategy interface {
	Compute(sample sig.MarketSample) sig.TradeSignal
	Name() string
}

// Params expresses tunable knobs required by strategy constructors.
type Params struct {
	BuyBelow  float64
	SellAbove float64
	Point     float64
}

// Build returns a strategy implementation matching the configured mode; an empty mode means RSI.
func Build(mode string, params Params) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "rsi", "rsi_threshold":
		return NewRSIThreshold(params.BuyBelow, params.SellAbove, params.Point), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}
