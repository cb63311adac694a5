// Package strategy contains trading signal generation logic applied to terminal samples.
package strategy

import (
	"github.com/shopspring/decimal"

	"github.com/innosenze88/ExpertAdvisor/internal/signal"
)

const (
	// DefaultBuyBelow is the RSI level under which the market is treated as oversold.
	DefaultBuyBelow = 30.0
	// DefaultSellAbove is the RSI level over which the market is treated as overbought.
	DefaultSellAbove = 70.0
	// DefaultPoint is the fixed price offset used for stop-loss and take-profit.
	DefaultPoint = 0.00100
)

// RSIThreshold emits a buy when RSI is oversold and a sell when it is overbought,
// bracketing the bid with a fixed offset. It holds no mutable state.
type RSIThreshold struct {
	buyBelow  float64
	sellAbove float64
	point     decimal.Decimal
}

// NewRSIThreshold builds the threshold rule. Non-positive or inverted bounds fall back to 30/70,
// a non-positive point falls back to 0.001.
func NewRSIThreshold(buyBelow, sellAbove, point float64) *RSIThreshold {
	if buyBelow <= 0 || sellAbove <= 0 || buyBelow > sellAbove {
		buyBelow, sellAbove = DefaultBuyBelow, DefaultSellAbove
	}
	if point <= 0 {
		point = DefaultPoint
	}
	return &RSIThreshold{
		buyBelow:  buyBelow,
		sellAbove: sellAbove,
		point:     decimal.NewFromFloat(point),
	}
}

// Name returns the identifier for logging.
func (s *RSIThreshold) Name() string { return "RSIThreshold" }

// Compute applies the threshold rule. It is total: every sample yields a signal.
func (s *RSIThreshold) Compute(sample signal.MarketSample) signal.TradeSignal {
	switch {
	case sample.RSI < s.buyBelow:
		return signal.TradeSignal{
			Direction:  signal.Buy,
			StopLoss:   sample.Bid.Sub(s.point),
			TakeProfit: sample.Bid.Add(s.point),
		}
	case sample.RSI > s.sellAbove:
		return signal.TradeSignal{
			Direction:  signal.Sell,
			StopLoss:   sample.Bid.Add(s.point),
			TakeProfit: sample.Bid.Sub(s.point),
		}
	default:
		return signal.TradeSignal{Direction: signal.Neutral, StopLoss: decimal.Zero, TakeProfit: decimal.Zero}
	}
}
