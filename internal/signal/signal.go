// Package signal standardizes payloads shared between the wire codec and strategy layers.
package signal

import "github.com/shopspring/decimal"

// MarketSample models one tick reported by a trading terminal.
type MarketSample struct {
	Symbol string
	Bid    decimal.Decimal
	RSI    float64
}

// Direction expresses the trading bias of a signal.
type Direction int

const (
	// Neutral means stay flat.
	Neutral Direction = 0
	// Buy indicates a long entry.
	Buy Direction = 1
	// Sell indicates a short entry.
	Sell Direction = -1
)

// Float returns the signed wire value: +1.0, -1.0 or 0.0.
func (d Direction) Float() float64 {
	switch d {
	case Buy:
		return 1
	case Sell:
		return -1
	default:
		return 0
	}
}

func (d Direction) String() string {
	switch d {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "NEUTRAL"
	}
}

// TradeSignal is the decision returned to the terminal along with its protective levels.
type TradeSignal struct {
	Direction  Direction
	StopLoss   decimal.Decimal
	TakeProfit decimal.Decimal
}

// IsNeutral reports whether the signal carries no position.
func (s TradeSignal) IsNeutral() bool { return s.Direction == Neutral }
