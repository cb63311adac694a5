// Package codec translates between the terminal's CSV wire text and signal types.
//
// Requests look like "SYMBOL,BID,RSI" (extra fields are ignored) and responses like
// "SIGNAL,STOPLOSS,TAKEPROFIT". Neither side appends a terminator: one socket read is
// taken to be one message.
package codec

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/innosenze88/ExpertAdvisor/internal/signal"
)

const (
	fieldSep   = ","
	minFields  = 3
	levelScale = 5

	// A bid is rescaled to levelScale places on every add and format, so its
	// magnitude and precision must stay within what a quote can carry.
	maxBidExponent = 20
	maxBidDigits   = 30
)

// ZeroResponse is sent whenever a message cannot be decoded or processed.
var ZeroResponse = []byte("0.0,0.0,0.0")

// ErrMalformed marks a payload that does not carry a usable sample.
var ErrMalformed = errors.New("malformed message")

// Text converts raw bytes to trimmed text, dropping invalid UTF-8 sequences.
func Text(raw []byte) string {
	return strings.TrimSpace(strings.ToValidUTF8(string(raw), ""))
}

// IsBlank reports whether raw carries nothing but whitespace or undecodable bytes.
func IsBlank(raw []byte) bool { return Text(raw) == "" }

// Decode parses one request. Fields 0, 1 and 2 are symbol, bid and RSI; a comma
// inside a numeric field is read as a decimal mark.
func Decode(raw []byte) (signal.MarketSample, error) {
	msg := Text(raw)
	if msg == "" {
		return signal.MarketSample{}, fmt.Errorf("%w: empty payload", ErrMalformed)
	}
	parts := strings.Split(msg, fieldSep)
	if len(parts) < minFields {
		return signal.MarketSample{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformed, minFields, len(parts))
	}

	bidField, rsiField := normalizeNumber(parts[1]), normalizeNumber(parts[2])
	if isHex(bidField) || isHex(rsiField) {
		return signal.MarketSample{}, fmt.Errorf("%w: hexadecimal numbers not accepted", ErrMalformed)
	}

	bid, err := decimal.NewFromString(bidField)
	if err != nil {
		return signal.MarketSample{}, fmt.Errorf("%w: bid %q: %v", ErrMalformed, parts[1], err)
	}
	if exp := bid.Exponent(); exp > maxBidExponent || exp < -maxBidExponent || bid.NumDigits() > maxBidDigits {
		return signal.MarketSample{}, fmt.Errorf("%w: bid %q out of range", ErrMalformed, parts[1])
	}
	rsi, err := strconv.ParseFloat(rsiField, 64)
	if err != nil {
		return signal.MarketSample{}, fmt.Errorf("%w: rsi %q: %v", ErrMalformed, parts[2], err)
	}
	if math.IsNaN(rsi) || math.IsInf(rsi, 0) {
		return signal.MarketSample{}, fmt.Errorf("%w: rsi %q is not finite", ErrMalformed, parts[2])
	}

	return signal.MarketSample{
		Symbol: strings.TrimSpace(parts[0]),
		Bid:    bid,
		RSI:    rsi,
	}, nil
}

// Encode renders a signal as "%.1f,%.5f,%.5f".
func Encode(s signal.TradeSignal) []byte {
	out := make([]byte, 0, 32)
	out = strconv.AppendFloat(out, s.Direction.Float(), 'f', 1, 64)
	out = append(out, fieldSep...)
	out = append(out, s.StopLoss.StringFixed(levelScale)...)
	out = append(out, fieldSep...)
	out = append(out, s.TakeProfit.StringFixed(levelScale)...)
	return out
}

// isHex catches the 0x forms strconv.ParseFloat would otherwise accept.
func isHex(field string) bool {
	return strings.ContainsAny(field, "xX")
}

func normalizeNumber(field string) string {
	return strings.ReplaceAll(strings.TrimSpace(field), ",", ".")
}
