package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Direction represents the side of a trade
type Direction string

const (
	DirectionBuy  Direction = "Buy"
	DirectionSell Direction = "Sell"
)

// ParseDirection parses the trade type token from a trade file.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionBuy:
		return DirectionBuy, nil
	case DirectionSell:
		return DirectionSell, nil
	}
	return "", WrapError(ErrMalformedValue, fmt.Errorf("trade type %q is neither %q nor %q", s, DirectionBuy, DirectionSell))
}

// Tag returns the lowercase form used in group names and file names.
func (d Direction) Tag() string {
	return strings.ToLower(string(d))
}

// StopLossToken is the literal written to trade files for stopped-out trades.
const StopLossToken = "SL"

// RewardRisk is either a non-negative reward/risk multiple or the stop-loss
// sentinel. The two cases never mix: a stop-loss has no numeric value and a
// numeric value is never treated as a stop-loss. The zero value is numeric 0.
type RewardRisk struct {
	value    float64
	stopLoss bool
}

// Numeric returns a numeric reward/risk value.
func Numeric(v float64) RewardRisk {
	return RewardRisk{value: v}
}

// StopLoss returns the stop-loss sentinel.
func StopLoss() RewardRisk {
	return RewardRisk{stopLoss: true}
}

// IsStopLoss reports whether this is the stop-loss sentinel.
func (r RewardRisk) IsStopLoss() bool {
	return r.stopLoss
}

// Value returns the numeric multiple. The second return is false for
// stop-loss records, which carry no numeric value.
func (r RewardRisk) Value() (float64, bool) {
	if r.stopLoss {
		return 0, false
	}
	return r.value, true
}

// String renders the trade-file form: the numeric literal or the SL token.
func (r RewardRisk) String() string {
	if r.stopLoss {
		return StopLossToken
	}
	return strconv.FormatFloat(r.value, 'f', -1, 64)
}

// ParseRewardRisk parses the reward_risk field of a trade file. Only a
// non-negative decimal literal or the exact SL token are accepted; anything
// else is a MalformedValue error, never coerced to a number.
func ParseRewardRisk(s string) (RewardRisk, error) {
	s = strings.TrimSpace(s)
	if s == StopLossToken {
		return StopLoss(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return RewardRisk{}, WrapError(ErrMalformedValue,
			fmt.Errorf("reward_risk %q is neither numeric nor %q", s, StopLossToken))
	}
	if v < 0 {
		return RewardRisk{}, WrapError(ErrMalformedValue,
			fmt.Errorf("reward_risk %q is negative", s))
	}
	return Numeric(v), nil
}

// Trade represents one historical trade record.
type Trade struct {
	Timestamp  time.Time
	Direction  Direction
	Distance   float64
	RewardRisk RewardRisk
	MaxProfit  float64
}

// Hour returns the hour of day the trade was opened.
func (t Trade) Hour() int {
	return t.Timestamp.Hour()
}

// Weekday returns the weekday the trade was opened. It is always derived
// from the timestamp, never stored separately.
func (t Trade) Weekday() time.Weekday {
	return t.Timestamp.Weekday()
}

// Key identifies a trade by open timestamp and direction for set comparisons.
func (t Trade) Key() string {
	return t.Timestamp.Format("2006-01-02 15:04:05") + "_" + string(t.Direction)
}

// TradeList is a sequence of trade records.
type TradeList []Trade

// Clone returns a copy sharing no backing storage with the original.
func (l TradeList) Clone() TradeList {
	out := make(TradeList, len(l))
	copy(out, l)
	return out
}

// Candle is one OHLC bar from a price history export.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}
