package generator

import (
	"math"
	"sort"

	"tradesift/internal/core"
)

// Default price offsets applied around a candle when opening a trade.
const (
	DefaultEntryOffset = 0.2
	DefaultStopOffset  = 0.2
)

// Range is an inclusive span of floored distances to skip.
type Range struct {
	Min int
	Max int
}

// DirectionFilter lists the floored entry-to-stop distances that are never
// traded for one direction.
type DirectionFilter struct {
	Distances []int
	Ranges    []Range
}

// Skip reports whether a distance is filtered out.
func (f DirectionFilter) Skip(distance float64) bool {
	d := int(math.Floor(distance))
	for _, v := range f.Distances {
		if d == v {
			return true
		}
	}
	for _, r := range f.Ranges {
		if d >= r.Min && d <= r.Max {
			return true
		}
	}
	return false
}

// Config tunes the simulator.
type Config struct {
	EntryOffset  float64
	StopOffset   float64
	ExcludedTime string // clock time (15:04) at which no trade is opened
	Buy          DirectionFilter
	Sell         DirectionFilter
}

// Stats counts what happened during a run.
type Stats struct {
	Opened    int
	Filtered  int // skipped by a distance filter
	OpenAtEnd int // never stopped out before the data ended
}

// Simulator replays a price history and opens one trade per candle: a buy
// above a bullish close, a sell below a bearish one. Each trade is tracked
// forward until price touches its stop; the reward/risk written out is the
// peak favorable excursion over the entry-to-stop distance at that moment,
// or the stop-loss token when the trade never reached one full multiple.
type Simulator struct {
	cfg Config
}

// New creates a simulator, filling in the default offsets where the config
// leaves them zero.
func New(cfg Config) *Simulator {
	if cfg.EntryOffset == 0 {
		cfg.EntryOffset = DefaultEntryOffset
	}
	if cfg.StopOffset == 0 {
		cfg.StopOffset = DefaultStopOffset
	}
	return &Simulator{cfg: cfg}
}

// position is a trade being tracked forward through the history.
type position struct {
	direction core.Direction
	opened    core.Candle
	entry     float64
	stop      float64
	distance  float64
	peak      float64 // best favorable excursion so far, price units
	resolved  bool
	stopped   bool // stop was touched (vs. data ran out)
}

// advance applies one candle. The stop check comes first: when a candle
// touches the stop, its own favorable range is not credited, since the
// intra-candle order of the two moves is unknowable.
func (p *position) advance(c core.Candle) {
	if p.direction == core.DirectionBuy {
		if c.Low <= p.stop {
			p.resolved, p.stopped = true, true
			return
		}
		if exc := c.High - p.entry; exc > p.peak {
			p.peak = exc
		}
		return
	}
	if c.High >= p.stop {
		p.resolved, p.stopped = true, true
		return
	}
	if exc := p.entry - c.Low; exc > p.peak {
		p.peak = exc
	}
}

// trade converts a finished position into a trade record. Positions that
// never reached one full distance multiple before stopping, and positions
// still open when the data ends, are stop-losses.
func (p *position) trade() core.Trade {
	rr := core.StopLoss()
	if p.stopped {
		if multiple := p.peak / p.distance; multiple >= 1 {
			rr = core.Numeric(multiple)
		}
	}
	return core.Trade{
		Timestamp:  p.opened.Time,
		Direction:  p.direction,
		Distance:   p.distance,
		RewardRisk: rr,
		MaxProfit:  p.peak,
	}
}

// Run replays the candles in chronological order and returns the trades in
// the order they were opened.
func (s *Simulator) Run(candles []core.Candle) (core.TradeList, Stats) {
	history := make([]core.Candle, len(candles))
	copy(history, candles)
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Time.Before(history[j].Time)
	})

	var stats Stats
	var open []*position
	var all []*position

	for _, c := range history {
		// Existing positions see this candle before any new trade opens on
		// it, so a trade's tracking starts at the candle after its entry.
		live := open[:0]
		for _, p := range open {
			p.advance(c)
			if !p.resolved {
				live = append(live, p)
			}
		}
		open = live

		if s.cfg.ExcludedTime != "" && c.Time.Format("15:04") == s.cfg.ExcludedTime {
			continue
		}

		direction := core.DirectionSell
		if c.Close > c.Open {
			direction = core.DirectionBuy
		}

		var entry, stop float64
		if direction == core.DirectionBuy {
			entry = c.Close + s.cfg.EntryOffset
			stop = c.Low - s.cfg.StopOffset
		} else {
			entry = c.Close - s.cfg.EntryOffset
			stop = c.High + s.cfg.StopOffset
		}
		distance := math.Abs(entry - stop)
		if distance == 0 {
			continue
		}

		filter := s.cfg.Buy
		if direction == core.DirectionSell {
			filter = s.cfg.Sell
		}
		if filter.Skip(distance) {
			stats.Filtered++
			continue
		}

		p := &position{
			direction: direction,
			opened:    c,
			entry:     entry,
			stop:      stop,
			distance:  distance,
		}
		open = append(open, p)
		all = append(all, p)
		stats.Opened++
	}

	stats.OpenAtEnd = len(open)

	trades := make(core.TradeList, len(all))
	for i, p := range all {
		trades[i] = p.trade()
	}
	return trades, stats
}
