package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"tradesift/internal/core"
)

// Trade file column layout. Readers require this exact header; writers
// produce it.
var tradeHeader = []string{
	"date", "type", "time", "day_of_week", "distance", "reward_risk", "max_profit",
}

const (
	tradeDateLayout = "2006-01-02"
	tradeTimeLayout = "15:04:05"
)

// LoadTrades reads a trade file. The rows come back in file order; callers
// apply whatever ordering they need. A missing file is a MissingInput error,
// a present file with only the header row is an empty list. Any cell that
// does not parse aborts the load with the row number, never a silent zero.
func LoadTrades(path string) (core.TradeList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.WrapError(core.ErrMissingInput, fmt.Errorf("open trade file: %w", err))
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReaderSize(f, 1<<20))
	r.ReuseRecord = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, core.WrapError(core.ErrMissingInput,
			fmt.Errorf("trade file %s has no header row", path))
	}
	if err != nil {
		return nil, core.WrapError(core.ErrMalformedValue, fmt.Errorf("%s: %w", path, err))
	}
	if err := checkTradeHeader(header); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var trades core.TradeList
	for row := 1; ; row++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, core.WrapError(core.ErrMalformedValue,
				fmt.Errorf("%s row %d: %w", path, row, err))
		}
		trade, err := parseTrade(rec)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, row, err)
		}
		trades = append(trades, trade)
	}
	return trades, nil
}

func checkTradeHeader(header []string) error {
	if len(header) != len(tradeHeader) {
		return core.WrapError(core.ErrMalformedValue,
			fmt.Errorf("header has %d columns, want %d", len(header), len(tradeHeader)))
	}
	for i, want := range tradeHeader {
		if strings.TrimSpace(strings.ToLower(header[i])) != want {
			return core.WrapError(core.ErrMalformedValue,
				fmt.Errorf("header column %d is %q, want %q", i+1, header[i], want))
		}
	}
	return nil
}

// parseTrade converts one record. The day_of_week column is ignored: the
// weekday is always derived from the timestamp.
func parseTrade(rec []string) (core.Trade, error) {
	ts, err := time.Parse(tradeDateLayout+" "+tradeTimeLayout,
		strings.TrimSpace(rec[0])+" "+strings.TrimSpace(rec[2]))
	if err != nil {
		return core.Trade{}, core.WrapError(core.ErrMalformedValue,
			fmt.Errorf("timestamp: %w", err))
	}

	direction, err := core.ParseDirection(strings.TrimSpace(rec[1]))
	if err != nil {
		return core.Trade{}, err
	}

	distance, err := strconv.ParseFloat(strings.TrimSpace(rec[4]), 64)
	if err != nil {
		return core.Trade{}, core.WrapError(core.ErrMalformedValue,
			fmt.Errorf("distance %q is not numeric", rec[4]))
	}

	rr, err := core.ParseRewardRisk(rec[5])
	if err != nil {
		return core.Trade{}, err
	}

	maxProfit, err := strconv.ParseFloat(strings.TrimSpace(rec[6]), 64)
	if err != nil {
		return core.Trade{}, core.WrapError(core.ErrMalformedValue,
			fmt.Errorf("max_profit %q is not numeric", rec[6]))
	}

	return core.Trade{
		Timestamp:  ts,
		Direction:  direction,
		Distance:   distance,
		RewardRisk: rr,
		MaxProfit:  maxProfit,
	}, nil
}

// SaveTrades writes a trade file in the canonical schema, creating parent
// directories as needed. The day_of_week column is derived from each trade's
// timestamp on the way out.
func SaveTrades(path string, trades core.TradeList) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return core.WrapError(core.ErrExportFailed, fmt.Errorf("create %s: %w", dir, err))
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return core.WrapError(core.ErrExportFailed, fmt.Errorf("create %s: %w", path, err))
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(tradeHeader); err != nil {
		return core.WrapError(core.ErrExportFailed, err)
	}
	for _, t := range trades {
		rec := []string{
			t.Timestamp.Format(tradeDateLayout),
			string(t.Direction),
			t.Timestamp.Format(tradeTimeLayout),
			t.Weekday().String(),
			strconv.FormatFloat(t.Distance, 'f', -1, 64),
			t.RewardRisk.String(),
			strconv.FormatFloat(t.MaxProfit, 'f', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return core.WrapError(core.ErrExportFailed, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return core.WrapError(core.ErrExportFailed, err)
	}
	return f.Close()
}
