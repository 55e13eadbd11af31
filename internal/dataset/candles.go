package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"tradesift/internal/core"
)

// MT4-style history exports carry no header, one bar per row:
// date,time,open,high,low,close,volume.
const (
	candleDateLayout = "2006.01.02"
	candleTimeLayout = "15:04"
	candleColumns    = 7
)

// LoadCandles reads a headerless price history export in file order.
func LoadCandles(path string) ([]core.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.WrapError(core.ErrMissingInput, fmt.Errorf("open candle file: %w", err))
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReaderSize(f, 1<<20))
	r.ReuseRecord = true
	r.FieldsPerRecord = candleColumns

	var candles []core.Candle
	for row := 1; ; row++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, core.WrapError(core.ErrMalformedValue,
				fmt.Errorf("%s row %d: %w", path, row, err))
		}
		c, err := parseCandle(rec)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, row, err)
		}
		candles = append(candles, c)
	}
	return candles, nil
}

func parseCandle(rec []string) (core.Candle, error) {
	ts, err := time.Parse(candleDateLayout+" "+candleTimeLayout, rec[0]+" "+rec[1])
	if err != nil {
		return core.Candle{}, core.WrapError(core.ErrMalformedValue,
			fmt.Errorf("timestamp: %w", err))
	}

	fields := [5]float64{}
	names := [5]string{"open", "high", "low", "close", "volume"}
	for i := range fields {
		v, err := strconv.ParseFloat(rec[i+2], 64)
		if err != nil {
			return core.Candle{}, core.WrapError(core.ErrMalformedValue,
				fmt.Errorf("%s %q is not numeric", names[i], rec[i+2]))
		}
		fields[i] = v
	}

	return core.Candle{
		Time:   ts,
		Open:   fields[0],
		High:   fields[1],
		Low:    fields[2],
		Close:  fields[3],
		Volume: fields[4],
	}, nil
}
