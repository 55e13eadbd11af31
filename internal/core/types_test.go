package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseRewardRisk_Numeric(t *testing.T) {
	rr, err := ParseRewardRisk("2.5")
	if err != nil {
		t.Fatalf("ParseRewardRisk: %v", err)
	}
	if rr.IsStopLoss() {
		t.Error("numeric value parsed as stop-loss")
	}
	v, ok := rr.Value()
	if !ok || v != 2.5 {
		t.Errorf("Value() = %f, %v, want 2.5, true", v, ok)
	}
}

func TestParseRewardRisk_StopLoss(t *testing.T) {
	rr, err := ParseRewardRisk("SL")
	if err != nil {
		t.Fatalf("ParseRewardRisk: %v", err)
	}
	if !rr.IsStopLoss() {
		t.Error("expected stop-loss sentinel")
	}
	if _, ok := rr.Value(); ok {
		t.Error("stop-loss must not expose a numeric value")
	}
}

func TestParseRewardRisk_Malformed(t *testing.T) {
	for _, s := range []string{"", "sl", "N/A", "1.2.3", "-0.5"} {
		_, err := ParseRewardRisk(s)
		if !errors.Is(err, ErrMalformedValue) {
			t.Errorf("ParseRewardRisk(%q) error = %v, want MALFORMED_VALUE", s, err)
		}
	}
}

func TestRewardRisk_String(t *testing.T) {
	tests := []struct {
		rr   RewardRisk
		want string
	}{
		{Numeric(1.5), "1.5"},
		{Numeric(3), "3"},
		{StopLoss(), "SL"},
	}
	for _, tt := range tests {
		if got := tt.rr.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseDirection(t *testing.T) {
	if _, err := ParseDirection("Buy"); err != nil {
		t.Errorf("Buy should parse: %v", err)
	}
	if _, err := ParseDirection("Sell"); err != nil {
		t.Errorf("Sell should parse: %v", err)
	}
	if _, err := ParseDirection("buy"); !errors.Is(err, ErrMalformedValue) {
		t.Errorf("lowercase token should be rejected, got %v", err)
	}
}

func TestTrade_DerivedFields(t *testing.T) {
	ts := time.Date(2021, 3, 5, 14, 30, 0, 0, time.UTC) // a Friday
	tr := Trade{Timestamp: ts, Direction: DirectionSell}

	if tr.Hour() != 14 {
		t.Errorf("Hour() = %d, want 14", tr.Hour())
	}
	if tr.Weekday() != time.Friday {
		t.Errorf("Weekday() = %v, want Friday", tr.Weekday())
	}
	if tr.Key() != "2021-03-05 14:30:00_Sell" {
		t.Errorf("Key() = %q", tr.Key())
	}
}

func TestTradeList_Clone(t *testing.T) {
	orig := TradeList{{Direction: DirectionBuy}, {Direction: DirectionSell}}
	clone := orig.Clone()
	clone[0].Direction = DirectionSell
	if orig[0].Direction != DirectionBuy {
		t.Error("Clone must not share backing storage")
	}
}
