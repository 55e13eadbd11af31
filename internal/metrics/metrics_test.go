package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	if reg == nil {
		t.Fatal("expected non-nil registry")
	}

	// Should have go runtime metrics at minimum
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(mfs) == 0 {
		t.Error("expected some metrics to be registered")
	}
}

func TestRegistry_RecordThreshold(t *testing.T) {
	reg := NewRegistry()

	reg.RecordThreshold("survived")
	reg.RecordThreshold("survived")
	reg.RecordThreshold("abandoned")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	found := false
	for _, mf := range mfs {
		if mf.GetName() != "tradesift_thresholds_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "status" && label.GetValue() == "survived" {
					found = true
					if m.GetCounter().GetValue() != 2 {
						t.Errorf("expected 2 survived thresholds, got %v", m.GetCounter().GetValue())
					}
				}
			}
		}
	}
	if !found {
		t.Error("expected tradesift_thresholds_total with status=survived")
	}
}

func TestRegistry_RecordCascadeGroups(t *testing.T) {
	reg := NewRegistry()

	reg.RecordCascadeGroups("distance", 4, 1)
	reg.RecordCascadeGroups("distance", 2, 2)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	got := map[string]float64{}
	for _, mf := range mfs {
		if mf.GetName() != "tradesift_cascade_groups_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			var stage, status string
			for _, label := range m.GetLabel() {
				switch label.GetName() {
				case "stage":
					stage = label.GetValue()
				case "status":
					status = label.GetValue()
				}
			}
			got[stage+"/"+status] = m.GetCounter().GetValue()
		}
	}

	if got["distance/survived"] != 3 {
		t.Errorf("survived = %v, want 3", got["distance/survived"])
	}
	if got["distance/dropped"] != 3 {
		t.Errorf("dropped = %v, want 3", got["distance/dropped"])
	}
}

func TestRegistry_RecordDrawdown(t *testing.T) {
	reg := NewRegistry()

	reg.RecordDrawdown("ok", 12.5)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	found := false
	for _, mf := range mfs {
		if mf.GetName() != "tradesift_drawdown_duration_seconds" {
			continue
		}
		found = true
		for _, m := range mf.GetMetric() {
			hist := m.GetHistogram()
			if hist.GetSampleCount() != 1 {
				t.Errorf("expected sample count 1, got %d", hist.GetSampleCount())
			}
			if hist.GetSampleSum() < 12.4 || hist.GetSampleSum() > 12.6 {
				t.Errorf("expected sample sum ~12.5, got %v", hist.GetSampleSum())
			}
		}
	}
	if !found {
		t.Error("expected tradesift_drawdown_duration_seconds metric")
	}
}

func TestRegistry_SetTradesLoaded(t *testing.T) {
	reg := NewRegistry()

	reg.SetTradesLoaded(250)
	reg.SetTradesLoaded(300)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	found := false
	for _, mf := range mfs {
		if mf.GetName() == "tradesift_trades_loaded" {
			found = true
			for _, m := range mf.GetMetric() {
				if m.GetGauge().GetValue() != 300 {
					t.Errorf("expected gauge 300, got %v", m.GetGauge().GetValue())
				}
			}
		}
	}
	if !found {
		t.Error("expected tradesift_trades_loaded metric")
	}
}

func TestRegistry_RecordRowsExported(t *testing.T) {
	reg := NewRegistry()

	reg.RecordRowsExported("threshold_metrics", 5)
	reg.RecordRowsExported("threshold_metrics", 3)
	reg.RecordRowsExported("drawdown_results", 2)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	for _, mf := range mfs {
		if mf.GetName() != "tradesift_db_rows_exported_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetValue() == "threshold_metrics" && m.GetCounter().GetValue() != 8 {
					t.Errorf("expected 8 threshold_metrics rows, got %v", m.GetCounter().GetValue())
				}
			}
		}
	}
}

// Ensure the registry implements prometheus.Gatherer interface
func TestRegistry_ImplementsGatherer(t *testing.T) {
	reg := NewRegistry()
	var _ prometheus.Gatherer = reg
}
