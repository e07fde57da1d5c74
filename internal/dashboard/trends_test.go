package dashboard

import (
	"testing"

	"medreport/internal/report"
)

func TestTrendDirection(t *testing.T) {
	point := func(score float64) report.Snapshot {
		return report.Snapshot{OverallScore: report.N(score)}
	}

	tests := []struct {
		name    string
		history []report.Snapshot
		want    report.Trend
	}{
		{name: "empty", history: nil, want: report.TrendStable},
		{name: "single point", history: []report.Snapshot{point(70)}, want: report.TrendStable},
		{name: "up", history: []report.Snapshot{point(60), point(70)}, want: report.TrendUp},
		{name: "down", history: []report.Snapshot{point(70), point(65)}, want: report.TrendDown},
		{name: "flat", history: []report.Snapshot{point(70), point(70)}, want: report.TrendStable},
		{name: "last two only", history: []report.Snapshot{point(90), point(60), point(61)}, want: report.TrendUp},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := TrendDirection(tt.history, MetricOverallScore); got != tt.want {
				t.Fatalf("TrendDirection = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTrendsViewWhenEnabled(t *testing.T) {
	result := fixtureResult(t)
	d := NewDispatcher(Options{TrendsEnabled: true})

	view, ok := d.Render(result, TabTrends)
	if !ok {
		t.Fatalf("expected trends view")
	}
	if tv := view.(TrendsView); tv.Available || len(tv.Series) != 0 {
		t.Fatalf("expected unavailable trends without data, got %+v", tv)
	}

	result.Trends = &report.Trends{
		Historical: []report.Snapshot{
			{Date: "2025-01-01", OverallScore: report.N(70), Glucose: report.N(110)},
			{Date: "2025-03-01", OverallScore: report.N(78), Glucose: report.N(101)},
		},
		Predictions: []report.Prediction{{Timeframe: "3 months", ExpectedScore: report.N(82)}},
	}
	d.Update(SelectionUpdate{Metric: strPtr(MetricGlucose)})

	view, _ = d.Render(result, TabTrends)
	tv := view.(TrendsView)
	if !tv.Available || len(tv.Series) != 2 || tv.Series[1].Value.Int() != 101 {
		t.Fatalf("unexpected series %+v", tv.Series)
	}
	if tv.Summaries[0].Direction != report.TrendUp || tv.Summaries[2].Direction != report.TrendDown {
		t.Fatalf("unexpected summaries %+v", tv.Summaries)
	}
	if len(tv.Predictions) != 1 {
		t.Fatalf("expected predictions")
	}
}
