package dashboard

import "medreport/internal/report"

// MetricPoint is one value of a trend series.
type MetricPoint struct {
	Date  string        `json:"date"`
	Value report.Number `json:"value"`
}

// MetricSummary is the card shown for one trend metric.
type MetricSummary struct {
	ID        string        `json:"id"`
	Current   report.Number `json:"current"`
	Direction report.Trend  `json:"direction"`
}

type TrendsView struct {
	Available   bool                `json:"available"`
	Timeframe   string              `json:"timeframe"`
	Metric      string              `json:"metric"`
	Summaries   []MetricSummary     `json:"summaries"`
	Series      []MetricPoint       `json:"series"`
	Predictions []report.Prediction `json:"predictions"`
}

func (TrendsView) Tab() TabID { return TabTrends }

func metricValue(s report.Snapshot, metric string) report.Number {
	switch metric {
	case MetricOverallScore:
		return s.OverallScore
	case MetricCholesterol:
		return s.Cholesterol
	case MetricGlucose:
		return s.Glucose
	case MetricVitaminD:
		return s.VitaminD
	default:
		return report.Number{}
	}
}

// TrendDirection compares the last two historical points of metric.
// Fewer than two points is always stable.
func TrendDirection(history []report.Snapshot, metric string) report.Trend {
	if len(history) < 2 {
		return report.TrendStable
	}
	current := metricValue(history[len(history)-1], metric).Float()
	previous := metricValue(history[len(history)-2], metric).Float()
	switch {
	case current > previous:
		return report.TrendUp
	case current < previous:
		return report.TrendDown
	default:
		return report.TrendStable
	}
}

func trendsView(r *report.AnalysisResult, sel Selection) TrendsView {
	view := TrendsView{
		Timeframe:   sel.Timeframe,
		Metric:      sel.Metric,
		Summaries:   []MetricSummary{},
		Series:      []MetricPoint{},
		Predictions: []report.Prediction{},
	}
	if r.Trends == nil {
		return view
	}
	history := r.Trends.Historical
	view.Available = len(history) > 0
	for _, id := range Metrics {
		summary := MetricSummary{ID: id, Direction: TrendDirection(history, id)}
		if len(history) > 0 {
			summary.Current = metricValue(history[len(history)-1], id)
		}
		view.Summaries = append(view.Summaries, summary)
	}
	for _, s := range history {
		view.Series = append(view.Series, MetricPoint{Date: s.Date, Value: metricValue(s, sel.Metric)})
	}
	view.Predictions = append(view.Predictions, r.Trends.Predictions...)
	return view
}
