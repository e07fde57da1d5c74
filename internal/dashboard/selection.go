package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"medreport/internal/report"
)

// CategoryAll selects every biomarker category at once.
const CategoryAll = "all"

// Timeframes offered by the trends tab.
var Timeframes = []string{"3 months", "6 months", "1 year", "All time"}

// Trend metrics in display order.
const (
	MetricOverallScore = "overallScore"
	MetricCholesterol  = "cholesterol"
	MetricGlucose      = "glucose"
	MetricVitaminD     = "vitaminD"
)

var Metrics = []string{MetricOverallScore, MetricCholesterol, MetricGlucose, MetricVitaminD}

// ErrInvalidSelection is matched by every SelectionError.
var ErrInvalidSelection = errors.New("invalid selection")

// SelectionError names the field that was rejected.
type SelectionError struct {
	Field string
	Value string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("%s: %s %q", ErrInvalidSelection, e.Field, e.Value)
}

func (e *SelectionError) Is(target error) bool {
	return target == ErrInvalidSelection
}

// Selection is the UI state of one dashboard. It never touches the result.
type Selection struct {
	Tab       TabID  `json:"tab"`
	Organ     string `json:"organ"`
	Risk      string `json:"risk,omitempty"`
	Category  string `json:"category"`
	Timeframe string `json:"timeframe"`
	Metric    string `json:"metric"`
	Remedy    string `json:"remedy,omitempty"`
}

// DefaultSelection is what a fresh dashboard shows.
func DefaultSelection() Selection {
	return Selection{
		Tab:       TabOverview,
		Organ:     "heart",
		Category:  CategoryAll,
		Timeframe: "6 months",
		Metric:    MetricOverallScore,
	}
}

// SelectionUpdate carries the fields to change; nil fields are left alone.
// An empty Risk or Remedy clears that selection.
type SelectionUpdate struct {
	Tab       *string `json:"tab"`
	Organ     *string `json:"organ"`
	Risk      *string `json:"risk"`
	Category  *string `json:"category"`
	Timeframe *string `json:"timeframe"`
	Metric    *string `json:"metric"`
	Remedy    *string `json:"remedy"`
}

func (s Selection) apply(u SelectionUpdate, trendsEnabled bool) (Selection, error) {
	next := s
	if u.Tab != nil {
		tab, ok := lookupTab(TabID(*u.Tab), trendsEnabled)
		if !ok || !tab.Enabled {
			return s, &SelectionError{Field: "tab", Value: *u.Tab}
		}
		next.Tab = tab.ID
	}
	if u.Organ != nil {
		organ := strings.ToLower(strings.TrimSpace(*u.Organ))
		if organ == "" {
			return s, &SelectionError{Field: "organ", Value: *u.Organ}
		}
		next.Organ = organ
	}
	if u.Risk != nil {
		next.Risk = strings.TrimSpace(*u.Risk)
	}
	if u.Category != nil {
		if _, ok := (report.Biomarkers{}).Category(*u.Category); !ok && *u.Category != CategoryAll {
			return s, &SelectionError{Field: "category", Value: *u.Category}
		}
		next.Category = *u.Category
	}
	if u.Timeframe != nil {
		if !contains(Timeframes, *u.Timeframe) {
			return s, &SelectionError{Field: "timeframe", Value: *u.Timeframe}
		}
		next.Timeframe = *u.Timeframe
	}
	if u.Metric != nil {
		if !contains(Metrics, *u.Metric) {
			return s, &SelectionError{Field: "metric", Value: *u.Metric}
		}
		next.Metric = *u.Metric
	}
	if u.Remedy != nil {
		next.Remedy = strings.TrimSpace(*u.Remedy)
	}
	return next, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
