package report

import (
	"encoding/json"
	"errors"
	"strings"
)

// RequiredKeys must be present in every payload that is not a rejection.
var RequiredKeys = []string{
	"user",
	"report",
	"overallHealth",
	"biomarkers",
	"organHealth",
	"risks",
	"recommendations",
}

// StripFences removes ```json and ``` markers the model wraps around its JSON body.
// Applying it twice yields the same text.
func StripFences(raw string) string {
	out := strings.ReplaceAll(raw, "```json", "")
	out = strings.ReplaceAll(out, "```", "")
	return strings.TrimSpace(out)
}

// Decode strips fence markers and parses the analysis text.
// A payload with status=false is returned as-is so the caller can surface its msg.
func Decode(raw string) (*AnalysisResult, error) {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return nil, &MalformedResponseError{Err: errors.New("empty analysis text")}
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &keys); err != nil {
		return nil, &MalformedResponseError{Err: err}
	}

	var result AnalysisResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, &MalformedResponseError{Err: err}
	}
	if result.Rejected() {
		result.Normalize()
		return &result, nil
	}

	var missing []string
	for _, key := range RequiredKeys {
		v, ok := keys[key]
		if !ok || string(v) == "null" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, &MalformedResponseError{Missing: missing}
	}

	result.Normalize()
	return &result, nil
}

// Rejected reports whether the service refused the document (status=false).
func (r *AnalysisResult) Rejected() bool {
	return r != nil && r.Status != nil && !*r.Status
}

// RejectionMessage returns the service's explanation for a rejection.
func (r *AnalysisResult) RejectionMessage() string {
	if r == nil {
		return ""
	}
	if msg := strings.TrimSpace(r.Msg); msg != "" {
		return msg
	}
	return "The uploaded document could not be analyzed as a medical report."
}

// Normalize replaces missing lists with empty ones so views never see nil.
func (r *AnalysisResult) Normalize() {
	if r == nil {
		return
	}
	r.OverallHealth.Concerns = nonNilStrings(r.OverallHealth.Concerns)

	b := &r.Biomarkers
	b.BloodCount = nonNilMarkers(b.BloodCount)
	b.Metabolic = nonNilMarkers(b.Metabolic)
	b.Lipids = nonNilMarkers(b.Lipids)
	b.Vitamins = nonNilMarkers(b.Vitamins)
	b.Thyroid = nonNilMarkers(b.Thyroid)

	if r.Risks == nil {
		r.Risks = []Risk{}
	}
	for i := range r.Risks {
		r.Risks[i].Factors = nonNilStrings(r.Risks[i].Factors)
		r.Risks[i].Recommendations = nonNilStrings(r.Risks[i].Recommendations)
	}

	rec := &r.Recommendations
	if rec.Lifestyle.DailyRoutine == nil {
		rec.Lifestyle.DailyRoutine = []RoutineSlot{}
	}
	for i := range rec.Lifestyle.DailyRoutine {
		rec.Lifestyle.DailyRoutine[i].Activities = nonNilStrings(rec.Lifestyle.DailyRoutine[i].Activities)
	}
	if rec.Lifestyle.Exercise == nil {
		rec.Lifestyle.Exercise = []Exercise{}
	}
	for i := range rec.Lifestyle.Exercise {
		rec.Lifestyle.Exercise[i].Examples = nonNilStrings(rec.Lifestyle.Exercise[i].Examples)
	}
	rec.Nutrition.Increase = nonNilFoodGroups(rec.Nutrition.Increase)
	rec.Nutrition.Decrease = nonNilFoodGroups(rec.Nutrition.Decrease)
	if rec.Nutrition.Supplements == nil {
		rec.Nutrition.Supplements = []Supplement{}
	}
	if rec.Medication == nil {
		rec.Medication = []Remedy{}
	}
	for i := range rec.Medication {
		rec.Medication[i].Benefits = nonNilStrings(rec.Medication[i].Benefits)
	}

	if r.Monitoring == nil {
		r.Monitoring = []MonitoringTest{}
	}

	if r.Trends != nil {
		if r.Trends.Historical == nil {
			r.Trends.Historical = []Snapshot{}
		}
		if r.Trends.Predictions == nil {
			r.Trends.Predictions = []Prediction{}
		}
		for i := range r.Trends.Predictions {
			r.Trends.Predictions[i].Improvements = nonNilStrings(r.Trends.Predictions[i].Improvements)
		}
	}
}

// Encode serializes the result for durable storage.
func Encode(r *AnalysisResult) ([]byte, error) {
	if r == nil {
		return nil, errors.New("analysis result is nil")
	}
	return json.Marshal(r)
}

// Load parses a previously encoded result without the required-key checks.
func Load(data []byte) (*AnalysisResult, error) {
	var result AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	result.Normalize()
	return &result, nil
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func nonNilMarkers(in []Biomarker) []Biomarker {
	if in == nil {
		return []Biomarker{}
	}
	return in
}

func nonNilFoodGroups(in []FoodGroup) []FoodGroup {
	if in == nil {
		return []FoodGroup{}
	}
	for i := range in {
		in[i].Items = nonNilStrings(in[i].Items)
	}
	return in
}
