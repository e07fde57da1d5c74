package report

// AnalysisResult is the payload returned by the remote analysis service.
//
// Shape (abridged):
// {
//   "status": false,               // optional; false = document rejected
//   "msg": "string",               // rejection message
//   "user": {"name","age","gender","lastCheckup"},
//   "report": {"type","lab","id","uploadDate","status"},
//   "overallHealth": {"score","confidence","summary","concerns":[],"trends":{"improvement"}},
//   "biomarkers": {"bloodCount":[],"metabolic":[],"lipids":[],"vitamins":[],"thyroid":[]},
//   "organHealth": {"heart":{"status","score","description"}, ...},
//   "risks": [{"id","name","probability","score","description","factors":[],"recommendations":[]}],
//   "recommendations": {"lifestyle":{...},"nutrition":{...},"medication":[]},
//   "monitoring": [{"test","frequency","target"}],
//   "trends": {"historical":[],"predictions":[]}
// }
type AnalysisResult struct {
	Status          *bool            `json:"status,omitempty"`
	Msg             string           `json:"msg,omitempty"`
	User            User             `json:"user"`
	Report          ReportInfo       `json:"report"`
	OverallHealth   OverallHealth    `json:"overallHealth"`
	Biomarkers      Biomarkers       `json:"biomarkers"`
	OrganHealth     OrganHealth      `json:"organHealth"`
	Risks           []Risk           `json:"risks"`
	Recommendations Recommendations  `json:"recommendations"`
	Monitoring      []MonitoringTest `json:"monitoring"`
	Trends          *Trends          `json:"trends,omitempty"`
}

type User struct {
	Name        string `json:"name"`
	Age         Number `json:"age"`
	Gender      string `json:"gender"`
	LastCheckup string `json:"lastCheckup"`
}

// ReportInfo describes the source document, not its content.
type ReportInfo struct {
	Type       string `json:"type"`
	Lab        string `json:"lab"`
	ID         ID     `json:"id"`
	UploadDate string `json:"uploadDate"`
	Status     string `json:"status"`
}

type OverallHealth struct {
	Score      Number       `json:"score"`
	Confidence Number       `json:"confidence"`
	Summary    string       `json:"summary"`
	Concerns   []string     `json:"concerns"`
	Trends     HealthTrends `json:"trends"`
}

type HealthTrends struct {
	Improvement Number `json:"improvement"`
}

// Placeholder marks a value that is not applicable or was not measured.
const Placeholder = "-"

type BiomarkerStatus string

const (
	BiomarkerNormal   BiomarkerStatus = "normal"
	BiomarkerHigh     BiomarkerStatus = "high"
	BiomarkerLow      BiomarkerStatus = "low"
	BiomarkerCritical BiomarkerStatus = "critical"
	BiomarkerUnknown  BiomarkerStatus = Placeholder
)

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

type Biomarker struct {
	Name   string          `json:"name"`
	Value  Number          `json:"value"`
	Unit   string          `json:"unit"`
	Range  Range           `json:"range"`
	Status BiomarkerStatus `json:"status"`
	Trend  Trend           `json:"trend"`
}

type Range struct {
	Min Number `json:"min"`
	Max Number `json:"max"`
}

// Biomarker categories in display order.
const (
	CategoryBloodCount = "bloodCount"
	CategoryMetabolic  = "metabolic"
	CategoryLipids     = "lipids"
	CategoryVitamins   = "vitamins"
	CategoryThyroid    = "thyroid"
)

// Categories lists the biomarker categories in the order the dashboard shows them.
var Categories = []string{
	CategoryBloodCount,
	CategoryMetabolic,
	CategoryLipids,
	CategoryVitamins,
	CategoryThyroid,
}

type Biomarkers struct {
	BloodCount []Biomarker `json:"bloodCount"`
	Metabolic  []Biomarker `json:"metabolic"`
	Lipids     []Biomarker `json:"lipids"`
	Vitamins   []Biomarker `json:"vitamins"`
	Thyroid    []Biomarker `json:"thyroid"`
}

// Category returns the markers of one category and whether the name is known.
func (b Biomarkers) Category(name string) ([]Biomarker, bool) {
	switch name {
	case CategoryBloodCount:
		return b.BloodCount, true
	case CategoryMetabolic:
		return b.Metabolic, true
	case CategoryLipids:
		return b.Lipids, true
	case CategoryVitamins:
		return b.Vitamins, true
	case CategoryThyroid:
		return b.Thyroid, true
	default:
		return nil, false
	}
}

// All concatenates every category, including placeholder entries.
func (b Biomarkers) All() []Biomarker {
	out := make([]Biomarker, 0, len(b.BloodCount)+len(b.Metabolic)+len(b.Lipids)+len(b.Vitamins)+len(b.Thyroid))
	for _, name := range Categories {
		markers, _ := b.Category(name)
		out = append(out, markers...)
	}
	return out
}

type OrganStatus string

const (
	OrganHealthy  OrganStatus = "healthy"
	OrganSlight   OrganStatus = "slight"
	OrganModerate OrganStatus = "moderate"
	OrganCritical OrganStatus = "critical"
	OrganUnknown  OrganStatus = Placeholder
)

// Organ keys the service reports on.
var OrganKeys = []string{"heart", "liver", "kidneys", "thyroid", "pancreas", "blood"}

type Organ struct {
	Status      OrganStatus `json:"status"`
	Score       Number      `json:"score"`
	Description string      `json:"description"`
}

type Probability string

const (
	ProbabilityLow         Probability = "low"
	ProbabilityLowModerate Probability = "low-moderate"
	ProbabilityModerate    Probability = "moderate"
	ProbabilityHigh        Probability = "high"
)

type Risk struct {
	ID              ID          `json:"id"`
	Name            string      `json:"name"`
	Probability     Probability `json:"probability"`
	Score           Number      `json:"score"`
	Description     string      `json:"description"`
	Factors         []string    `json:"factors"`
	Recommendations []string    `json:"recommendations"`
}

type Recommendations struct {
	Lifestyle  Lifestyle `json:"lifestyle"`
	Nutrition  Nutrition `json:"nutrition"`
	Medication []Remedy  `json:"medication"`
}

type Lifestyle struct {
	DailyRoutine []RoutineSlot `json:"dailyRoutine"`
	Exercise     []Exercise    `json:"exercise"`
}

type RoutineSlot struct {
	Time       string   `json:"time"`
	Activities []string `json:"activities"`
}

type Exercise struct {
	Type      string   `json:"type"`
	Frequency string   `json:"frequency"`
	Duration  string   `json:"duration"`
	Examples  []string `json:"examples"`
}

type Nutrition struct {
	Increase    []FoodGroup  `json:"increase"`
	Decrease    []FoodGroup  `json:"decrease"`
	Supplements []Supplement `json:"supplements"`
}

type FoodGroup struct {
	Category string   `json:"category"`
	Reason   string   `json:"reason"`
	Items    []string `json:"items"`
}

// Supplement with Name "-" means no supplement is recommended.
type Supplement struct {
	Name     string `json:"name"`
	Dosage   string `json:"dosage"`
	Timing   string `json:"timing"`
	Duration string `json:"duration"`
}

// Remedy is a home remedy or medication suggestion.
type Remedy struct {
	ID        ID       `json:"id"`
	Name      string   `json:"name"`
	Icon      string   `json:"icon"`
	Color     string   `json:"color"`
	Frequency string   `json:"frequency"`
	Method    string   `json:"method"`
	Benefits  []string `json:"benefits"`
	Reason    string   `json:"reason"`
}

type MonitoringTest struct {
	Test      string `json:"test"`
	Frequency string `json:"frequency"`
	Target    string `json:"target"`
}

// Trends is optional and not shown by default.
type Trends struct {
	Historical  []Snapshot   `json:"historical"`
	Predictions []Prediction `json:"predictions"`
}

// Snapshot is one dated point of the historical series.
type Snapshot struct {
	Date         string `json:"date"`
	OverallScore Number `json:"overallScore"`
	Cholesterol  Number `json:"cholesterol"`
	Glucose      Number `json:"glucose"`
	VitaminD     Number `json:"vitaminD"`
}

type Prediction struct {
	Timeframe     string   `json:"timeframe"`
	ExpectedScore Number   `json:"expectedScore"`
	Improvements  []string `json:"improvements"`
}
