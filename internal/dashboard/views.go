package dashboard

import (
	"math"
	"strings"

	"medreport/internal/report"
)

// View is the read-only slice of a result one tab renders.
type View interface {
	Tab() TabID
}

type OverviewView struct {
	Score           report.Number `json:"score"`
	ScoreGauge      int           `json:"scoreGauge"`
	Confidence      report.Number `json:"confidence"`
	ConfidenceGauge int           `json:"confidenceGauge"`
	Summary         string        `json:"summary"`
	Concerns        []string      `json:"concerns"`
	AbnormalCount   int           `json:"abnormalCount"`
	RiskCount       int           `json:"riskCount"`
	Improvement     report.Number `json:"improvement"`
	LastCheckup     string        `json:"lastCheckup"`
}

func (OverviewView) Tab() TabID { return TabOverview }

// CategoryCount is one button of the biomarker category filter.
type CategoryCount struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type BiomarkersView struct {
	Categories []CategoryCount    `json:"categories"`
	Selected   string             `json:"selected"`
	Markers    []report.Biomarker `json:"markers"`
}

func (BiomarkersView) Tab() TabID { return TabBiomarkers }

// OrganCard is one organ with its display name and status text.
type OrganCard struct {
	Key         string             `json:"key"`
	Name        string             `json:"name"`
	Status      report.OrganStatus `json:"status"`
	StatusText  string             `json:"statusText"`
	Score       report.Number      `json:"score"`
	Description string             `json:"description"`
}

type OrgansView struct {
	Organs   []OrganCard              `json:"organs"`
	Selected *OrganCard               `json:"selected"`
	Counts   report.OrganStatusCounts `json:"counts"`
}

func (OrgansView) Tab() TabID { return TabOrgans }

// RiskDetail is the expanded card of the selected risk.
type RiskDetail struct {
	report.Risk
	// ReductionPercent is how much following the plan could lower the risk.
	ReductionPercent int `json:"reductionPercent"`
}

type RisksView struct {
	Risks    []report.Risk `json:"risks"`
	Selected *RiskDetail   `json:"selected"`
}

func (RisksView) Tab() TabID { return TabRisks }

type LifestyleView struct {
	DailyRoutine  []report.RoutineSlot    `json:"dailyRoutine"`
	Exercise      []report.Exercise       `json:"exercise"`
	Increase      []report.FoodGroup      `json:"increase"`
	Decrease      []report.FoodGroup      `json:"decrease"`
	Supplements   []report.Supplement     `json:"supplements"`
	NoSupplements bool                    `json:"noSupplements"`
	Monitoring    []report.MonitoringTest `json:"monitoring"`
}

func (LifestyleView) Tab() TabID { return TabLifestyle }

type MedicationView struct {
	Remedies []report.Remedy `json:"remedies"`
	Selected *report.Remedy  `json:"selected"`
}

func (MedicationView) Tab() TabID { return TabMedication }

var categoryLabels = map[string]string{
	CategoryAll:               "All Biomarkers",
	report.CategoryBloodCount: "Blood Count",
	report.CategoryMetabolic:  "Metabolic",
	report.CategoryLipids:     "Lipids",
	report.CategoryVitamins:   "Vitamins",
	report.CategoryThyroid:    "Thyroid",
}

func overviewView(r *report.AnalysisResult) OverviewView {
	oh := r.OverallHealth
	return OverviewView{
		Score:           oh.Score,
		ScoreGauge:      report.ClampPercent(oh.Score),
		Confidence:      oh.Confidence,
		ConfidenceGauge: report.ClampPercent(oh.Confidence),
		Summary:         oh.Summary,
		Concerns:        append([]string{}, oh.Concerns...),
		AbnormalCount:   r.AbnormalCount(report.CountExcludingPlaceholders),
		RiskCount:       r.RiskCount(report.CountRaw),
		Improvement:     oh.Trends.Improvement,
		LastCheckup:     r.User.LastCheckup,
	}
}

func biomarkersView(r *report.AnalysisResult, category string) BiomarkersView {
	all := r.Biomarkers.All()
	counts := []CategoryCount{{ID: CategoryAll, Label: categoryLabels[CategoryAll], Count: len(all)}}
	for _, name := range report.Categories {
		markers, _ := r.Biomarkers.Category(name)
		counts = append(counts, CategoryCount{ID: name, Label: categoryLabels[name], Count: len(markers)})
	}

	markers := all
	if category != CategoryAll {
		if list, ok := r.Biomarkers.Category(category); ok {
			markers = append([]report.Biomarker{}, list...)
		} else {
			category = CategoryAll
		}
	}
	return BiomarkersView{Categories: counts, Selected: category, Markers: markers}
}

func organsView(r *report.AnalysisResult, selected string) OrgansView {
	entries := r.OrganHealth.Entries()
	view := OrgansView{Organs: make([]OrganCard, 0, len(entries)), Counts: r.OrganStatusCounts()}
	for _, e := range entries {
		card := OrganCard{
			Key:         e.Key,
			Name:        capitalize(e.Key),
			Status:      e.Organ.Status,
			StatusText:  organStatusText(e.Organ.Status),
			Score:       e.Organ.Score,
			Description: e.Organ.Description,
		}
		view.Organs = append(view.Organs, card)
		if strings.EqualFold(e.Key, selected) {
			c := card
			view.Selected = &c
		}
	}
	return view
}

func risksView(r *report.AnalysisResult, selected string) RisksView {
	view := RisksView{Risks: r.DisplayRisks()}
	if risk, ok := r.FindRisk(selected); ok {
		view.Selected = &RiskDetail{
			Risk:             risk,
			ReductionPercent: int(math.Round(100 - risk.Score.Float())),
		}
	}
	return view
}

func lifestyleView(r *report.AnalysisResult) LifestyleView {
	rec := r.Recommendations
	supplements := r.DisplaySupplements()
	return LifestyleView{
		DailyRoutine:  append([]report.RoutineSlot{}, rec.Lifestyle.DailyRoutine...),
		Exercise:      append([]report.Exercise{}, rec.Lifestyle.Exercise...),
		Increase:      append([]report.FoodGroup{}, rec.Nutrition.Increase...),
		Decrease:      append([]report.FoodGroup{}, rec.Nutrition.Decrease...),
		Supplements:   supplements,
		NoSupplements: len(supplements) == 0,
		Monitoring:    append([]report.MonitoringTest{}, r.Monitoring...),
	}
}

func medicationView(r *report.AnalysisResult, selected string) MedicationView {
	view := MedicationView{Remedies: append([]report.Remedy{}, r.Recommendations.Medication...)}
	if selected == "" {
		return view
	}
	for _, remedy := range view.Remedies {
		if remedy.ID.String() == selected {
			m := remedy
			view.Selected = &m
			break
		}
	}
	return view
}

func organStatusText(s report.OrganStatus) string {
	switch s {
	case report.OrganHealthy:
		return "Optimal"
	case report.OrganSlight:
		return "Minor Issues"
	case report.OrganModerate:
		return "Needs Attention"
	case report.OrganCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
