package report

// CountMode selects whether placeholder entries take part in a count.
type CountMode int

const (
	// CountExcludingPlaceholders drops "-" entries before counting.
	CountExcludingPlaceholders CountMode = iota
	// CountRaw counts the list as received.
	CountRaw
)

// MeasuredBiomarkers returns every marker across categories whose status is not "-".
func (r *AnalysisResult) MeasuredBiomarkers() []Biomarker {
	if r == nil {
		return []Biomarker{}
	}
	all := r.Biomarkers.All()
	out := make([]Biomarker, 0, len(all))
	for _, m := range all {
		if m.Status == BiomarkerUnknown {
			continue
		}
		out = append(out, m)
	}
	return out
}

// AbnormalCount counts markers whose status is set and is not "normal".
// Placeholders are always excluded; markers with an empty status are only
// counted in CountRaw mode, which is what the sidebar shows.
func (r *AnalysisResult) AbnormalCount(mode CountMode) int {
	n := 0
	for _, m := range r.MeasuredBiomarkers() {
		if m.Status == BiomarkerNormal {
			continue
		}
		if m.Status == "" && mode != CountRaw {
			continue
		}
		n++
	}
	return n
}

// OrganStatusCounts tallies organs by status. Placeholders fall in no bucket.
type OrganStatusCounts struct {
	Healthy  int `json:"healthy"`
	Slight   int `json:"slight"`
	Moderate int `json:"moderate"`
	Critical int `json:"critical"`
}

func (r *AnalysisResult) OrganStatusCounts() OrganStatusCounts {
	var c OrganStatusCounts
	if r == nil {
		return c
	}
	for _, e := range r.OrganHealth.Entries() {
		switch e.Organ.Status {
		case OrganHealthy:
			c.Healthy++
		case OrganSlight:
			c.Slight++
		case OrganModerate:
			c.Moderate++
		case OrganCritical:
			c.Critical++
		}
	}
	return c
}

// DisplayRisks drops placeholder risks (name "-").
func (r *AnalysisResult) DisplayRisks() []Risk {
	if r == nil {
		return []Risk{}
	}
	out := make([]Risk, 0, len(r.Risks))
	for _, risk := range r.Risks {
		if risk.Name == Placeholder {
			continue
		}
		out = append(out, risk)
	}
	return out
}

// RiskCount is the "Identified Risks" counter.
func (r *AnalysisResult) RiskCount(mode CountMode) int {
	if r == nil {
		return 0
	}
	if mode == CountRaw {
		return len(r.Risks)
	}
	return len(r.DisplayRisks())
}

// FindRisk looks a risk up by id among all risks.
func (r *AnalysisResult) FindRisk(id string) (Risk, bool) {
	if r == nil || id == "" {
		return Risk{}, false
	}
	for _, risk := range r.Risks {
		if risk.ID.String() == id {
			return risk, true
		}
	}
	return Risk{}, false
}

// DisplaySupplements drops the "-" no-recommendation entries.
func (r *AnalysisResult) DisplaySupplements() []Supplement {
	if r == nil {
		return []Supplement{}
	}
	in := r.Recommendations.Nutrition.Supplements
	out := make([]Supplement, 0, len(in))
	for _, s := range in {
		if s.Name == Placeholder {
			continue
		}
		out = append(out, s)
	}
	return out
}
