package dashboard

import "medreport/internal/report"

const abnormalMarkerLimit = 5

// QuickStats is the sidebar summary. Counts use the raw lists.
type QuickStats struct {
	OverallScore  report.Number `json:"overallScore"`
	AbnormalCount int           `json:"abnormalCount"`
	HealthyOrgans int           `json:"healthyOrgans"`
	TotalOrgans   int           `json:"totalOrgans"`
	RiskCount     int           `json:"riskCount"`
}

// AbnormalMarkers lists the first measured markers and how many were left out.
type AbnormalMarkers struct {
	Markers []report.Biomarker `json:"markers"`
	More    int                `json:"more"`
}

type Sidebar struct {
	QuickStats      QuickStats      `json:"quickStats"`
	AbnormalMarkers AbnormalMarkers `json:"abnormalMarkers"`
}

// BuildSidebar renders the sidebar for r. A nil result gives zero counts.
func BuildSidebar(r *report.AnalysisResult) Sidebar {
	measured := r.MeasuredBiomarkers()
	sb := Sidebar{
		QuickStats: QuickStats{
			AbnormalCount: r.AbnormalCount(report.CountRaw),
			HealthyOrgans: r.OrganStatusCounts().Healthy,
			TotalOrgans:   len(report.OrganKeys),
			RiskCount:     r.RiskCount(report.CountRaw),
		},
	}
	if r != nil {
		sb.QuickStats.OverallScore = r.OverallHealth.Score
	}

	shown := measured
	if len(shown) > abnormalMarkerLimit {
		shown = shown[:abnormalMarkerLimit]
	}
	sb.AbnormalMarkers = AbnormalMarkers{
		Markers: append([]report.Biomarker{}, shown...),
		More:    len(measured) - len(shown),
	}
	return sb
}
