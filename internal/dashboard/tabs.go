package dashboard

// TabID names one dashboard tab.
type TabID string

const (
	TabOverview   TabID = "overview"
	TabBiomarkers TabID = "biomarkers"
	TabOrgans     TabID = "organs"
	TabRisks      TabID = "risks"
	TabLifestyle  TabID = "lifestyle"
	TabMedication TabID = "medication"
	TabTrends     TabID = "trends"
)

// Tab is one entry of the tab bar.
type Tab struct {
	ID      TabID  `json:"id"`
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
}

var tabs = []Tab{
	{ID: TabOverview, Label: "Overview", Enabled: true},
	{ID: TabBiomarkers, Label: "Biomarkers", Enabled: true},
	{ID: TabOrgans, Label: "Organ Health", Enabled: true},
	{ID: TabRisks, Label: "Risk Assessment", Enabled: true},
	{ID: TabLifestyle, Label: "Lifestyle Plan", Enabled: true},
	{ID: TabMedication, Label: "Medication", Enabled: true},
	{ID: TabTrends, Label: "Trends & Progress"},
}

// Tabs returns the tab bar in display order. Trends is listed but disabled
// unless trendsEnabled is set.
func Tabs(trendsEnabled bool) []Tab {
	out := make([]Tab, len(tabs))
	copy(out, tabs)
	for i := range out {
		if out[i].ID == TabTrends {
			out[i].Enabled = trendsEnabled
		}
	}
	return out
}

func lookupTab(id TabID, trendsEnabled bool) (Tab, bool) {
	for _, t := range Tabs(trendsEnabled) {
		if t.ID == id {
			return t, true
		}
	}
	return Tab{}, false
}
