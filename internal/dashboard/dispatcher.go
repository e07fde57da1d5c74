package dashboard

import (
	"sync"

	"medreport/internal/report"
)

// Options toggles optional tabs.
type Options struct {
	TrendsEnabled bool
}

// Dispatcher maps the active tab to its view and owns the UI selection of one
// dashboard. It is safe for concurrent use.
type Dispatcher struct {
	trendsEnabled bool

	mu  sync.RWMutex
	sel Selection
}

func NewDispatcher(opts Options) *Dispatcher {
	return &Dispatcher{trendsEnabled: opts.TrendsEnabled, sel: DefaultSelection()}
}

// Tabs returns the tab bar.
func (d *Dispatcher) Tabs() []Tab {
	return Tabs(d.trendsEnabled)
}

// Selection returns the current UI selection.
func (d *Dispatcher) Selection() Selection {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.sel
}

// Update applies u atomically. On error nothing changes.
func (d *Dispatcher) Update(u SelectionUpdate) (Selection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	next, err := d.sel.apply(u, d.trendsEnabled)
	if err != nil {
		return d.sel, err
	}
	d.sel = next
	return next, nil
}

// Reset restores the default selection.
func (d *Dispatcher) Reset() {
	d.mu.Lock()
	d.sel = DefaultSelection()
	d.mu.Unlock()
}

// Render returns the view of tab for result. It reports false for a nil
// result and for unknown or disabled tabs.
func (d *Dispatcher) Render(result *report.AnalysisResult, tab TabID) (View, bool) {
	if result == nil {
		return nil, false
	}
	t, ok := lookupTab(tab, d.trendsEnabled)
	if !ok || !t.Enabled {
		return nil, false
	}
	sel := d.Selection()

	switch t.ID {
	case TabOverview:
		return overviewView(result), true
	case TabBiomarkers:
		return biomarkersView(result, sel.Category), true
	case TabOrgans:
		return organsView(result, sel.Organ), true
	case TabRisks:
		return risksView(result, sel.Risk), true
	case TabLifestyle:
		return lifestyleView(result), true
	case TabMedication:
		return medicationView(result, sel.Remedy), true
	case TabTrends:
		return trendsView(result, sel), true
	default:
		return nil, false
	}
}

// RenderActive renders the currently selected tab.
func (d *Dispatcher) RenderActive(result *report.AnalysisResult) (View, bool) {
	return d.Render(result, d.Selection().Tab)
}
