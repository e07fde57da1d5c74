package web

import (
	"medreport/internal/dashboard"
	"medreport/internal/report"
	"medreport/internal/upload"
)

// DashboardPath is where the client goes after a successful upload.
const DashboardPath = "/dashboard"

type submitResponse struct {
	Outcome  upload.Outcome `json:"outcome"`
	Redirect string         `json:"redirect,omitempty"`
}

type dashboardResponse struct {
	SessionID string              `json:"sessionId"`
	Rejected  bool                `json:"rejected"`
	Notice    string              `json:"notice,omitempty"`
	User      report.User         `json:"user"`
	Report    report.ReportInfo   `json:"report"`
	Tabs      []dashboard.Tab     `json:"tabs"`
	Selection dashboard.Selection `json:"selection"`
	Sidebar   dashboard.Sidebar   `json:"sidebar"`
	View      dashboard.View      `json:"view"`
}

type tabResponse struct {
	Tab  string         `json:"tab"`
	View dashboard.View `json:"view"`
}

type chatRequest struct {
	Text string `json:"text"`
}

type chatResponse struct {
	Messages []dashboard.Message `json:"messages"`
}
