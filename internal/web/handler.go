package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"medreport/internal/dashboard"
	"medreport/internal/report"
	"medreport/internal/session"
	"medreport/internal/shared/server/middleware"
	"medreport/internal/shared/server/respond"
	"medreport/internal/upload"
)

// multipart framing allowance on top of the file limit
const formOverhead = 1 << 20

// Handler exposes upload and dashboard routes for the caller's session.
type Handler struct {
	Sessions       *session.Registry
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(sessions *session.Registry, maxUploadBytes int64) *Handler {
	return &Handler{Sessions: sessions, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches report and dashboard routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reports", h.submit)
	rg.GET("/dashboard", h.dashboard)
	rg.GET("/dashboard/tabs/:tab", h.tab)
	rg.PUT("/dashboard/selection", h.selection)
	rg.POST("/dashboard/chat", h.sendChat)
	rg.GET("/dashboard/chat", h.chat)
	rg.DELETE("/session", h.clear)
}

func (h *Handler) session(c *gin.Context) *session.Session {
	return h.Sessions.Get(c.Request.Context(), middleware.SessionIDFromContext(c))
}

func (h *Handler) submit(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes+formOverhead)
	}

	file, err := h.readFile(c)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusBadRequest, "validation_error", upload.MsgTooLarge, gin.H{"reason": upload.ReasonTooLarge})
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", upload.MsgNoFile, gin.H{"reason": upload.ReasonNoFile})
		return
	}

	sess := h.session(c)
	out, err := sess.Controller.Submit(c.Request.Context(), file)
	c.Set(middleware.ReportKindKey, string(out.Kind))
	c.Set(middleware.OutcomeKey, string(out.State))
	if err == nil {
		respond.OK(c, submitResponse{Outcome: out, Redirect: DashboardPath})
		return
	}

	var (
		validation *upload.ValidationError
		service    *upload.ServiceError
		transport  *upload.TransportError
	)
	switch {
	case errors.Is(err, upload.ErrSubmitInFlight):
		respond.Error(c, http.StatusConflict, "submit_in_flight", "An upload is already being analyzed", nil)
	case errors.As(err, &validation):
		respond.Error(c, http.StatusBadRequest, "validation_error", validation.Message, gin.H{"reason": validation.Reason})
	case errors.Is(err, upload.ErrDomainRejected):
		respond.Error(c, http.StatusUnprocessableEntity, "domain_rejected", out.Notice, out)
	case errors.As(err, &service):
		respond.Error(c, http.StatusBadGateway, "analysis_failed", out.Notice, out)
	case errors.Is(err, report.ErrMalformedResponse):
		respond.Error(c, http.StatusBadGateway, "malformed_response", out.Notice, out)
	case errors.As(err, &transport):
		respond.Error(c, http.StatusBadGateway, "analysis_unavailable", out.Notice, out)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", out.Notice, nil)
	}
}

// readFile pulls the "file" form field. A missing field yields a nil file so
// the controller reports it the same way as an empty selection.
func (h *Handler) readFile(c *gin.Context) (*upload.File, error) {
	fileHeader, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &upload.File{
		Name:      fileHeader.Filename,
		MediaType: fileHeader.Header.Get("Content-Type"),
		Data:      data,
	}, nil
}

func (h *Handler) dashboard(c *gin.Context) {
	sess := h.session(c)
	result, ok := sess.Store.Get()
	if !ok {
		respondNoAnalysis(c)
		return
	}

	view, _ := sess.Dashboard.RenderActive(result)
	resp := dashboardResponse{
		SessionID: sess.ID,
		Rejected:  result.Rejected(),
		User:      result.User,
		Report:    result.Report,
		Tabs:      sess.Dashboard.Tabs(),
		Selection: sess.Dashboard.Selection(),
		Sidebar:   dashboard.BuildSidebar(result),
		View:      view,
	}
	if resp.Rejected {
		resp.Notice = result.RejectionMessage()
	}
	respond.OK(c, resp)
}

func (h *Handler) tab(c *gin.Context) {
	tab := c.Param("tab")
	c.Set(middleware.TabKey, tab)

	sess := h.session(c)
	result, ok := sess.Store.Get()
	if !ok {
		respondNoAnalysis(c)
		return
	}
	// Unknown tabs render nothing rather than failing.
	view, _ := sess.Dashboard.Render(result, dashboard.TabID(tab))
	respond.OK(c, tabResponse{Tab: tab, View: view})
}

func (h *Handler) selection(c *gin.Context) {
	var req dashboard.SelectionUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	sel, err := h.session(c).Dashboard.Update(req)
	if err != nil {
		var selErr *dashboard.SelectionError
		if errors.As(err, &selErr) {
			respond.Error(c, http.StatusBadRequest, "invalid_selection", err.Error(), gin.H{"field": selErr.Field})
			return
		}
		respond.Error(c, http.StatusBadRequest, "invalid_selection", err.Error(), nil)
		return
	}
	respond.OK(c, sel)
}

func (h *Handler) sendChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	msg, err := h.session(c).Assistant.Send(req.Text)
	if err != nil {
		switch {
		case errors.Is(err, dashboard.ErrEmptyMessage):
			respond.Error(c, http.StatusBadRequest, "validation_error", "text is required", nil)
		default:
			respond.Error(c, http.StatusConflict, "chat_closed", err.Error(), nil)
		}
		return
	}
	respond.Accepted(c, msg)
}

func (h *Handler) chat(c *gin.Context) {
	respond.OK(c, chatResponse{Messages: h.session(c).Assistant.Messages()})
}

func (h *Handler) clear(c *gin.Context) {
	sess := h.session(c)
	sess.Dashboard.Reset()
	if err := sess.Store.Clear(c.Request.Context()); err != nil {
		respond.Error(c, http.StatusInternalServerError, "session_clear_failed", "failed to clear session", err.Error())
		return
	}
	respond.NoContent(c)
}

func respondNoAnalysis(c *gin.Context) {
	respond.Error(c, http.StatusNotFound, "no_analysis", "No analysis available. Upload a report first.", nil)
}
