package handlers

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/bobmcallan/vire-picks/internal/common"
	"github.com/bobmcallan/vire-picks/internal/dashboard"
)

// DashboardHandler serves the recommendation page.
type DashboardHandler struct {
	logger    *common.Logger
	templates *template.Template
	pagesDir  string
	devMode   bool
	renderer  *dashboard.Renderer
}

// NewDashboardHandler creates a new dashboard handler. Templates are parsed
// once; in dev mode they are re-parsed on every request.
func NewDashboardHandler(logger *common.Logger, renderer *dashboard.Renderer, pagesDir string, devMode bool) *DashboardHandler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &DashboardHandler{
		logger:    logger,
		templates: template.Must(ParseTemplates(pagesDir)),
		pagesDir:  pagesDir,
		devMode:   devMode,
		renderer:  renderer,
	}
}

// ServeHTTP renders the dashboard. The selector submits ?pick={code} - {name};
// ?code= is accepted for direct links.
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	key := q.Get("pick")
	if key == "" {
		key = q.Get("code")
	}
	page, err := h.renderer.Render(key)
	if err != nil {
		h.logger.Error().Str("pick", key).Err(err).Msg("failed to build dashboard")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	templates := h.templates
	if h.devMode {
		if templates, err = ParseTemplates(h.pagesDir); err != nil {
			h.logger.Error().Err(err).Msg("failed to reload templates")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "dashboard.html", page); err != nil {
		h.logger.Error().Str("template", "dashboard.html").Err(err).Msg("failed to render dashboard")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}
