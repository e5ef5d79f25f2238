package rest

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/vaultpay/fraud-inference/internal/domain/port"
)

//go:embed templates/*.html
var templateFS embed.FS

// DashboardHandler renders the browser-facing prediction form.
type DashboardHandler struct {
	templates *template.Template
	mdl       port.Model
	logger    *slog.Logger
}

// NewDashboardHandler parses the embedded templates and creates the handler.
func NewDashboardHandler(mdl port.Model, logger *slog.Logger) (*DashboardHandler, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &DashboardHandler{
		templates: templates,
		mdl:       mdl,
		logger:    logger,
	}, nil
}

// RegisterRoutes registers the dashboard on the provided ServeMux.
func (h *DashboardHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Home)
}

// Home renders the prediction form, or an error page while the model
// runs degraded.
func (h *DashboardHandler) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if !h.mdl.Ready() {
		w.WriteHeader(http.StatusInternalServerError)
		data := map[string]string{
			"Message": "Server Error: Model failed to load. Please check logs.",
		}
		if err := h.templates.ExecuteTemplate(w, "error.html", data); err != nil {
			h.logger.Error("failed to render error page", slog.String("error", err.Error()))
		}
		return
	}

	data := map[string]string{
		"ModelVersion": h.mdl.Version(),
	}
	if err := h.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		h.logger.Error("failed to render dashboard", slog.String("error", err.Error()))
	}
}
