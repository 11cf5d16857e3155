// ABOUTME: Web UI server with embedded templates
// ABOUTME: Serves the monitor screens as auto-refreshing pages, JSON snapshots and metrics
package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/harperreed/painel/alert"
	"github.com/harperreed/painel/models"
	"github.com/harperreed/painel/monitor"
	"github.com/harperreed/painel/viz"
)

//go:embed templates/*
var templatesFS embed.FS

// Screen is a running monitor as seen by the web UI.
type Screen interface {
	Kind() monitor.Kind
	Title() string
	Current() monitor.ViewState
	AllViews() []monitor.ViewState
}

// Settings exposes the alert preferences read-only.
type Settings interface {
	AlertMode() (models.AlertMode, error)
	AudioSource() (models.AudioSource, error)
	ContextSounds() (map[models.AlertContext]models.SoundType, error)
	PreferredAudioAsset() (string, bool, error)
	ListAudioAssetNames() ([]string, error)
}

// LastAlert reports the most recent alert decision.
type LastAlert interface {
	Last() (alert.Event, bool)
}

// RefreshSeconds is how often monitor pages reload.
const RefreshSeconds = 3

type Server struct {
	screens   map[monitor.Kind]Screen
	order     []monitor.Kind
	settings  Settings
	alerts    LastAlert
	templates *template.Template
	logger    *zap.Logger
}

// ViewResponse is the JSON body of /api/monitor/{screen}.
type ViewResponse struct {
	monitor.ViewState
	Table viz.Table `json:"table"`
}

// AlertsResponse is the JSON body of /api/alerts.
type AlertsResponse struct {
	Mode      models.AlertMode                         `json:"mode"`
	Source    models.AudioSource                       `json:"source"`
	Sounds    map[models.AlertContext]models.SoundType `json:"context_sounds"`
	Preferred string                                   `json:"preferred_asset,omitempty"`
	Assets    []string                                 `json:"assets"`
	Last      *alert.Event                             `json:"last_alert,omitempty"`
}

func NewServer(screens []Screen, settings Settings, alerts LastAlert, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Helper functions for templates
	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"since": func(t time.Time) string {
			if t.IsZero() {
				return "never"
			}
			return time.Since(t).Round(time.Second).String() + " ago"
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		screens:   make(map[monitor.Kind]Screen, len(screens)),
		settings:  settings,
		alerts:    alerts,
		templates: tmpl,
		logger:    logger,
	}
	for _, sc := range screens {
		s.screens[sc.Kind()] = sc
		s.order = append(s.order, sc.Kind())
	}
	return s, nil
}

// Handler returns the routes of the web UI.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /monitor/{screen}", s.handleMonitor)
	mux.HandleFunc("GET /api/monitor/{screen}", s.handleMonitorAPI)
	mux.HandleFunc("GET /api/alerts", s.handleAlertsAPI)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.logger.Info("starting web server", zap.String("url", "http://localhost"+addr))
	return srv.ListenAndServe()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	type screenLink struct {
		Kind  monitor.Kind
		Title string
		Views []monitor.ViewState
	}
	var links []screenLink
	for _, k := range s.order {
		sc := s.screens[k]
		links = append(links, screenLink{Kind: k, Title: sc.Title(), Views: sc.AllViews()})
	}

	data := map[string]interface{}{
		"Screens":         links,
		"Title":           "Monitors",
		"ContentTemplate": "index-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) screen(w http.ResponseWriter, r *http.Request) (Screen, bool) {
	kind, err := monitor.ParseKind(r.PathValue("screen"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	sc, ok := s.screens[kind]
	if !ok {
		http.Error(w, fmt.Sprintf("monitor %s is not running", kind), http.StatusNotFound)
		return nil, false
	}
	return sc, true
}

func (s *Server) handleMonitor(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.screen(w, r)
	if !ok {
		return
	}
	state := sc.Current()

	data := map[string]interface{}{
		"State":           state,
		"Views":           sc.AllViews(),
		"Table":           viz.Tabulate(state.Data.Value),
		"Status":          viz.DataStatus(state.Data, time.Now()),
		"Title":           sc.Title(),
		"Refresh":         RefreshSeconds,
		"ContentTemplate": "monitor-content",
	}
	if s.alerts != nil {
		if ev, ok := s.alerts.Last(); ok {
			data["LastAlert"] = ev
		}
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleMonitorAPI(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.screen(w, r)
	if !ok {
		return
	}
	state := sc.Current()
	if v := r.URL.Query().Get("view"); v != "" {
		found := false
		for _, st := range sc.AllViews() {
			if string(st.View) == v {
				state, found = st, true
				break
			}
		}
		if !found {
			http.Error(w, fmt.Sprintf("unknown view %q", v), http.StatusNotFound)
			return
		}
	}

	s.writeJSON(w, ViewResponse{ViewState: state, Table: viz.Tabulate(state.Data.Value)})
}

func (s *Server) handleAlertsAPI(w http.ResponseWriter, r *http.Request) {
	if s.settings == nil {
		http.Error(w, "alert settings unavailable", http.StatusServiceUnavailable)
		return
	}

	var resp AlertsResponse
	var err error
	if resp.Mode, err = s.settings.AlertMode(); err != nil {
		s.serverError(w, err)
		return
	}
	if resp.Source, err = s.settings.AudioSource(); err != nil {
		s.serverError(w, err)
		return
	}
	if resp.Sounds, err = s.settings.ContextSounds(); err != nil {
		s.serverError(w, err)
		return
	}
	if resp.Preferred, _, err = s.settings.PreferredAudioAsset(); err != nil {
		s.serverError(w, err)
		return
	}
	if resp.Assets, err = s.settings.ListAudioAssetNames(); err != nil {
		s.serverError(w, err)
		return
	}
	if s.alerts != nil {
		if ev, ok := s.alerts.Last(); ok {
			resp.Last = &ev
		}
	}

	s.writeJSON(w, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to encode response", zap.Error(err))
	}
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", zap.Error(err))
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (s *Server) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	// The data map includes ContentTemplate to specify which content block to render
	err := s.templates.ExecuteTemplate(w, name, data)
	if err != nil {
		s.logger.Error("template error", zap.String("template", name), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
