package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"photoedit/internal/domain"
	"photoedit/internal/imagegen"
	"photoedit/internal/infra"
	"photoedit/internal/middleware"
	"photoedit/internal/providers/gemini"
)

// EditorFactory builds an editor from per-request options.
type EditorFactory func(ctx context.Context, opts gemini.Options) (imagegen.Editor, error)

// App carries what handlers need. It holds no per-request state.
type App struct {
	Config     *infra.Config
	Logger     infra.Logger
	Metrics    *infra.Metrics
	HTTPClient *http.Client
	NewEditor  EditorFactory
	Extractor  imagegen.Extractor
}

// NewApp wires the production editor factory.
func NewApp(cfg *infra.Config, logger infra.Logger, metrics *infra.Metrics) *App {
	return &App{
		Config:     cfg,
		Logger:     logger,
		Metrics:    metrics,
		HTTPClient: &http.Client{},
		NewEditor:  gemini.NewEditor,
		Extractor:  imagegen.Extractor{DisableDataURL: !cfg.DataURLFallback},
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// fail logs according to the error kind and writes the JSON error body.
func (a *App) fail(w http.ResponseWriter, r *http.Request, de *domain.Error) {
	evt := a.Logger.Debug()
	switch de.Kind {
	case domain.KindUpstream:
		evt = a.Logger.Warn()
	case domain.KindConfiguration, domain.KindUnexpected:
		evt = a.Logger.Error()
	}
	if de.Err != nil {
		evt = evt.Err(de.Err)
	}
	evt.Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Str("kind", de.Kind.String()).
		Int("status", de.Kind.Status()).
		Msg(de.Message)

	a.json(w, de.Kind.Status(), errorResponse{Error: de.Message})
}
