package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"photoedit/internal/imagegen"
	"photoedit/internal/infra"
)

const (
	TransportSDK  = "sdk"
	TransportREST = "rest"

	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.5-flash-preview"
	defaultTimeout = 120 * time.Second
)

// ErrMissingAPIKey is reported when no key was configured.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set.")

// Options configures one editor. It is a plain value built for each request,
// so nothing about the upstream setup is shared between requests.
type Options struct {
	APIKey    string
	Model     string
	BaseURL   string
	Transport string
	Timeout   time.Duration
	// HTTPClient is shared by callers; http.Client is safe for concurrent use.
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// OptionsFromConfig derives editor options from the service configuration.
func OptionsFromConfig(cfg *infra.Config, client *http.Client, logger *infra.Logger) Options {
	return Options{
		APIKey:     cfg.GeminiAPIKey,
		Model:      cfg.GeminiModel,
		BaseURL:    cfg.GeminiBaseURL,
		Transport:  cfg.GeminiTransport,
		Timeout:    cfg.GeminiTimeout,
		HTTPClient: client,
		Logger:     logger,
	}
}

// normalize fills defaults and rejects options no transport can work with.
func (o Options) normalize() (Options, error) {
	o.APIKey = strings.TrimSpace(o.APIKey)
	if o.APIKey == "" {
		return o, ErrMissingAPIKey
	}
	o.Model = strings.TrimSpace(o.Model)
	if o.Model == "" {
		o.Model = defaultModel
	}
	o.BaseURL = strings.TrimRight(strings.TrimSpace(o.BaseURL), "/")
	if o.BaseURL == "" {
		o.BaseURL = defaultBaseURL
	}
	o.Transport = strings.ToLower(strings.TrimSpace(o.Transport))
	if o.Transport == "" {
		o.Transport = TransportSDK
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{}
	}
	if o.Logger == nil {
		discard := infra.NopLogger()
		o.Logger = &discard
	}
	return o, nil
}

// NewEditor validates opts and builds the editor for the selected transport.
func NewEditor(ctx context.Context, opts Options) (imagegen.Editor, error) {
	o, err := opts.normalize()
	if err != nil {
		return nil, err
	}
	switch o.Transport {
	case TransportSDK:
		return newSDKEditor(ctx, o)
	case TransportREST:
		return newRESTEditor(o), nil
	default:
		return nil, fmt.Errorf("unsupported gemini transport %q", o.Transport)
	}
}

func logRequest(logger *infra.Logger, o Options, req imagegen.EditRequest) {
	logger.Debug().
		Str("transport", o.Transport).
		Str("model", o.Model).
		Str("mime", req.Image.MIMEType).
		Int("bytes", len(req.Image.Data)).
		Msg("gemini: sending edit request")
}
