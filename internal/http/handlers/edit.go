package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"photoedit/internal/domain"
	"photoedit/internal/imagegen"
	"photoedit/internal/imgutil"
	"photoedit/internal/infra"
	"photoedit/internal/middleware"
	"photoedit/internal/providers/gemini"
)

const multipartMemory = 32 << 20

type editImageResponse struct {
	ImageBase64 string `json:"image_base64"`
}

// EditImage relays one multipart upload to the model and answers with the
// edited image as base64.
func (a *App) EditImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.maxUploadBytes())

	finished := false
	defer func() {
		// Panics are answered by the recover middleware; count them here.
		if !finished {
			a.Metrics.RecordEditResult(domain.KindUnexpected.String())
		}
	}()

	b64, de := a.editImage(r)
	finished = true
	a.Metrics.RecordEditResult(outcome(de))
	if de != nil {
		a.fail(w, r, de)
		return
	}
	a.json(w, http.StatusOK, editImageResponse{ImageBase64: b64})
}

func (a *App) editImage(r *http.Request) (string, *domain.Error) {
	req, de := parseEditRequest(r)
	if de != nil {
		return "", de
	}

	logger := a.Logger.With().
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Logger()
	opts := gemini.OptionsFromConfig(a.config(), a.HTTPClient, &logger)

	editor, err := a.NewEditor(r.Context(), opts)
	if err != nil {
		return "", domain.Configuration(err)
	}

	start := time.Now()
	resp, err := editor.Edit(r.Context(), req)
	a.Metrics.ObserveUpstream(opts.Transport, opts.Model, time.Since(start))
	if err != nil {
		return "", domain.Upstream(err)
	}

	b64, ok := a.Extractor.Extract(resp)
	if !ok {
		return "", domain.ErrNoImage
	}
	return b64, nil
}

// parseEditRequest checks the upload in this order: image part present,
// prompt non-blank, filename non-empty, bytes decode as a raster image.
func parseEditRequest(r *http.Request) (imagegen.EditRequest, *domain.Error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return imagegen.EditRequest{}, domain.ErrMissingImage
	}

	file, header, fileErr := r.FormFile("image")
	if file != nil {
		defer file.Close()
	}
	// A file part sent with an empty filename is parsed as a plain value.
	_, emptyNamed := r.MultipartForm.Value["image"]
	if fileErr != nil && !emptyNamed {
		return imagegen.EditRequest{}, domain.ErrMissingImage
	}

	prompt := strings.TrimSpace(r.PostFormValue("prompt"))
	if prompt == "" {
		return imagegen.EditRequest{}, domain.ErrMissingPrompt
	}

	if fileErr != nil || header == nil || header.Filename == "" {
		return imagegen.EditRequest{}, domain.ErrEmptyFilename
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return imagegen.EditRequest{}, domain.Unexpected(fmt.Errorf("read upload: %w", err))
	}
	img, err := imgutil.Decode(data)
	if err != nil {
		return imagegen.EditRequest{}, domain.ErrInvalidImage
	}
	return imagegen.EditRequest{Image: img, Prompt: prompt}, nil
}

func (a *App) config() *infra.Config {
	if a.Config != nil {
		return a.Config
	}
	return &infra.Config{GeminiModel: infra.DefaultGeminiModel, GeminiBaseURL: infra.DefaultGeminiBaseURL}
}

func (a *App) maxUploadBytes() int64 {
	if a.Config != nil && a.Config.MaxUploadBytes > 0 {
		return a.Config.MaxUploadBytes
	}
	return infra.DefaultMaxUploadBytes
}

func outcome(de *domain.Error) string {
	switch {
	case de == nil:
		return "ok"
	case errors.Is(de, domain.ErrNoImage):
		return "no_image"
	default:
		return de.Kind.String()
	}
}
