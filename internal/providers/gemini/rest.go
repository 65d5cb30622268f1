package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"photoedit/internal/imagegen"
)

// RESTEditor calls the generateContent endpoint directly. Inline payloads
// arrive base64-encoded and are passed on without re-encoding.
type RESTEditor struct {
	opts Options
}

func newRESTEditor(o Options) *RESTEditor {
	return &RESTEditor{opts: o}
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type geminiGenerateContentRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content      *geminiContent `json:"content,omitempty"`
	FinishReason string         `json:"finishReason,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates []*geminiCandidate `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// Edit sends the composed instruction and the image as one user turn.
func (e *RESTEditor) Edit(ctx context.Context, req imagegen.EditRequest) (*imagegen.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	logRequest(e.opts.Logger, e.opts, req)

	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{Text: imagegen.BuildInstruction(req.Prompt)},
				{InlineData: &geminiInlineData{
					MimeType: req.Image.MIMEType,
					Data:     base64.StdEncoding.EncodeToString(req.Image.Data),
				}},
			},
		}},
		GenerationConfig: &geminiGenerationConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		},
	}

	var response geminiGenerateContentResponse
	path := fmt.Sprintf("/models/%s:generateContent", url.PathEscape(e.opts.Model))
	if err := e.invoke(ctx, path, payload, &response); err != nil {
		return nil, err
	}
	return fromRESTResponse(&response), nil
}

func (e *RESTEditor) invoke(ctx context.Context, path string, payload any, out any) error {
	endpoint := e.opts.BaseURL + path
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", e.opts.APIKey)

	resp, err := e.opts.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke gemini: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		var apiErr geminiErrorResponse
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("gemini status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		if text := strings.TrimSpace(string(data)); text != "" {
			return fmt.Errorf("gemini status %d: %s", resp.StatusCode, text)
		}
		return fmt.Errorf("gemini status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}

func fromRESTResponse(resp *geminiGenerateContentResponse) *imagegen.Response {
	out := &imagegen.Response{}
	for _, c := range resp.Candidates {
		if c == nil {
			out.Candidates = append(out.Candidates, nil)
			continue
		}
		candidate := &imagegen.Candidate{FinishReason: c.FinishReason}
		if c.Content != nil {
			content := &imagegen.Content{}
			for _, p := range c.Content.Parts {
				part := &imagegen.Part{Text: p.Text}
				if p.InlineData != nil {
					part.InlineData = &imagegen.InlineData{
						MIMEType: p.InlineData.MimeType,
						Encoded:  p.InlineData.Data,
					}
				}
				content.Parts = append(content.Parts, part)
			}
			candidate.Content = content
		}
		out.Candidates = append(out.Candidates, candidate)
	}
	out.Text = imagegen.FirstCandidateText(out.Candidates)
	return out
}
