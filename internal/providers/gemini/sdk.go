package gemini

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"google.golang.org/genai"

	"photoedit/internal/imagegen"
)

// SDKEditor calls the model through the official Go SDK.
type SDKEditor struct {
	client *genai.Client
	opts   Options
}

func newSDKEditor(ctx context.Context, o Options) (*SDKEditor, error) {
	root, version := splitAPIVersion(o.BaseURL)
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     o.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: o.HTTPClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    root,
			APIVersion: version,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &SDKEditor{client: client, opts: o}, nil
}

// Edit sends the composed instruction and the image as one user turn.
func (e *SDKEditor) Edit(ctx context.Context, req imagegen.EditRequest) (*imagegen.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	logRequest(e.opts.Logger, e.opts, req)

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(imagegen.BuildInstruction(req.Prompt)),
			genai.NewPartFromBytes(req.Image.Data, req.Image.MIMEType),
		}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	resp, err := e.client.Models.GenerateContent(ctx, e.opts.Model, contents, config)
	if err != nil {
		return nil, err
	}
	return fromSDKResponse(resp), nil
}

func fromSDKResponse(resp *genai.GenerateContentResponse) *imagegen.Response {
	out := &imagegen.Response{}
	if resp == nil {
		return out
	}
	for _, c := range resp.Candidates {
		if c == nil {
			out.Candidates = append(out.Candidates, nil)
			continue
		}
		candidate := &imagegen.Candidate{FinishReason: string(c.FinishReason)}
		if c.Content != nil {
			content := &imagegen.Content{}
			for _, p := range c.Content.Parts {
				if p == nil {
					continue
				}
				part := &imagegen.Part{Text: p.Text}
				if p.InlineData != nil {
					part.InlineData = &imagegen.InlineData{
						MIMEType: p.InlineData.MIMEType,
						Data:     p.InlineData.Data,
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

// splitAPIVersion turns ".../v1beta" into the SDK's separate base URL and
// API version.
func splitAPIVersion(baseURL string) (string, string) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return ensureSlash(baseURL), ""
	}
	path := strings.TrimRight(u.Path, "/")
	idx := strings.LastIndex(path, "/")
	last := path[idx+1:]
	if !strings.HasPrefix(last, "v1") {
		return ensureSlash(baseURL), ""
	}
	u.Path = path[:idx]
	return ensureSlash(u.String()), last
}

func ensureSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}
