package imagegen

import (
	"context"

	"photoedit/internal/imgutil"
)

// EditRequest is one edit: a validated source image and the user's
// instruction, already trimmed and non-empty.
type EditRequest struct {
	Image  imgutil.Image
	Prompt string
}

// Editor sends an edit to the upstream model and returns its reply as-is.
// Implementations make exactly one attempt per call.
type Editor interface {
	Edit(ctx context.Context, req EditRequest) (*Response, error)
}

// Response is the subset of a generate-content reply the relay reads. Any
// level may be missing.
type Response struct {
	Candidates []*Candidate
	// Text is the concatenated text of the first candidate's text parts.
	Text string
}

type Candidate struct {
	Content      *Content
	FinishReason string
}

type Content struct {
	Parts []*Part
}

type Part struct {
	Text       string
	InlineData *InlineData
}

// InlineData is binary content tagged with a MIME type. Transports that
// receive the payload base64-encoded keep it in Encoded; transports that
// receive raw bytes use Data.
type InlineData struct {
	MIMEType string
	Data     []byte
	Encoded  string
}

// FirstCandidateText joins the text parts of the first candidate the way
// SDK convenience accessors do.
func FirstCandidateText(candidates []*Candidate) string {
	if len(candidates) == 0 || candidates[0] == nil || candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, part := range candidates[0].Content.Parts {
		if part == nil || part.Text == "" {
			continue
		}
		text += part.Text
	}
	return text
}
