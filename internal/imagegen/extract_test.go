package imagegen

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func inlinePart(mime string, data []byte) *Part {
	return &Part{InlineData: &InlineData{MIMEType: mime, Data: data}}
}

func TestExtractImage(t *testing.T) {
	raw := []byte("\x89PNG fake bytes")

	tests := []struct {
		name   string
		resp   *Response
		want   string
		wantOK bool
	}{
		{
			name:   "nil response",
			resp:   nil,
			wantOK: false,
		},
		{
			name: "raw bytes are base64 encoded",
			resp: &Response{Candidates: []*Candidate{{
				Content: &Content{Parts: []*Part{inlinePart("image/png", raw)}},
			}}},
			want:   base64.StdEncoding.EncodeToString(raw),
			wantOK: true,
		},
		{
			name: "encoded payload used verbatim",
			resp: &Response{Candidates: []*Candidate{{
				Content: &Content{Parts: []*Part{{InlineData: &InlineData{MIMEType: "image/jpeg", Encoded: "QUJD"}}}},
			}}},
			want:   "QUJD",
			wantOK: true,
		},
		{
			name: "skips text and non-image parts",
			resp: &Response{Candidates: []*Candidate{{
				Content: &Content{Parts: []*Part{
					{Text: "here you go"},
					inlinePart("application/json", []byte("{}")),
					inlinePart("image/webp", []byte("second")),
				}},
			}}},
			want:   base64.StdEncoding.EncodeToString([]byte("second")),
			wantOK: true,
		},
		{
			name: "first candidate wins",
			resp: &Response{Candidates: []*Candidate{
				{Content: &Content{Parts: []*Part{inlinePart("image/png", []byte("one"))}}},
				{Content: &Content{Parts: []*Part{inlinePart("image/png", []byte("two"))}}},
			}},
			want:   base64.StdEncoding.EncodeToString([]byte("one")),
			wantOK: true,
		},
		{
			name: "nil candidate and nil content are skipped",
			resp: &Response{Candidates: []*Candidate{
				nil,
				{Content: nil},
				{Content: &Content{Parts: []*Part{nil, {InlineData: nil}, inlinePart("image/png", []byte("ok"))}}},
			}},
			want:   base64.StdEncoding.EncodeToString([]byte("ok")),
			wantOK: true,
		},
		{
			name: "empty image part moves on to the next candidate",
			resp: &Response{Candidates: []*Candidate{
				{Content: &Content{Parts: []*Part{inlinePart("image/png", nil), inlinePart("image/png", []byte("A"))}}},
				{Content: &Content{Parts: []*Part{inlinePart("image/png", []byte("B"))}}},
			}},
			want:   base64.StdEncoding.EncodeToString([]byte("B")),
			wantOK: true,
		},
		{
			name: "empty image part in the only candidate",
			resp: &Response{Candidates: []*Candidate{{
				Content: &Content{Parts: []*Part{inlinePart("image/png", nil), inlinePart("image/png", []byte("A"))}},
			}}},
			wantOK: false,
		},
		{
			name:   "data url fallback",
			resp:   &Response{Text: "data:image/png;base64,ZZZ"},
			want:   "ZZZ",
			wantOK: true,
		},
		{
			name:   "data url keeps later commas",
			resp:   &Response{Text: "data:image/png;base64,AA,BB"},
			want:   "AA,BB",
			wantOK: true,
		},
		{
			name: "inline data beats data url",
			resp: &Response{
				Candidates: []*Candidate{{Content: &Content{Parts: []*Part{inlinePart("image/png", []byte("inline"))}}}},
				Text:       "data:image/png;base64,ZZZ",
			},
			want:   base64.StdEncoding.EncodeToString([]byte("inline")),
			wantOK: true,
		},
		{
			name:   "data url without comma",
			resp:   &Response{Text: "data:image/png;base64"},
			wantOK: false,
		},
		{
			name:   "plain text",
			resp:   &Response{Text: "I cannot edit this image."},
			wantOK: false,
		},
		{
			name:   "no candidates no text",
			resp:   &Response{},
			wantOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractImage(tc.resp)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractorDisableDataURL(t *testing.T) {
	resp := &Response{Text: "data:image/png;base64,ZZZ"}

	got, ok := Extractor{DisableDataURL: true}.Extract(resp)
	assert.False(t, ok)
	assert.Empty(t, got)

	resp.Candidates = []*Candidate{{Content: &Content{Parts: []*Part{inlinePart("image/png", []byte("x"))}}}}
	got, ok = Extractor{DisableDataURL: true}.Extract(resp)
	assert.True(t, ok)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("x")), got)
}

func TestFirstCandidateText(t *testing.T) {
	candidates := []*Candidate{
		{Content: &Content{Parts: []*Part{{Text: "data:image/png;"}, inlinePart("image/png", nil), {Text: "base64,AAA"}}}},
		{Content: &Content{Parts: []*Part{{Text: "ignored"}}}},
	}
	assert.Equal(t, "data:image/png;base64,AAA", FirstCandidateText(candidates))
	assert.Equal(t, "", FirstCandidateText(nil))
	assert.Equal(t, "", FirstCandidateText([]*Candidate{nil}))
}
