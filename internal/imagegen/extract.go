package imagegen

import (
	"encoding/base64"
	"strings"
)

const dataURLPrefix = "data:image"

// Extractor pulls a base64 image out of an upstream response. The zero value
// tries inline data first and then a data URL in the response text.
type Extractor struct {
	// DisableDataURL turns off the text fallback, which the upstream API does
	// not document.
	DisableDataURL bool
}

// Extract returns the first image found, or ok == false when the response
// carries none.
func (e Extractor) Extract(resp *Response) (string, bool) {
	if b64, ok := FromInlineData(resp); ok {
		return b64, true
	}
	if e.DisableDataURL {
		return "", false
	}
	return FromDataURL(resp)
}

// ExtractImage runs the default extractor.
func ExtractImage(resp *Response) (string, bool) {
	return Extractor{}.Extract(resp)
}

// FromInlineData walks candidates in order and looks at the first image/*
// part of each. Already encoded payloads are returned verbatim; raw bytes are
// base64-encoded. An empty first image part ends the search in that
// candidate.
func FromInlineData(resp *Response) (string, bool) {
	if resp == nil {
		return "", false
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.InlineData == nil {
				continue
			}
			inline := part.InlineData
			if !strings.HasPrefix(inline.MIMEType, "image/") {
				continue
			}
			if inline.Encoded != "" {
				return inline.Encoded, true
			}
			if len(inline.Data) > 0 {
				return base64.StdEncoding.EncodeToString(inline.Data), true
			}
			break
		}
	}
	return "", false
}

// FromDataURL returns whatever follows the first comma when the response
// text is a data:image URL.
func FromDataURL(resp *Response) (string, bool) {
	if resp == nil || !strings.HasPrefix(resp.Text, dataURLPrefix) {
		return "", false
	}
	_, payload, found := strings.Cut(resp.Text, ",")
	if !found || payload == "" {
		return "", false
	}
	return payload, true
}
