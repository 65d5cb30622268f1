package domain

import "net/http"

// Kind classifies a failure by who has to act on it.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindConfiguration
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConfiguration:
		return "configuration"
	case KindUpstream:
		return "upstream"
	default:
		return "unexpected"
	}
}

// Status maps the kind onto the HTTP status returned to the client.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindConfiguration:
		return http.StatusInternalServerError
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Messages returned verbatim to clients.
const (
	MsgMissingImage  = "Missing image file in 'image' field"
	MsgMissingPrompt = "Missing prompt field"
	MsgEmptyFilename = "Empty filename"
	MsgInvalidImage  = "Invalid image file"
	MsgNoImage       = "Model did not return an image. Try rephrasing the instruction."

	prefixConfiguration = "Gemini configuration error: "
	prefixUpstream      = "Gemini API error: "
	prefixUnexpected    = "Unexpected server error: "
)

var (
	ErrMissingImage  = Validation(MsgMissingImage)
	ErrMissingPrompt = Validation(MsgMissingPrompt)
	ErrEmptyFilename = Validation(MsgEmptyFilename)
	ErrInvalidImage  = Validation(MsgInvalidImage)
	ErrNoImage       = &Error{Kind: KindUpstream, Message: MsgNoImage}
)

// Error is the typed failure every request step returns. Message is what the
// client sees; Err keeps the cause for logs and errors.Is.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports a client input problem.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Configuration reports a deployment problem with the upstream setup.
func Configuration(err error) *Error {
	return &Error{Kind: KindConfiguration, Message: prefixConfiguration + detail(err), Err: err}
}

// Upstream reports a failed call to the upstream model.
func Upstream(err error) *Error {
	return &Error{Kind: KindUpstream, Message: prefixUpstream + detail(err), Err: err}
}

// Unexpected wraps anything no step anticipated.
func Unexpected(err error) *Error {
	return &Error{Kind: KindUnexpected, Message: prefixUnexpected + detail(err), Err: err}
}

// UnexpectedMessage is used where only a recovered value is available.
func UnexpectedMessage(msg string) *Error {
	return &Error{Kind: KindUnexpected, Message: prefixUnexpected + msg}
}

func detail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
