package upload

import "fmt"

const (
	// WrongFileTypeMessage is returned to the client when the content-type filter rejects a file.
	WrongFileTypeMessage = "Wrong file type, please select an image."
	// TooBigMessage is returned to the client for every parser failure.
	TooBigMessage = "Your image is probably too big"
)

// Parser error codes
const (
	CodeFileSize       = "LIMIT_FILE_SIZE"
	CodeFieldValue     = "LIMIT_FIELD_VALUE"
	CodeUnexpectedFile = "LIMIT_UNEXPECTED_FILE"
	CodeMalformed      = "MALFORMED_MULTIPART"
)

// Error is the closed set of failures an upload can end in.
// It is implemented by *ParserError and *FilterError only.
type Error interface {
	error
	// ResponseBody is the text sent to the client.
	ResponseBody() string
	sealed()
}

// ParserError is raised while reading the multipart body.
type ParserError struct {
	Code  string
	Field string
	Err   error
}

func (e *ParserError) Error() string {
	msg := fmt.Sprintf("multipart parser: %s", e.Code)
	if e.Field != "" {
		msg += fmt.Sprintf(" (field %q)", e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParserError) Unwrap() error { return e.Err }

func (e *ParserError) ResponseBody() string { return TooBigMessage }

func (e *ParserError) sealed() {}

// FilterError is raised when the declared MIME type of a part is not accepted.
type FilterError struct {
	MimeType string
	Message  string
}

func (e *FilterError) Error() string { return e.Message }

func (e *FilterError) ResponseBody() string { return e.Message }

func (e *FilterError) sealed() {}
