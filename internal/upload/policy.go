package upload

import (
	"fmt"
	"strings"
	"time"
)

// DestinationFunc resolves the directory a file part is written to.
type DestinationFunc func(fieldName, mimeType string) string

// FilenameFunc generates the name a file part is stored under.
type FilenameFunc func(fieldName, mimeType string, receivedAt time.Time) string

// FilterFunc decides whether a file part is accepted. A nil return accepts it.
type FilterFunc func(fieldName, mimeType string) *FilterError

// Policy bundles the three decisions taken for every file part.
type Policy struct {
	Destination DestinationFunc
	Filename    FilenameFunc
	Filter      FilterFunc
}

// NewImagePolicy returns the policy used for image uploads:
// a fixed destination, timestamped filenames and an image-only filter.
func NewImagePolicy(dir string) Policy {
	return Policy{
		Destination: FixedDestination(dir),
		Filename:    TimestampFilename,
		Filter:      ImageOnlyFilter,
	}
}

// FixedDestination always resolves to dir.
func FixedDestination(dir string) DestinationFunc {
	return func(string, string) string {
		return dir
	}
}

// TimestampFilename builds "{fieldName}-{epochMillis}.{subtype}".
func TimestampFilename(fieldName, mimeType string, receivedAt time.Time) string {
	return fmt.Sprintf("%s-%d.%s", fieldName, receivedAt.UnixMilli(), MimeSubtype(mimeType))
}

// MimeSubtype returns the part of mimeType after the first '/', or "" if there is none.
func MimeSubtype(mimeType string) string {
	_, subtype, found := strings.Cut(mimeType, "/")
	if !found {
		return ""
	}
	return subtype
}

// ImageOnlyFilter accepts parts whose declared MIME type starts with "image/".
func ImageOnlyFilter(_ string, mimeType string) *FilterError {
	if strings.HasPrefix(mimeType, "image/") {
		return nil
	}
	return &FilterError{MimeType: mimeType, Message: WrongFileTypeMessage}
}
