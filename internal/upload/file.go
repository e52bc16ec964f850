package upload

// UploadedFile describes one file received for one request.
type UploadedFile struct {
	FieldName     string
	OriginalName  string
	Encoding      string
	MimeType      string
	Destination   string
	GeneratedName string
	StoragePath   string
	Size          int64
}
