package core

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jo-hoe/imageupload/internal/imageinfo"
	"github.com/jo-hoe/imageupload/internal/upload"
)

type CoreService struct {
	config   *ServiceConfig
	receiver *upload.Receiver
}

func NewCoreService(config *ServiceConfig) *CoreService {
	return &CoreService{
		config:   config,
		receiver: newReceiver(config),
	}
}

// WithClock replaces the time source used for upload filenames.
func (service *CoreService) WithClock(now func() time.Time) *CoreService {
	service.receiver.WithClock(now)
	return service
}

// ReceiveUpload stores the image part of req, if any, and logs what was received.
// A nil file with a nil error means the request carried no file.
func (service *CoreService) ReceiveUpload(req *http.Request) (*upload.UploadedFile, error) {
	file, err := service.receiver.Receive(req)
	if err != nil || file == nil {
		return nil, err
	}

	service.logReceivedFile(file)
	return file, nil
}

func (service *CoreService) logReceivedFile(file *upload.UploadedFile) {
	attrs := []any{
		"fieldname", file.FieldName,
		"originalname", file.OriginalName,
		"encoding", file.Encoding,
		"mimetype", file.MimeType,
		"destination", file.Destination,
		"filename", file.GeneratedName,
		"path", file.StoragePath,
		"size", file.Size,
	}

	// dimensions are informational only, the declared type already decided acceptance
	info, err := imageinfo.Inspect(file.StoragePath)
	if err != nil {
		slog.Debug("uploaded file is not a decodable image", "path", file.StoragePath, "error", err)
	} else {
		attrs = append(attrs, "format", info.Format, "width", info.Width, "height", info.Height)
	}

	slog.Info("received file", attrs...)
}

func newReceiver(config *ServiceConfig) *upload.Receiver {
	policy := upload.NewImagePolicy(config.UploadDir)
	return upload.NewReceiver(config.FieldName, policy, config.MaxFileSize, config.MaxFieldSize)
}
