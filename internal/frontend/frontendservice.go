package frontend

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jo-hoe/imageupload/internal/core"
	"github.com/jo-hoe/imageupload/internal/upload"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	MainPageName = "index.html"
	UploadPath   = "/upload"
)

type indexData struct {
	FieldName string
}

type FrontendService struct {
	coreService *core.CoreService
	config      *core.ServiceConfig
}

func NewFrontendService(config *core.ServiceConfig, coreService *core.CoreService) *FrontendService {
	return &FrontendService{
		coreService: coreService,
		config:      config,
	}
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	e.Renderer = newTemplate()

	// Files under the public directory take precedence over routes, like a static file server in front of the app
	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Skipper: func(c echo.Context) bool {
			method := c.Request().Method
			if method != http.MethodGet && method != http.MethodHead {
				return true
			}
			return isHiddenPath(c.Request().URL.Path)
		},
		Root:  service.config.PublicDir,
		Index: service.config.IndexPage,
	}))

	e.GET("/", service.indexHandler)
	e.POST(UploadPath, service.uploadHandler)
}

func (service *FrontendService) indexHandler(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, MainPageName, indexData{FieldName: service.config.FieldName})
}

// uploadHandler answers with a redirect to the index page, unless the upload was rejected.
// Rejections are reported with status 200 and a plain text body.
func (service *FrontendService) uploadHandler(ctx echo.Context) error {
	file, err := service.coreService.ReceiveUpload(ctx.Request())

	var uploadErr upload.Error
	if errors.As(err, &uploadErr) {
		slog.Warn("uploadHandler: upload rejected", "error", err)
		return ctx.String(http.StatusOK, uploadErr.ResponseBody())
	}
	if err != nil {
		slog.Error("uploadHandler: failed to store uploaded file",
			"status", http.StatusInternalServerError, "error", err)
		return err
	}

	if file == nil {
		slog.Debug("uploadHandler: request carried no file")
	}
	return ctx.Redirect(http.StatusFound, "/")
}

// isHiddenPath reports whether any segment of p is a dot-file, such as an upload still being written.
func isHiddenPath(p string) bool {
	for _, segment := range strings.Split(p, "/") {
		if strings.HasPrefix(segment, ".") {
			return true
		}
	}
	return false
}
