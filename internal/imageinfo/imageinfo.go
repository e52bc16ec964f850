package imageinfo

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"io"
	"math"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/srwiley/oksvg"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	FormatSVG = "svg"

	// only the head of a file is inspected when sniffing for SVG markup
	svgSniffLength = 4096
)

// Info holds the dimensions of a stored image.
type Info struct {
	Format string
	Width  int
	Height int
}

// Inspect reads the dimensions of the image stored at path.
// Raster formats are detected from their headers, SVG documents from their markup.
func Inspect(path string) (*Info, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	reader := bufio.NewReaderSize(file, svgSniffLength)
	head, err := reader.Peek(svgSniffLength)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if isSVG(head) {
		return inspectSVG(reader)
	}

	config, format, err := image.DecodeConfig(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}
	return &Info{Format: format, Width: config.Width, Height: config.Height}, nil
}

func inspectSVG(r io.Reader) (*Info, error) {
	icon, err := oksvg.ReadIconStream(r, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	return &Info{
		Format: FormatSVG,
		Width:  int(math.Round(icon.ViewBox.W)),
		Height: int(math.Round(icon.ViewBox.H)),
	}, nil
}

// isSVG performs a lightweight detection of SVG markup.
func isSVG(head []byte) bool {
	head = bytes.ToLower(bytes.TrimSpace(head))
	return bytes.Contains(head, []byte("<svg"))
}
