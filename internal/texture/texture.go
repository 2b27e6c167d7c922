// Package texture converts Texture values into images and writes them in the
// file formats the Save and Preview nodes support.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/osmium/internal/datatype"
	"github.com/specialistvlad/osmium/internal/runctx"
	"github.com/zclconf/go-cty/cty"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var (
	// ErrBufferSize means the decoded pixel buffer does not cover the context.
	ErrBufferSize = errors.New("texture buffer does not match image dimensions")
	// ErrUnsupportedFormat means no encoder exists for a file extension.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// Format is an image file format.
type Format int

const (
	PNG Format = iota
	JPEG
	BMP
	TIFF
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatFor picks the format from the extension of path.
func FormatFor(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return PNG, nil
	case ".jpg", ".jpeg":
		return JPEG, nil
	case ".bmp":
		return BMP, nil
	case ".tif", ".tiff":
		return TIFF, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Image decodes v into an RGBA image sized by rc. The buffer must hold
// exactly 4*width*height bytes.
func Image(v cty.Value, rc runctx.Context) (*image.NRGBA, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	raw, err := datatype.TextureOf(v)
	if err != nil {
		return nil, err
	}
	if want := 4 * rc.Pixels(); len(raw) != want {
		return nil, fmt.Errorf("%w: got %d bytes, want %d for %s", ErrBufferSize, len(raw), want, rc)
	}
	return &image.NRGBA{
		Pix:    raw,
		Stride: 4 * rc.Width,
		Rect:   image.Rect(0, 0, rc.Width, rc.Height),
	}, nil
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpeg.DefaultQuality})
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
}
