package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	// registers the webp decoder with image.Decode
	_ "golang.org/x/image/webp"
)

const (
	jpegQuality = 80
	webpQuality = 80

	// maxPixels caps the declared dimensions accepted before decoding.
	maxPixels = 40_000_000

	mimePDF  = "application/pdf"
	mimeJPEG = "image/jpeg"
	mimePNG  = "image/png"
	mimeWEBP = "image/webp"
)

// processed is an upload after the compression policy ran.
type processed struct {
	data        []byte
	contentType string
	// converted is set when the payload changed format (always to JPEG).
	converted bool
}

// process applies the compression policy to data based on its sniffed type.
func process(data []byte) (*processed, error) {
	mt := mimetype.Detect(data)

	switch {
	case mt.Is(mimePDF):
		return &processed{data: data, contentType: mimePDF}, nil
	case strings.HasPrefix(mt.String(), "image/"):
		return recompress(data, mt)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
	}
}

// checkDimensions reads only the image header. Subtypes without a
// registered decoder (svg, avif, heic) are unsupported rather than failed.
func checkDimensions(data []byte, mt *mimetype.MIME) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if errors.Is(err, image.ErrFormat) {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
	}
	if err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrCompression, mt.String(), err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}
	return nil
}

func recompress(data []byte, mt *mimetype.MIME) (*processed, error) {
	if err := checkDimensions(data, mt); err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrCompression, mt.String(), err)
	}

	var buf bytes.Buffer
	out := &processed{}

	switch {
	case mt.Is(mimeJPEG):
		err = encodeJPEG(&buf, img)
		out.contentType = mimeJPEG
	case mt.Is(mimePNG):
		err = imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
		out.contentType = mimePNG
	case mt.Is(mimeWEBP):
		err = webp.Encode(&buf, img, &webp.Options{Quality: webpQuality})
		out.contentType = mimeWEBP
	default:
		err = encodeJPEG(&buf, img)
		out.contentType = mimeJPEG
		out.converted = true
	}
	if err != nil {
		return nil, fmt.Errorf("%w: encode %s: %v", ErrCompression, out.contentType, err)
	}

	out.data = buf.Bytes()
	return out, nil
}

func encodeJPEG(buf *bytes.Buffer, img image.Image) error {
	return imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
}
