package service

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Aashish23092/ocr-phone-extractor/dto"
)

// contrastFactor stretches grey levels around mid grey during enhancement.
const contrastFactor = 1.5

// ImageEncoder turns uploaded image bytes into a base64 data URI for the OCR backend.
type ImageEncoder struct {
	enhance bool
}

func NewImageEncoder(enhance bool) *ImageEncoder {
	return &ImageEncoder{enhance: enhance}
}

// Encode validates that data is a decodable image and returns it as a data URI.
// With enhancement on, the image is converted to high-contrast greyscale PNG first.
func (e *ImageEncoder) Encode(fileName string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", &dto.EncodingError{FileName: fileName, Err: errors.New("empty file")}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", &dto.EncodingError{FileName: fileName, Err: fmt.Errorf("failed to decode image: %w", err)}
	}

	if !e.enhance {
		mime := mimetype.Detect(data).String()
		return dataURI(mime, data), nil
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, Enhance(img)); err != nil {
		return "", &dto.EncodingError{FileName: fileName, Err: fmt.Errorf("failed to encode image: %w", err)}
	}
	return dataURI("image/png", buf.Bytes()), nil
}

// Enhance converts img to greyscale by luminance and applies a linear contrast
// stretch around mid grey.
func Enhance(img image.Image) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			lum := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			out.SetGray(x, y, color.Gray{Y: clamp((lum-128)*contrastFactor + 128)})
		}
	}
	return out
}

func clamp(v float64) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}

func dataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
