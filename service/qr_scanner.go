package service

import (
	"bytes"
	"image"
	"log/slog"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// QRScanner reads a QR code from an image, if one is present. Visiting cards often
// carry a vCard or tel: link whose number the OCR text misses.
type QRScanner struct {
	reader gozxing.Reader
}

func NewQRScanner() *QRScanner {
	return &QRScanner{reader: qrcode.NewQRCodeReader()}
}

// Scan returns the decoded QR text, or "" when the image holds no readable code.
func (s *QRScanner) Scan(data []byte) string {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	return s.ScanImage(img)
}

func (s *QRScanner) ScanImage(img image.Image) string {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return ""
	}

	result, err := s.reader.Decode(bmp, nil)
	if err != nil {
		slog.Debug("no QR code found", "error", err)
		return ""
	}
	return result.GetText()
}
