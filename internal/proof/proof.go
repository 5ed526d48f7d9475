// Package proof builds and reads the QR proof embedded in issued
// certificates. The payload is a plain identity reference, not a signature:
// verification resolves it against the active certificate store.
package proof

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/skip2/go-qrcode"
)

// Payload is the structured data encoded into a certificate's QR image.
// CertificateID is allocated before rendering, so the persisted record's
// primary key always equals the id embedded in its own proof.
type Payload struct {
	UserID          int    `json:"user"`
	IssuerID        int    `json:"issuedBy"`
	CertificateName string `json:"certificateName"`
	CertificateID   string `json:"certificateId"`
}

// Encode serializes the payload and renders it as a PNG QR raster.
func Encode(p Payload) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal proof payload: %w", err)
	}

	img, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR image: %w", err)
	}
	return img, nil
}

// Decode extracts the raw payload string from a QR image (png or jpeg).
func Decode(imageBytes []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("failed to binarize image: %w", err)
	}

	result, err := zxqrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", fmt.Errorf("no QR code found in image: %w", err)
	}

	return result.GetText(), nil
}

// Parse interprets a decoded payload string. A non-JSON string is a decode
// failure for verification purposes.
func Parse(raw string) (Payload, error) {
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Payload{}, fmt.Errorf("QR code does not contain a valid payload: %w", err)
	}
	if p.CertificateID == "" {
		return Payload{}, fmt.Errorf("QR payload is missing the certificate id")
	}
	return p, nil
}
