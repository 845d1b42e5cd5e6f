package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// EncodedImage contains an image encoded for transport.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Scale resizes img by factor. Factors of 1 or less than or equal to 0
// return img unchanged.
//
// Nearest-neighbour sampling is used so that a palette image stays a palette
// image: every output pixel is a copy of an input pixel.
func Scale(img image.Image, factor float64) image.Image {
	if factor == 1.0 || factor <= 0 {
		return img
	}
	b := img.Bounds()
	width := max(1, int(float64(b.Dx())*factor))
	height := max(1, int(float64(b.Dy())*factor))
	return imaging.Resize(img, width, height, imaging.NearestNeighbor)
}

// EncodePNG scales img by factor (see Scale) and encodes it as base64 PNG.
func EncodePNG(img image.Image, factor float64) (*EncodedImage, error) {
	scaled := Scale(img, factor)

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &EncodedImage{
		Width:       scaled.Bounds().Dx(),
		Height:      scaled.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// Save writes img to path at full size. The format follows the file
// extension (png, gif, bmp, tif or jpg). Lossy JPEG output will not keep
// exact palette colours.
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
