// Package vision decodes image payloads from chat message content parts
// into in-memory images the engine can consume.
package vision

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ErrImageDecode marks a malformed base64 or image payload. Handlers map
// it to a client error before any generation starts.
var ErrImageDecode = errors.New("invalid image data")

// DecodeDataURI decodes a data-URI-embedded base64 image (or a bare
// base64 string) and normalizes it to an RGBA image unless it is already
// in a directly usable color model.
func DecodeDataURI(uri string) (image.Image, error) {
	payload := uri
	if idx := strings.Index(payload, "base64,"); idx >= 0 {
		payload = payload[idx+len("base64,"):]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
		}
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	return normalize(img), nil
}

// normalize keeps RGB-like and grayscale images as-is and redraws
// everything else (paletted, CMYK, YCbCr) into NRGBA.
func normalize(img image.Image) image.Image {
	switch img.(type) {
	case *image.NRGBA, *image.RGBA, *image.Gray:
		return img
	}
	dst := image.NewNRGBA(img.Bounds())
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}
