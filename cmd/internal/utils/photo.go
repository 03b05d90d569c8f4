package utils

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

var (
	ErrEmptyPhoto       = errors.New("photo payload is empty")
	ErrPhotoTooLarge    = errors.New("photo payload is too large")
	ErrUnsupportedPhoto = errors.New("photo payload is not a supported image")
)

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// DecodePhoto accepts a data URL ("data:image/jpeg;base64,...") or bare
// base64 and returns the image bytes with a file extension for its type.
func DecodePhoto(payload string, maxBytes int) ([]byte, string, error) {
	payload = strings.TrimSpace(payload)
	if i := strings.Index(payload, ","); strings.HasPrefix(payload, "data:") && i >= 0 {
		payload = payload[i+1:]
	}

	if payload == "" {
		return nil, "", ErrEmptyPhoto
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > maxBytes+3 {
		return nil, "", ErrPhotoTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", err
		}
	}

	if len(data) > maxBytes {
		return nil, "", ErrPhotoTooLarge
	}

	ext, ok := photoExtensions[http.DetectContentType(data)]
	if !ok {
		return nil, "", ErrUnsupportedPhoto
	}
	return data, ext, nil
}
