package storage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidDataURI = errors.New("invalid image data uri")

// DecodeDataURI splits "data:<mime>;base64,<payload>" into bytes and mime type.
func DecodeDataURI(uri string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", ErrInvalidDataURI
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", ErrInvalidDataURI
	}

	contentType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return nil, "", fmt.Errorf("%w: not base64 encoded", ErrInvalidDataURI)
	}
	if contentType == "" {
		contentType = "image/png"
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty payload", ErrInvalidDataURI)
	}

	return data, contentType, nil
}

// DishImageKey builds the object key (without extension) for one generated
// image. Every generation gets a fresh key so cached URLs never go stale.
func DishImageKey(sessionID, dishID string) string {
	return fmt.Sprintf("dishes/%s/%s-%s", sessionID, dishID, uuid.New().String())
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
