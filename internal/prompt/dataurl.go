package prompt

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidDataURL = errors.New("invalid data url")

// ParseDataURL splits "data:<mime>;base64,<payload>" into its mime type and
// base64 payload without decoding it.
func ParseDataURL(dataURL string) (mimeType string, payload string, err error) {
	header, payload, found := strings.Cut(strings.TrimSpace(dataURL), ",")
	if !found {
		return "", "", fmt.Errorf("%w: missing payload separator", ErrInvalidDataURL)
	}

	rest, ok := strings.CutPrefix(header, "data:")
	if !ok {
		return "", "", fmt.Errorf("%w: missing data: scheme", ErrInvalidDataURL)
	}

	mimeType, encoding, _ := strings.Cut(rest, ";")
	if encoding != "base64" {
		return "", "", fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURL)
	}
	if mimeType == "" {
		return "", "", fmt.Errorf("%w: missing mime type", ErrInvalidDataURL)
	}

	return mimeType, payload, nil
}

func DecodeDataURL(dataURL string) (mimeType string, data []byte, err error) {
	mimeType, payload, err := ParseDataURL(dataURL)
	if err != nil {
		return "", nil, err
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return mimeType, data, nil
}

func EncodeDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
