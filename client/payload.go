package client

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const defaultMimeType = "image/png"

// StripDataURI splits a "data:<mime>;base64,<data>" payload into its mime type and
// base64 body. A bare base64 string is returned unchanged with the default mime type.
func StripDataURI(payload string) (mimeType, data string) {
	if !strings.HasPrefix(payload, "data:") {
		return defaultMimeType, payload
	}
	header, body, ok := strings.Cut(payload, ",")
	if !ok {
		return defaultMimeType, payload
	}
	mimeType = strings.TrimPrefix(header, "data:")
	mimeType = strings.TrimSuffix(mimeType, ";base64")
	if mimeType == "" {
		mimeType = defaultMimeType
	}
	return mimeType, body
}

// decodePayload returns the raw image bytes carried by payload.
func decodePayload(payload string) ([]byte, error) {
	_, data := StripDataURI(payload)
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	return raw, nil
}
