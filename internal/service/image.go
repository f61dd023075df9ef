package service

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"
)

// decodeImageData decodes a base64 image payload, tolerating an optional
// data-URI prefix ("data:image/png;base64,...").
func decodeImageData(data string) ([]byte, error) {
	if idx := strings.Index(data, ","); idx >= 0 && strings.HasPrefix(data, "data:") {
		data = data[idx+1:]
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(data))
	if err != nil || len(decoded) == 0 {
		return nil, ErrBadImage
	}
	return decoded, nil
}

// imageName derives a storage key from the wall clock: milliseconds since
// epoch in base 36, plus the extension.
func imageName(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 36) + ".png"
}

// imageURL is the serving path for a stored image key.
func imageURL(name string) string {
	return "/images/" + name
}
