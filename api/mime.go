package api

import (
	"errors"
	"fmt"
	"mime"
	"strings"
)

const (
	MediaTypeAny    = "*/*"
	MediaTypeJSON   = "application/json"
	MediaTypeNDJSON = "application/x-ndjson"
	// MediaTypeInflux is InfluxDB line protocol.
	MediaTypeInflux = "text/plain"
)

var mediaFormats = map[string]string{
	MediaTypeJSON:   "ndjson",
	MediaTypeNDJSON: "ndjson",
	MediaTypeInflux: "influx",
}

type ErrUnsupportedMimeType struct {
	Type string
}

func (m *ErrUnsupportedMimeType) Error() string {
	return fmt.Sprintf("unsupported MIME type: %s", m.Type)
}

// MediaTypeToFormat returns the output format for an Accept or Content-Type
// header value s, which may list several media types.  The first supported
// type wins.  An empty value or a wildcard selects dflt.
func MediaTypeToFormat(s string, dflt string) (string, error) {
	var unsupported string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part == "" {
			continue
		}
		typ, _, err := mime.ParseMediaType(part)
		if err != nil && !errors.Is(err, mime.ErrInvalidMediaParameter) {
			return "", err
		}
		if typ == MediaTypeAny {
			return dflt, nil
		}
		if format, ok := mediaFormats[typ]; ok {
			return format, nil
		}
		if unsupported == "" {
			unsupported = typ
		}
	}
	if unsupported != "" {
		return "", &ErrUnsupportedMimeType{unsupported}
	}
	return dflt, nil
}

func FormatToMediaType(format string) string {
	if format == "json" {
		return MediaTypeNDJSON
	}
	for typ, f := range mediaFormats {
		if f == format && typ != MediaTypeJSON {
			return typ
		}
	}
	return ""
}
