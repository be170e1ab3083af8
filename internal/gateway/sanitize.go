package gateway

import (
	"bytes"
	"strconv"
	"strings"
)

// CleanString strips stray backticks, double and single quotes anywhere in
// the value plus surrounding whitespace. Some platform payloads wrap URLs
// and descriptions in backticks; nothing downstream should ever see those.
func CleanString(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '`', '"', '\'':
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(cleaned)
}

// flexInt64 tolerates numbers the platform occasionally serves as quoted or
// backticked strings. Anything unparseable decodes to zero, matching the
// optional-field fallbacks callers apply.
type flexInt64 int64

func (f *flexInt64) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	raw := CleanString(string(data))
	if raw == "" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt64(n)
	return nil
}
