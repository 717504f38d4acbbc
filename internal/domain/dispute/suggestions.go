package dispute

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Suggestions is the canonical list form of settlement suggestions. Older
// backends send one block of text instead of a list; it decodes into the same
// shape.
type Suggestions []string

var listMarker = regexp.MustCompile(`^(\d+\.|[-•])\s*`)

// ParseSuggestionText splits a text block into suggestions, one per non-blank line,
// with leading list markers removed.
func ParseSuggestionText(text string) Suggestions {
	out := Suggestions{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func (s *Suggestions) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*s = nil
		return nil
	case data[0] == '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("decode suggestion text: %w", err)
		}
		*s = ParseSuggestionText(text)
		return nil
	default:
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("decode suggestion list: %w", err)
		}
		if list == nil {
			list = []string{}
		}
		*s = list
		return nil
	}
}

func (s Suggestions) Clone() Suggestions {
	if s == nil {
		return nil
	}
	return append(Suggestions{}, s...)
}
