package match

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseScore parses "<int>-<int>" into the two team scores.
func ParseScore(text string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(text), "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("score %q: want <int>-<int>", text)
	}
	s1, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("score %q: %w", text, err)
	}
	s2, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("score %q: %w", text, err)
	}
	return s1, s2, nil
}

// IsMap reports whether name is one of Maps.
func IsMap(name string) bool {
	for _, m := range Maps {
		if m == name {
			return true
		}
	}
	return false
}

// IsFormat reports whether name is one of Formats.
func IsFormat(name string) bool {
	for _, f := range Formats {
		if f == name {
			return true
		}
	}
	return false
}
