package core

import (
	"fmt"
	"strings"

	"muko/data"
)

// SetMode switches every managed line whose domain or alias equals identifier
// into mode. Only the leading comment marker is touched, so the rest of the
// line keeps its original spacing. When nothing matches, lines is returned
// as-is together with an error wrapping ErrNotFound.
func SetMode(lines []string, identifier string, mode data.Mode) ([]string, error) {
	out := make([]string, 0, len(lines))
	found := false

	for _, line := range lines {
		entry, ok := Decode(line)
		if !ok || !entry.Matches(identifier) {
			out = append(out, line)
			continue
		}
		found = true
		out = append(out, switchLine(line, entry.Active, mode))
	}

	if !found {
		return lines, fmt.Errorf("%w for '%s'", ErrNotFound, identifier)
	}
	return out, nil
}

func switchLine(line string, active bool, mode data.Mode) string {
	switch {
	case mode == data.ModeDev && !active:
		// A decoded inactive line always starts with the marker.
		return strings.TrimLeft(line[1:], blanks)
	case mode == data.ModeProd && active:
		return "#" + line
	default:
		return line
	}
}
