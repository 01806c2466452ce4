package core

import (
	"regexp"
	"strings"

	"muko/data"
)

// Tag marks a hosts line as owned by muko. Text after it is the alias.
const Tag = "#muko:"

// blanks is the set matched by \s in the line grammar.
const blanks = " \t\n\f\r"

var (
	managedLine = regexp.MustCompile(`^(#)?\s*((?:\d+\.\d+\.\d+\.\d+)|(?:[0-9a-fA-F:]+))\s+(\S+)\s+#muko:\s*(\S*)`)
	ipToken     = regexp.MustCompile(`^(?:\d+\.\d+\.\d+\.\d+|[0-9a-fA-F:]+)$`)
)

// Decode parses a managed line. Lines that carry the tag but do not fit the
// grammar are reported as not managed rather than as an error.
func Decode(line string) (data.ManagedEntry, bool) {
	if !strings.Contains(line, Tag) {
		return data.ManagedEntry{}, false
	}
	m := managedLine.FindStringSubmatch(line)
	if m == nil {
		return data.ManagedEntry{}, false
	}
	return data.ManagedEntry{
		IP:     m[2],
		Domain: m[3],
		Alias:  m[4],
		Active: m[1] == "",
	}, true
}

// Encode renders e as a fresh managed line.
func Encode(e data.ManagedEntry) string {
	line := e.IP + " " + e.Domain + " " + Tag
	if e.Alias != "" {
		line += " " + e.Alias
	}
	if !e.Active {
		line = "#" + line
	}
	return line
}
