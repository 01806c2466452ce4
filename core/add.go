package core

import (
	"fmt"
	"slices"
	"strings"

	"muko/data"
)

// AddDomain drops every existing mapping for domain, managed or not, and
// appends a fresh active managed line at the end. replaced reports whether an
// older mapping was removed.
func AddDomain(lines []string, domain, ip, alias string) (out []string, replaced bool) {
	out = make([]string, 0, len(lines)+1)

	for _, line := range lines {
		// Cheap filter first; mapsHost does the exact token check.
		if !strings.Contains(line, domain) {
			out = append(out, line)
			continue
		}
		if mapsHost(line, domain) {
			replaced = true
			continue
		}
		out = append(out, line)
	}

	out = append(out, Encode(data.ManagedEntry{
		IP:     ip,
		Domain: domain,
		Alias:  alias,
		Active: true,
	}))
	return out, replaced
}

// mapsHost reports whether line is a hosts mapping, commented or not, that
// lists host among its hostnames.
func mapsHost(line, host string) bool {
	content := strings.TrimLeft(line, blanks)
	if strings.HasPrefix(content, "#") {
		content = strings.TrimLeft(content[1:], blanks)
	}
	content, _, _ = strings.Cut(content, "#")

	fields := strings.Fields(content)
	if len(fields) < 2 {
		return false
	}
	return slices.Contains(fields[1:], host)
}

// ValidateEntry checks that a new entry will be recognised as managed once
// written. IPs are checked for lexical shape only.
func ValidateEntry(domain, ip, alias string) error {
	if domain == "" {
		return fmt.Errorf("%w: domain is required", ErrInvalidEntry)
	}
	if strings.ContainsAny(domain, blanks+"#") {
		return fmt.Errorf("%w: domain %q must be a single token without '#'", ErrInvalidEntry, domain)
	}
	if !ipToken.MatchString(ip) {
		return fmt.Errorf("%w: invalid IP address %q", ErrInvalidEntry, ip)
	}
	if strings.ContainsAny(alias, blanks) {
		return fmt.Errorf("%w: alias %q must not contain whitespace", ErrInvalidEntry, alias)
	}
	return nil
}
