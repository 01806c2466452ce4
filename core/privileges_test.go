package core_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"muko/core"
)

func TestYesNoPrompt(t *testing.T) {
	cases := map[string]bool{
		"y\n":     true,
		"YES\n":   true,
		" yes \n": true,
		"n\n":     false,
		"\n":      false,
		"maybe\n": false,
		"y":       true,
		"":        false,
	}

	for input, want := range cases {
		t.Run(strings.TrimSpace(input), func(t *testing.T) {
			var out bytes.Buffer
			got := core.YesNoPrompt(strings.NewReader(input), &out, "continue? (y/n) ")
			assert.Equal(t, want, got)
			assert.Equal(t, "continue? (y/n) ", out.String())
		})
	}
}

func TestWritable(t *testing.T) {
	path := writeHosts(t, "127.0.0.1 localhost\n")
	assert.True(t, core.Writable(path))
	assert.False(t, core.Writable(filepath.Join(t.TempDir(), "missing")))
}
