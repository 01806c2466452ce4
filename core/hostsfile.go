package core

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// HostsPath returns the platform's hosts file.
func HostsPath() string {
	if runtime.GOOS == "windows" {
		windir := os.Getenv("SystemRoot")
		if windir == "" {
			windir = `C:\Windows`
		}
		return filepath.Join(windir, "System32", "drivers", "etc", "hosts")
	}
	return "/etc/hosts"
}

// ReadLines returns the lines of path in order, without line terminators.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrIO, path, err)
	}
	return lines, nil
}

// WriteLines replaces the whole content of path with lines, each terminated
// by a newline. The file mode of an existing target is kept.
func WriteLines(path string, lines []string) error {
	var buf bytes.Buffer
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	mode := fs.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	// Write atomically
	if err := replaceFile(path, buf.Bytes(), mode); err != nil {
		// Renaming over a bind-mounted hosts file fails; rewrite in place.
		if werr := os.WriteFile(path, buf.Bytes(), mode); werr != nil {
			return fmt.Errorf("%w: %w", ErrIO, werr)
		}
	}
	return nil
}

func replaceFile(path string, content []byte, mode fs.FileMode) error {
	tmp := path + ".muko.tmp"
	if err := os.WriteFile(tmp, content, mode); err != nil {
		return fmt.Errorf("write temp failed: %w", err)
	}
	if err := os.Chmod(tmp, mode); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace failed: %w", err)
	}
	return nil
}
