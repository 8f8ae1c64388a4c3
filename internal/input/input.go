// Package input expands command arguments that read from stdin ("-") or a
// file ("@path") into one value per non-empty line.
package input

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/marcus/pomo/internal/output"
)

// IsExpandable reports whether v reads from stdin or a file
func IsExpandable(v string) bool {
	return v == "-" || (strings.HasPrefix(v, "@") && len(v) > 1)
}

// AnyExpandable reports whether any of values reads from stdin or a file
func AnyExpandable(values []string) bool {
	for _, v := range values {
		if IsExpandable(v) {
			return true
		}
	}
	return false
}

// ExpandValues replaces "-" with the lines of stdin and "@path" with the
// lines of path. Other values pass through unchanged. stdin is read at most
// once; unreadable files are skipped with a warning.
func ExpandValues(values []string, stdin io.Reader) []string {
	var result []string
	stdinUsed := false
	for _, v := range values {
		switch {
		case v == "-":
			if stdinUsed {
				output.Warning("stdin already used, ignoring additional -")
				continue
			}
			stdinUsed = true
			result = append(result, ReadLines(stdin)...)
		case IsExpandable(v):
			path := strings.TrimPrefix(v, "@")
			file, err := os.Open(path)
			if err != nil {
				output.Warning("failed to read %s: %v", path, err)
				continue
			}
			result = append(result, ReadLines(file)...)
			file.Close()
		default:
			result = append(result, v)
		}
	}
	return result
}

// ReadLines reads trimmed non-empty lines from r
func ReadLines(r io.Reader) []string {
	if r == nil {
		return nil
	}
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
