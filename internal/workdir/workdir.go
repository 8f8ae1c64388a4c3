// Package workdir resolves the directory that holds .pomo, so commands run
// from a subdirectory share the project's timer data.
package workdir

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	dataDirName = ".pomo"
	rootFile    = ".pomo-root"
)

// ResolveBaseDir walks up from start looking for a directory that contains
// .pomo or a .pomo-root redirect file. A redirect names the directory to use
// instead, relative to the file's own directory when not absolute. When
// neither is found, start is returned unchanged and .pomo will be created
// there.
func ResolveBaseDir(start string) string {
	dir := filepath.Clean(start)
	for {
		if target, ok := readRootFile(dir); ok {
			return target
		}
		if isDir(filepath.Join(dir, dataDirName)) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

func readRootFile(dir string) (string, bool) {
	content, err := os.ReadFile(filepath.Join(dir, rootFile))
	if err != nil {
		return "", false
	}
	resolved := strings.TrimSpace(string(content))
	if resolved == "" {
		return "", false
	}
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(dir, resolved)
	}
	return filepath.Clean(resolved), true
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
