package fileutil

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir checks if a given directory plus the following path exists, and
// creates it if not.
func EnsureDir(dir string, path ...string) error {
	targetPath := append([]string{dir}, path...)
	fullDir := filepath.Join(targetPath...)
	if err := os.MkdirAll(fullDir, 0o755); err != nil {
		return &FileError{Message: err.Error(), Path: fullDir}
	}
	return nil
}

// ReadLines reads a line-oriented text file, trimming blank lines, for the
// filter package's allow/deny host-substring lists.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileError{Message: err.Error(), Path: path}
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, &FileError{Message: err.Error(), Path: path}
	}
	return lines, nil
}
