package fileutil

import "fmt"

type FileError struct {
	Message string
	Path    string
}

func (e *FileError) Error() string {
	return fmt.Sprintf("fileutil: %s: %s", e.Path, e.Message)
}
