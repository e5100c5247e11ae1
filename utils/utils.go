package utils

import (
	"os"
)

// RemoveIO attempts to remove path and optionally its content. Can ignore error,
// for example if the file does not exist.
func RemoveIO(path string, recursive, ignoreError bool) error {
	var err error
	if recursive {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}

	if ignoreError {
		return nil
	}
	return err
}

// CreateTempFile creates an empty, uniquely named file in the temp directory
// and returns its path. The caller removes it.
func CreateTempFile(pattern string) (string, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}
