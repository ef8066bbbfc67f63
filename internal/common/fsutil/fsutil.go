package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome expands a leading '~' to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	// handle cases like ~/.cache/selenium
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// RegularFileSize reports the size of the regular file at path.
// A missing file is not an error: exists is false.
func RegularFileSize(path string) (size int64, exists bool, err error) {
	fi, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if fi.IsDir() {
		return 0, true, fmt.Errorf("%s is a directory", path)
	}
	return fi.Size(), true, nil
}
