package replacer

import (
	"os"
	"path/filepath"
)

// writeFileAtomic writes content to path by writing a temp file in the
// same directory and renaming it over the original, so a crash or
// interrupt mid-write never leaves a half-written source file. No
// cross-process lock file: one tractor run is the only writer a file
// will ever see concurrently.
func writeFileAtomic(path string, content []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tractor-tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
