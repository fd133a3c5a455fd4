package fgdb

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/pkg/fileutils"
)

func canstat(path string) bool {
	_, err := os.Stat(path)
	if err == nil {
		return true
	}
	if os.IsNotExist(err) {
		return false
	}
	return false
}

func mkdir(dir string, mode os.FileMode) (err error) {
	if _, err = os.Stat(dir); os.IsNotExist(err) {
		err = os.MkdirAll(dir, mode)
		if err != nil {
			return
		}
	}
	return
}

// copyTree copies the regular files under src into dst, preserving
// the directory layout and file modes.  Symlinks and other special
// files are skipped.
func copyTree(dst, src string) (err error) {
	err = filepath.Walk(src, func(path string, info os.FileInfo, werr error) error {
		if werr != nil {
			return werr
		}
		rel, rerr := filepath.Rel(src, path)
		if rerr != nil {
			return rerr
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return mkdir(target, 0755)
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if cerr := fileutils.CopyFile(target, path); cerr != nil {
			return cerr
		}
		// CopyFile doesn't carry the source mode; executables must
		// stay executable or function blocks can't run
		return os.Chmod(target, info.Mode())
	})
	return errors.Wrapf(err, "copying %s to %s", src, dst)
}
