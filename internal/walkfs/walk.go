package walkfs

import (
	"io/fs"
	"os"
	"path/filepath"
)

func statOrNil(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return info, nil
}

func walkDir(root string, exclude []string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if excluded(path, exclude) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	return out, err
}
