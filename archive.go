package sindri

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// packageUpload prepares a local circuit path for transmission. A regular
// file is read as-is (the caller is trusted to have prepared a valid
// archive); a directory is packed into an in-memory gzipped tarball.
func packageUpload(uploadPath string) (fileName string, contents []byte, err error) {
	info, err := os.Stat(uploadPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, newError(KindResourceNotFound,
				fmt.Sprintf("upload path does not exist: %s", uploadPath))
		}
		return "", nil, fmt.Errorf("stat upload path: %w", err)
	}

	if !info.IsDir() {
		contents, err = os.ReadFile(uploadPath)
		if err != nil {
			return "", nil, fmt.Errorf("read upload file: %w", err)
		}
		return filepath.Base(uploadPath), contents, nil
	}

	absPath, err := filepath.Abs(uploadPath)
	if err != nil {
		return "", nil, fmt.Errorf("resolve upload path: %w", err)
	}
	fileName = stem(absPath) + ".tar.gz"
	contents, err = tarGzDirectory(absPath)
	if err != nil {
		return "", nil, err
	}
	return fileName, contents, nil
}

// tarGzDirectory packs dir into a gzipped tarball held in memory. Entry
// names are relative to the directory's parent so the archive unpacks into
// a single top-level directory.
func tarGzDirectory(dir string) ([]byte, error) {
	var buf bytes.Buffer
	gzWriter := gzip.NewWriter(&buf)
	tarWriter := tar.NewWriter(gzWriter)

	root := filepath.Base(dir)
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() && !info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(filepath.Join(root, rel))
		if info.IsDir() {
			header.Name += "/"
		}
		if err := tarWriter.WriteHeader(header); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		_, err = io.Copy(tarWriter, file)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("archive directory %s: %w", dir, err)
	}

	if err := tarWriter.Close(); err != nil {
		return nil, fmt.Errorf("finalize tar archive: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return nil, fmt.Errorf("finalize gzip stream: %w", err)
	}
	return buf.Bytes(), nil
}

// stem returns the final path element without its extension.
func stem(path string) string {
	base := filepath.Base(path)
	if idx := strings.LastIndex(base, "."); idx > 0 {
		return base[:idx]
	}
	return base
}
