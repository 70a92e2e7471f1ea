// Package archive packages small HTML bundles into reproducible ZIP files.
//
// Identical input always yields identical bytes: entries are written in
// sorted order with a fixed modification time and fixed permissions. The
// archive is stored under the hex BLAKE2b-256 digest of its bytes, so the
// file name doubles as a content address and repeated runs reuse the
// existing file.
package archive

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/klauspost/compress/zip"
	"golang.org/x/crypto/blake2b"
)

// IndexFile is the entry point every HTML bundle must contain.
const IndexFile = "index.html"

// ErrNoIndex is returned when a bundle has no index.html entry.
var ErrNoIndex = errors.New("archive: bundle has no " + IndexFile)

// epoch is the modification time stamped on every entry.
var epoch = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)

// Bundle maps entry names to their contents.
type Bundle map[string][]byte

// Build returns the ZIP bytes for b.
func Build(b Bundle) ([]byte, error) {
	if _, ok := b[IndexFile]; !ok {
		return nil, ErrNoIndex
	}

	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		hdr := &zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: epoch,
		}
		hdr.SetMode(0o644)
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return nil, fmt.Errorf("failed to add %s: %w", name, err)
		}
		if _, err := w.Write(b[name]); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish archive: %w", err)
	}
	return buf.Bytes(), nil
}

// Digest returns the hex BLAKE2b-256 digest of data.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Writer stores bundles as content-addressed ZIP files in a directory.
type Writer struct {
	dir string
}

// NewWriter returns a Writer storing archives in dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Dir returns the directory archives are written to.
func (w *Writer) Dir() string {
	return w.dir
}

// Write packages b and returns the path of the archive file. An archive
// with the same digest that already exists is left untouched.
func (w *Writer) Write(b Bundle) (string, error) {
	data, err := Build(b)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(w.dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	path := filepath.Join(w.dir, Digest(data)+".zip")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write archive: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to move archive into place: %w", err)
	}
	return path, nil
}
