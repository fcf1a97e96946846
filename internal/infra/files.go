package infra

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// InvoiceStore keeps uploaded invoice images on disk under random names.
// Only the stored key lands in the database; the handler resolves keys
// back to paths for download.
type InvoiceStore struct {
	dir string
}

func NewInvoiceStore(dir string) (*InvoiceStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("invoice store: create dir: %w", err)
	}
	return &InvoiceStore{dir: dir}, nil
}

// Save writes the uploaded file under a fresh uuid-based key, keeping
// only the original extension.
func (s *InvoiceStore) Save(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	key := uuid.NewString() + ext

	dst, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return key, nil
}

// validKey accepts only plain file names, so a key can never point
// outside the storage directory.
func validKey(key string) bool {
	return key != "" && key != "." && key != ".." && key == filepath.Base(key)
}

// Path resolves a stored key to its on-disk location, refusing keys that
// escape the storage directory.
func (s *InvoiceStore) Path(key string) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("invoice store: invalid key %q", key)
	}
	p := filepath.Join(s.dir, key)
	if _, err := os.Stat(p); err != nil {
		return "", err
	}
	return p, nil
}

// Delete removes a stored file; a missing file is not an error.
func (s *InvoiceStore) Delete(key string) error {
	if !validKey(key) {
		return fmt.Errorf("invoice store: invalid key %q", key)
	}
	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
