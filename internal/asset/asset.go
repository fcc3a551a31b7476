// Package asset stores uploaded and cached images on the local filesystem,
// served back under /uploads.
package asset

import (
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gofrs/uuid/v5"
)

var (
	ErrCreateRoot  = errors.New("failed to create asset root")
	ErrInvalidName = errors.New("invalid asset name")
	ErrWriteAsset  = errors.New("failed to write asset")
)

const PublicPrefix = "/uploads"

type Store struct {
	root string
}

func NewStore(root string) (Store, error) {
	absRoot, errAbs := filepath.Abs(root)
	if errAbs != nil {
		return Store{}, errors.Join(errAbs, ErrCreateRoot)
	}

	if errMkdir := os.MkdirAll(absRoot, 0o755); errMkdir != nil {
		return Store{}, errors.Join(errMkdir, ErrCreateRoot)
	}

	return Store{root: absRoot}, nil
}

func (s Store) Root() string {
	return s.root
}

// Save writes the reader contents under the given name and returns the public
// path. Names containing path separators are rejected.
func (s Store) Save(name string, reader io.Reader) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", ErrInvalidName
	}

	outFile, errCreate := os.Create(filepath.Join(s.root, name))
	if errCreate != nil {
		return "", errors.Join(errCreate, ErrWriteAsset)
	}

	defer func() {
		_ = outFile.Close()
	}()

	if _, errCopy := io.Copy(outFile, reader); errCopy != nil {
		return "", errors.Join(errCopy, ErrWriteAsset)
	}

	return path.Join(PublicPrefix, name), nil
}

// SaveRandom stores the contents under a fresh uuid derived name, keeping the
// original extension when it looks like one.
func (s Store) SaveRandom(originalName string, reader io.Reader) (string, error) {
	assetID, errID := uuid.NewV4()
	if errID != nil {
		return "", errors.Join(errID, ErrWriteAsset)
	}

	return s.Save(assetID.String()+NormalizeExt(originalName), reader)
}

// NormalizeExt extracts a safe lowercase file extension, defaulting to .png
// for anything unrecognizable.
func NormalizeExt(name string) string {
	ext := strings.ToLower(path.Ext(strings.SplitN(path.Base(name), "?", 2)[0]))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg":
		return ext
	default:
		return ".png"
	}
}
