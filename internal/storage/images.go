// Package storage keeps uploaded vacation pictures on the local filesystem.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/geocoder89/vacationhub/internal/observability"
	"github.com/google/uuid"
)

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image exceeds the upload size limit")
	ErrEmptyFile       = errors.New("image file is empty")
	ErrInvalidName     = errors.New("invalid image file name")
)

// allowed maps a file extension to the content types it may carry.
var allowed = map[string][]string{
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
	".webp": {"image/webp"},
	".gif":  {"image/gif"},
}

const sniffLen = 3072

type Images struct {
	dir      string
	maxBytes int64
	prom     *observability.Prom
}

func NewImages(dir string, maxBytes int64) (*Images, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create images dir: %w", err)
	}
	return &Images{dir: dir, maxBytes: maxBytes}, nil
}

func (s *Images) Dir() string {
	return s.dir
}

// Instrument makes Save report upload outcomes to prom.
func (s *Images) Instrument(prom *observability.Prom) {
	s.prom = prom
}

func uploadResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnsupportedType):
		return "unsupported_type"
	case errors.Is(err, ErrTooLarge):
		return "too_large"
	case errors.Is(err, ErrEmptyFile):
		return "empty"
	default:
		return "error"
	}
}

// Save stores an uploaded multipart file under a generated name and returns that name.
func (s *Images) Save(fh *multipart.FileHeader) (name string, err error) {
	defer func() { s.prom.IncImageUpload(uploadResult(err)) }()

	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		return "", ErrTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	return s.SaveReader(fh.Filename, f)
}

// SaveReader checks the extension of original, sniffs the content and writes it out.
func (s *Images) SaveReader(original string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(original))
	types, ok := allowed[ext]
	if !ok {
		return "", ErrUnsupportedType
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if n == 0 {
		return "", ErrEmptyFile
	}
	head = head[:n]

	mt := mimetype.Detect(head)
	if !matches(mt, types) {
		return "", ErrUnsupportedType
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}

	src := io.MultiReader(bytes.NewReader(head), r)
	if s.maxBytes > 0 {
		src = io.LimitReader(src, s.maxBytes+1)
	}

	written, err := io.Copy(out, src)
	closeErr := out.Close()

	switch {
	case err != nil:
		_ = os.Remove(path)
		return "", err
	case closeErr != nil:
		_ = os.Remove(path)
		return "", closeErr
	case s.maxBytes > 0 && written > s.maxBytes:
		_ = os.Remove(path)
		return "", ErrTooLarge
	}

	return name, nil
}

// Remove deletes a stored image. Missing files are not an error.
func (s *Images) Remove(name string) error {
	if name == "" {
		return nil
	}
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return ErrInvalidName
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func matches(mt *mimetype.MIME, types []string) bool {
	for _, t := range types {
		if mt.Is(t) {
			return true
		}
	}
	return false
}
