package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// DefaultMaxBytes is the largest image accepted (5 MiB).
const DefaultMaxBytes int64 = 5 << 20

// URLPrefix is the path under which stored files are served.
const URLPrefix = "/uploads/"

// allowedTypes maps sniffed content types to the extension files are stored with.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var (
	// ErrUnsupportedType is returned when the content is not an allowed raster image.
	ErrUnsupportedType = errors.New("unsupported image type")

	// ErrTooLarge is returned when the content exceeds the size ceiling.
	ErrTooLarge = errors.New("image exceeds size limit")

	// ErrEmpty is returned for a zero-length upload.
	ErrEmpty = errors.New("empty upload")
)

// Stored describes a saved image.
type Stored struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	ContentType string `json:"-"`
	Size        int64  `json:"-"`
}

// Storage saves uploaded images under dir on an afero filesystem and builds
// their public URLs from baseURL.
type Storage struct {
	fs       afero.Afero
	dir      string
	baseURL  string
	maxBytes int64
	now      func() time.Time
	newID    func() string
}

// NewStorage returns a Storage. maxBytes <= 0 selects DefaultMaxBytes.
// baseURL is the public origin, e.g. "https://streamflux.shop"; an empty
// baseURL yields root-relative URLs.
func NewStorage(fs afero.Fs, dir, baseURL string, maxBytes int64) *Storage {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Storage{
		fs:       afero.Afero{Fs: fs},
		dir:      dir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// MaxBytes returns the size ceiling.
func (s *Storage) MaxBytes() int64 {
	return s.maxBytes
}

// Save sniffs r, rejects anything that is not an allowed image or is larger
// than the ceiling, and writes it under a fresh unique name.
func (s *Storage) Save(r io.Reader) (Stored, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return Stored{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return Stored{}, ErrEmpty
	}
	if int64(len(data)) > s.maxBytes {
		return Stored{}, ErrTooLarge
	}

	ct := http.DetectContentType(data)
	ext, ok := allowedTypes[ct]
	if !ok {
		return Stored{}, fmt.Errorf("%w: %s", ErrUnsupportedType, ct)
	}

	name := fmt.Sprintf("media_%s_%d%s", strings.ReplaceAll(s.newID(), "-", ""), s.now().Unix(), ext)
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return Stored{}, fmt.Errorf("mkdir uploads: %w", err)
	}
	if err := afero.WriteReader(s.fs, filepath.Join(s.dir, name), bytes.NewReader(data)); err != nil {
		return Stored{}, fmt.Errorf("write upload: %w", err)
	}

	return Stored{
		URL:         s.baseURL + URLPrefix + name,
		Filename:    name,
		ContentType: ct,
		Size:        int64(len(data)),
	}, nil
}

// RemoveURL deletes the stored file a public URL points at. URLs that do not
// point into the uploads path, and files already gone, are not errors.
func (s *Storage) RemoveURL(url string) error {
	i := strings.LastIndex(url, URLPrefix)
	if i < 0 {
		return nil
	}
	name := url[i+len(URLPrefix):]
	if name == "" || name != path.Base(name) || strings.ContainsAny(name, `/\`) || name == ".." {
		return fmt.Errorf("refusing to remove %q", name)
	}
	if err := s.fs.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

// FileSystem exposes the upload directory for http.FileServer.
func (s *Storage) FileSystem() http.FileSystem {
	return afero.NewHttpFs(s.fs.Fs).Dir(s.dir)
}
