// Package imaging turns uploaded profile pictures into fixed-size JPEG files.
package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/mdobak/go-xerrors"
)

const (
	DefaultSize     = 400
	DefaultMaxBytes = 5 << 20
	DefaultQuality  = 90
	// PublicPrefix is the URL path processed images are served under.
	PublicPrefix = "/uploads"
	profilesDir  = "profiles"
)

var (
	ErrInvalidImage = xerrors.Message("invalid image")
	ErrStorage      = xerrors.Message("image storage failed")
)

var dataURLPrefix = regexp.MustCompile(`^data:image/[\w.+-]+;base64,`)

type Processor struct {
	log      *slog.Logger
	root     string
	size     int
	maxBytes int
	quality  int
}

// NewProcessor stores images below root/profiles.
func NewProcessor(root string, log *slog.Logger) *Processor {
	return &Processor{
		log:      log,
		root:     root,
		size:     DefaultSize,
		maxBytes: DefaultMaxBytes,
		quality:  DefaultQuality,
	}
}

func (p *Processor) Root() string {
	return p.root
}

// SaveProfileImage decodes base64 (optionally a data URL), crops it to a centred
// square, writes it as JPEG and returns the public path.
func (p *Processor) SaveProfileImage(ctx context.Context, userID int64, encoded string) (string, error) {
	raw := strings.TrimSpace(dataURLPrefix.ReplaceAllString(strings.TrimSpace(encoded), ""))
	if raw == "" {
		return "", xerrors.Newf("%w: no image data provided", ErrInvalidImage)
	}
	if base64.StdEncoding.DecodedLen(len(raw)) > p.maxBytes+3 {
		return "", xerrors.Newf("%w: image file too large (max %d bytes)", ErrInvalidImage, p.maxBytes)
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", xerrors.Newf("%w: invalid image data format", ErrInvalidImage)
	}
	if len(data) > p.maxBytes {
		return "", xerrors.Newf("%w: image file too large (max %d bytes)", ErrInvalidImage, p.maxBytes)
	}
	if err := ctx.Err(); err != nil {
		return "", xerrors.New(err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", xerrors.Newf("%w: unsupported image format", ErrInvalidImage)
	}
	square := imaging.Fill(img, p.size, p.size, imaging.Center, imaging.Lanczos)

	dir := filepath.Join(p.root, profilesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", xerrors.Newf("%w: %v", ErrStorage, err)
	}

	filename := fmt.Sprintf("profile_%d_%s.jpg", userID, uuid.NewString())
	file, err := os.OpenFile(filepath.Join(dir, filename), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", xerrors.Newf("%w: %v", ErrStorage, err)
	}
	if err := imaging.Encode(file, square, imaging.JPEG, imaging.JPEGQuality(p.quality)); err != nil {
		_ = file.Close()
		_ = os.Remove(file.Name())
		return "", xerrors.Newf("%w: %v", ErrStorage, err)
	}
	if err := file.Close(); err != nil {
		return "", xerrors.Newf("%w: %v", ErrStorage, err)
	}

	publicPath := path.Join(PublicPrefix, profilesDir, filename)
	p.log.Info("profile image stored", slog.Int64("user_id", userID), slog.String("path", publicPath))
	return publicPath, nil
}

// Remove deletes a previously stored image. Paths outside the profiles
// directory and already-missing files are ignored.
func (p *Processor) Remove(publicPath string) error {
	rel, ok := strings.CutPrefix(path.Clean(publicPath), path.Join(PublicPrefix, profilesDir)+"/")
	if !ok || rel == "" || strings.Contains(rel, "/") {
		return nil
	}

	err := os.Remove(filepath.Join(p.root, profilesDir, rel))
	if err != nil && !os.IsNotExist(err) {
		return xerrors.Newf("%w: %v", ErrStorage, err)
	}
	return nil
}
