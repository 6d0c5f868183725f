package application

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const MaxAvatarSize = 5 << 20

const (
	msgAvatarType   = "Please upload a valid image file (JPG, PNG, or WEBP)."
	msgAvatarSize   = "File size must be less than 5MB."
	msgAvatarUpload = "There was an error uploading your file. Please try again."
)

// allowedAvatarTypes maps accepted content types to the stored extension.
var allowedAvatarTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// AvatarUpload is a file received from a form. Open may be called more than
// once; each call starts from the beginning of the content.
type AvatarUpload struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

func AvatarFromHeader(fh *multipart.FileHeader) *AvatarUpload {
	if fh == nil {
		return nil
	}
	return &AvatarUpload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Open:     func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// CheckedAvatar is an upload that passed validation.
type CheckedAvatar struct {
	Upload      *AvatarUpload
	ContentType string
	Extension   string
}

// ValidateAvatar sniffs the content type and checks the size. The declared
// filename extension is ignored.
func ValidateAvatar(up *AvatarUpload) (*CheckedAvatar, error) {
	r, err := up.Open()
	if err != nil {
		return nil, &AvatarError{Message: msgAvatarUpload, Err: fmt.Errorf("%w: open: %v", ErrAvatarStore, err)}
	}
	mt, err := mimetype.DetectReader(r)
	_ = r.Close()
	if err != nil {
		return nil, &AvatarError{Message: msgAvatarUpload, Err: fmt.Errorf("%w: detect: %v", ErrAvatarStore, err)}
	}

	contentType := strings.SplitN(mt.String(), ";", 2)[0]
	ext, ok := allowedAvatarTypes[contentType]
	if !ok {
		return nil, &AvatarError{Message: msgAvatarType, Err: ErrAvatarRejected}
	}
	if up.Size > MaxAvatarSize {
		return nil, &AvatarError{Message: msgAvatarSize, Err: ErrAvatarRejected}
	}
	return &CheckedAvatar{Upload: up, ContentType: contentType, Extension: ext}, nil
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// SafeAvatarName keeps the original base name with every character outside
// [A-Za-z0-9_-] replaced by '_', then appends a unique suffix and ext.
func SafeAvatarName(original, ext string) string {
	base := filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "." || base == "/" {
		base = ""
	}
	safe := unsafeFileChars.ReplaceAllString(base, "_")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:13]
	return safe + "_" + suffix + ext
}
