package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// Upload is a file received from a client
type Upload struct {
	Filename string
	Data     []byte
}

// Service validates uploads and lays them out in a Store
type Service interface {
	// SavePostMedia stores post or comment media under the owner's upload directory
	SavePostMedia(ctx context.Context, username string, upload Upload) (string, error)

	// SaveTemp stores a temporary copy for a deferred job and returns its key
	SaveTemp(ctx context.Context, upload Upload) (string, error)

	// Promote copies a temporary blob to its final key. The temp copy is left in
	// place; its owner deletes it.
	Promote(ctx context.Context, tempKey, destKey string) error

	// SaveProfilePicture validates, downscales and stores a profile picture
	SaveProfilePicture(ctx context.Context, username string, upload Upload) (string, error)

	// Validate checks that an upload is a decodable image of acceptable size
	Validate(upload Upload) error

	// Delete removes a blob; empty keys are ignored
	Delete(ctx context.Context, key string) error

	// URL returns the public URL of key, or "" for an empty key
	URL(key string) string
}

const (
	tempPrefix = "temp"
	maxNameLen = 100
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

type mediaService struct {
	store          Store
	maxUploadBytes int64
	pictureMaxPx   int
}

// NewService creates a media service over store.
// maxUploadBytes <= 0 disables the size check; pictureMaxPx <= 0 disables downscaling.
func NewService(store Store, maxUploadBytes int64, pictureMaxPx int) Service {
	return &mediaService{
		store:          store,
		maxUploadBytes: maxUploadBytes,
		pictureMaxPx:   pictureMaxPx,
	}
}

// Validate decodes the image header to make sure the bytes are an image
func (s *mediaService) Validate(upload Upload) error {
	_, err := s.decodeFormat(upload)
	return err
}

func (s *mediaService) decodeFormat(upload Upload) (string, error) {
	if len(upload.Data) == 0 {
		return "", ErrEmptyUpload
	}
	if s.maxUploadBytes > 0 && int64(len(upload.Data)) > s.maxUploadBytes {
		return "", ErrTooLarge
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(upload.Data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	return format, nil
}

// SavePostMedia stores the upload at uploads/users/{username}/posts/post-{uuid}{ext}
func (s *mediaService) SavePostMedia(ctx context.Context, username string, upload Upload) (string, error) {
	format, err := s.decodeFormat(upload)
	if err != nil {
		return "", err
	}
	key := PostMediaKey(username, uuid.NewString(), extension(format))
	if err := s.store.Save(ctx, key, bytes.NewReader(upload.Data)); err != nil {
		return "", err
	}
	return key, nil
}

// SaveTemp stores the upload at temp/{uuid}-{name}{ext}. The client's
// extension is dropped; ext comes from the decoded format.
func (s *mediaService) SaveTemp(ctx context.Context, upload Upload) (string, error) {
	format, err := s.decodeFormat(upload)
	if err != nil {
		return "", err
	}
	name := sanitizeName(upload.Filename)
	name = strings.TrimRight(strings.TrimSuffix(name, path.Ext(name)), ".")
	if name == "" {
		name = "upload"
	}
	key := path.Join(tempPrefix, uuid.NewString()+"-"+name+extension(format))
	if err := s.store.Save(ctx, key, bytes.NewReader(upload.Data)); err != nil {
		return "", err
	}
	return key, nil
}

// Promote streams tempKey into destKey
func (s *mediaService) Promote(ctx context.Context, tempKey, destKey string) error {
	src, err := s.store.Open(ctx, tempKey)
	if err != nil {
		return fmt.Errorf("failed to open temp media %s: %w", tempKey, err)
	}
	defer func() { _ = src.Close() }()

	if err := s.store.Save(ctx, destKey, src); err != nil {
		return fmt.Errorf("failed to promote temp media %s: %w", tempKey, err)
	}
	return nil
}

// SaveProfilePicture keeps the aspect ratio and never upscales
func (s *mediaService) SaveProfilePicture(ctx context.Context, username string, upload Upload) (string, error) {
	format, err := s.decodeFormat(upload)
	if err != nil {
		return "", err
	}

	data := upload.Data
	ext := extension(format)

	if s.pictureMaxPx > 0 {
		img, err := imaging.Decode(bytes.NewReader(upload.Data), imaging.AutoOrientation(true))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		b := img.Bounds()
		if b.Dx() > s.pictureMaxPx || b.Dy() > s.pictureMaxPx {
			resized := imaging.Fit(img, s.pictureMaxPx, s.pictureMaxPx, imaging.Lanczos)

			// imaging cannot encode WebP; re-encode those as PNG
			outFormat, err := imaging.FormatFromExtension(ext)
			if err != nil {
				outFormat = imaging.PNG
				ext = ".png"
			}
			var buf bytes.Buffer
			if err := imaging.Encode(&buf, resized, outFormat); err != nil {
				return "", fmt.Errorf("failed to encode profile picture: %w", err)
			}
			data = buf.Bytes()
		}
	}

	key := ProfilePictureKey(username, uuid.NewString(), ext)
	if err := s.store.Save(ctx, key, bytes.NewReader(data)); err != nil {
		return "", err
	}
	return key, nil
}

// Delete ignores empty keys so callers can pass optional media straight through
func (s *mediaService) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return s.store.Delete(ctx, key)
}

func (s *mediaService) URL(key string) string {
	return s.store.URL(key)
}

// PostMediaKey builds uploads/users/{username}/posts/post-{id}{ext}
func PostMediaKey(username, id, ext string) string {
	return path.Join("uploads", "users", slugify(username), "posts", "post-"+id+ext)
}

// ProfilePictureKey builds uploads/users/{username}/profile_picture/{username}-{id}{ext}
func ProfilePictureKey(username, id, ext string) string {
	slug := slugify(username)
	return path.Join("uploads", "users", slug, "profile_picture", slug+"-"+id+ext)
}

// Extension returns the lower-cased extension of key
func Extension(key string) string {
	return strings.ToLower(path.Ext(key))
}

// IsTempKey reports whether key names a temporary blob owned by a scheduled job
func IsTempKey(key string) bool {
	return strings.HasPrefix(key, tempPrefix+"/")
}

// ContentType maps the extension of a stored key to its image MIME type.
// Anything else is served as opaque bytes.
func ContentType(key string) string {
	switch Extension(key) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// extension maps a decoded image format to a file extension. The client's
// filename never decides it.
func extension(format string) string {
	switch format {
	case "jpeg":
		return ".jpg"
	case "":
		return ""
	default:
		return "." + format
	}
}

func sanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	name = unsafeNameChars.ReplaceAllString(name, "_")
	name = strings.TrimLeft(name, ".")
	if len(name) > maxNameLen {
		name = name[len(name)-maxNameLen:]
	}
	return name
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = unsafeNameChars.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-.")
	if s == "" {
		return "user"
	}
	return s
}

// ReadAll reads at most limit+1 bytes so callers can detect oversized uploads
func ReadAll(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	return data, nil
}
