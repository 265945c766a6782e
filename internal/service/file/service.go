package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoding
	"io"
	"math"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/odpc9/attendance-backend-go/internal/domain/meta"
	"github.com/odpc9/attendance-backend-go/internal/pkg/storage"
	"github.com/odpc9/attendance-backend-go/internal/pkg/validator"
	"golang.org/x/image/draw"
)

// Photos above this size are re-encoded as JPEG before upload.
const maxPhotoSize = 1 << 20

var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

type FileService interface {
	// UploadLeaveAttachment stores a supporting document for a leave
	// submission and returns its public URL.
	UploadLeaveAttachment(ctx context.Context, file io.Reader, filename string) (string, error)

	// UploadTravelAttachment stores the approval memo of a travel group.
	UploadTravelAttachment(ctx context.Context, groupID string, file io.Reader, filename string) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
	now     func() time.Time
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
		now:     time.Now,
	}
}

func (s *fileServiceImpl) UploadLeaveAttachment(ctx context.Context, file io.Reader, filename string) (string, error) {
	dir := path.Join("leave", s.now().Format("2006-01"))
	return s.upload(ctx, dir, file, filename)
}

func (s *fileServiceImpl) UploadTravelAttachment(ctx context.Context, groupID string, file io.Reader, filename string) (string, error) {
	return s.upload(ctx, path.Join("travel", groupID), file, filename)
}

func (s *fileServiceImpl) upload(ctx context.Context, dir string, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !validator.HasExtension(filename, meta.AttachmentExtensions) {
		return "", fmt.Errorf("invalid file type: only %s allowed", strings.Join(meta.AttachmentExtensions, ", "))
	}
	contentType := contentTypes[ext]

	buffer, err := io.ReadAll(io.LimitReader(file, meta.MaxAttachmentSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read attachment: %w", err)
	}
	if len(buffer) > meta.MaxAttachmentSize {
		return "", fmt.Errorf("attachment exceeds %d bytes", meta.MaxAttachmentSize)
	}

	if strings.HasPrefix(contentType, "image/") && len(buffer) > maxPhotoSize {
		compressed, err := compressImage(buffer, maxPhotoSize)
		if err != nil {
			return "", fmt.Errorf("failed to compress image: %w", err)
		}
		buffer, ext, contentType = compressed, ".jpg", "image/jpeg"
	}

	key := path.Join(dir, fmt.Sprintf("%s-%d%s", uuid.New().String(), s.now().Unix(), ext))
	stored, err := s.storage.Upload(ctx, bytes.NewReader(buffer), key, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload attachment: %w", err)
	}

	return s.storage.URL(stored), nil
}

// compressImage re-encodes a photo as JPEG with falling quality, then
// downscales it if it is still larger than maxSize.
func compressImage(buffer []byte, maxSize int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var compressed []byte
	quality := 85
	for ; ; quality -= 10 {
		buf := new(bytes.Buffer)
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		compressed = buf.Bytes()
		if len(compressed) <= maxSize || quality <= 55 {
			break
		}
	}
	if len(compressed) <= maxSize {
		return compressed, nil
	}

	// Aim slightly under maxSize; encoded size tracks pixel count.
	bounds := img.Bounds()
	ratio := math.Sqrt(0.9 * float64(maxSize) / float64(len(compressed)))
	width := int(float64(bounds.Dx()) * ratio)
	height := int(float64(bounds.Dy()) * ratio)
	if width < 1 || height < 1 {
		return compressed, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}
	return buf.Bytes(), nil
}
