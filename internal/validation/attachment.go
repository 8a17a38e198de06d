package validation

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"

	"github.com/driftwood-dev/driftwood/internal/domain"
)

const (
	MaxAttachmentCount = 3
	MaxAttachmentBytes = 5 << 20 // 5 MiB per file
)

var allowedMimes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// ValidateAttachments enforces count, type and size constraints on uploads.
// The count check covers the whole batch and runs first; then each file is
// checked for type and size in order, first violation wins. On success the
// opened files are returned as pending uploads for the object store.
func ValidateAttachments(fileHeaders []*multipart.FileHeader) ([]*domain.PendingFile, error) {
	if len(fileHeaders) == 0 {
		return nil, nil
	}

	if len(fileHeaders) > MaxAttachmentCount {
		return nil, &AttachmentError{
			Code:    AttachmentsTooMany,
			Message: fmt.Sprintf("at most %d attachments allowed, got %d", MaxAttachmentCount, len(fileHeaders)),
		}
	}

	var pendingFiles []*domain.PendingFile
	cleanup := func() {
		for _, pf := range pendingFiles {
			pf.Data.Close()
		}
	}

	for _, fileHeader := range fileHeaders {
		mimeType, err := DetectMimeType(fileHeader)
		if err != nil {
			cleanup()
			return nil, &AttachmentError{
				Code:    AttachmentInvalidType,
				Message: fmt.Sprintf("could not detect type of %s", fileHeader.Filename),
			}
		}
		if !allowedMimes[mimeType] {
			cleanup()
			return nil, &AttachmentError{
				Code:    AttachmentInvalidType,
				Message: fmt.Sprintf("%s is not an allowed image type (file: %s)", mimeType, fileHeader.Filename),
			}
		}

		if fileHeader.Size > MaxAttachmentBytes {
			cleanup()
			return nil, &AttachmentError{
				Code:    AttachmentTooLarge,
				Message: fmt.Sprintf("%s exceeds the %d MiB limit", fileHeader.Filename, MaxAttachmentBytes>>20),
			}
		}

		file, err := fileHeader.Open()
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to open uploaded file: %w", err)
		}

		width, height := ExtractImageDimensions(file)

		pendingFiles = append(pendingFiles, &domain.PendingFile{
			FileCommonMetadata: domain.FileCommonMetadata{
				Filename:    fileHeader.Filename,
				SizeBytes:   fileHeader.Size,
				MimeType:    mimeType,
				ImageWidth:  width,
				ImageHeight: height,
			},
			Data: file,
		})
	}

	return pendingFiles, nil
}

func DetectMimeType(fileHeader *multipart.FileHeader) (string, error) {
	mimeType := fileHeader.Header.Get("Content-Type")

	// If no Content-Type or it's generic, detect from extension
	if mimeType == "" || mimeType == "application/octet-stream" {
		ext := filepath.Ext(fileHeader.Filename)
		if detectedType := mime.TypeByExtension(ext); detectedType != "" {
			mimeType = detectedType
		}
	}

	if mimeType == "" {
		return "", fmt.Errorf("could not detect MIME type for file: %s", fileHeader.Filename)
	}

	// Strip parameters like "; charset=..."
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}

	return mimeType, nil
}

func ExtractImageDimensions(file multipart.File) (*int, *int) {
	cfg, _, err := image.DecodeConfig(file)
	file.Seek(0, 0)
	if err != nil {
		return nil, nil
	}

	width, height := cfg.Width, cfg.Height
	return &width, &height
}
