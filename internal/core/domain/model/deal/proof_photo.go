package deal

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

const (
	// MaxProofPhotoBytes bounds the size of an inline proof image.
	MaxProofPhotoBytes = 1 << 20 // 1 MiB

	// MaxProofPhotos caps how many photos a deal retains; the oldest is
	// evicted first.
	MaxProofPhotos = 3
)

// allowedPhotoFormats are the accepted content types for proof photos.
var allowedPhotoFormats = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// ProofPhoto is a small inline image a transporter attaches as evidence of
// pickup or delivery condition.
type ProofPhoto struct {
	id         kernel.UUID
	format     string
	data       []byte
	uploadedAt time.Time
}

// NewProofPhoto validates format and size and stamps the upload time.
func NewProofPhoto(format string, data []byte, uploadedAt time.Time) (ProofPhoto, error) {
	if !allowedPhotoFormats[format] {
		return ProofPhoto{}, errs.NewValueIsInvalidError("photo format")
	}
	if len(data) == 0 {
		return ProofPhoto{}, errs.NewValueIsRequiredError("photo data")
	}
	if len(data) > MaxProofPhotoBytes {
		return ProofPhoto{}, errs.NewValueIsOutOfRangeError("photo size", len(data), 1, MaxProofPhotoBytes)
	}

	return ProofPhoto{
		id:         kernel.NewUUID(),
		format:     format,
		data:       data,
		uploadedAt: uploadedAt,
	}, nil
}

// RestoreProofPhoto rehydrates a photo from persistence without re-running
// upload validation.
func RestoreProofPhoto(id kernel.UUID, format string, data []byte, uploadedAt time.Time) ProofPhoto {
	return ProofPhoto{id: id, format: format, data: data, uploadedAt: uploadedAt}
}

// ID returns the photo identifier.
func (p ProofPhoto) ID() kernel.UUID { return p.id }

// Format returns the image content type.
func (p ProofPhoto) Format() string { return p.format }

// Data returns the raw image bytes.
func (p ProofPhoto) Data() []byte { return p.data }

// UploadedAt returns the upload timestamp.
func (p ProofPhoto) UploadedAt() time.Time { return p.uploadedAt }
