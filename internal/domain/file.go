package domain

import (
	"context"
	"io"
	"time"
)

// FileKind distinguishes the two media kinds an event stores.
type FileKind string

const (
	FileKindImage FileKind = "image"
	FileKindAudio FileKind = "audio"
)

// File is an uploaded media asset of an event. URL and PublicID come from object storage.
// swagger:model File
type File struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	Kind      FileKind  `json:"kind"`
	URL       string    `json:"url"`
	PublicID  string    `json:"publicId"`
	Usage     *string   `json:"usage"`
	CreatedAt time.Time `json:"createdAt"`
}

// UsageUpdate tags a file with a single-character usage marker.
type UsageUpdate struct {
	ID    string
	Usage string
}

// StoredObject is what object storage returns after an upload.
type StoredObject struct {
	URL      string
	PublicID string
}

// ObjectStorage is the external media store (infrastructure port).
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (*StoredObject, error)
	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, publicID string) error
}

// ImageProcessor normalizes uploaded images before they are stored.
type ImageProcessor interface {
	Process(data []byte) (out []byte, contentType string, err error)
}

// FileRepository defines storage operations for event files.
type FileRepository interface {
	Create(ctx context.Context, file *File) error
	// CreateMany inserts every file in one transaction.
	CreateMany(ctx context.Context, files []*File) error
	GetByID(ctx context.Context, id string) (*File, error)
	ListByEventID(ctx context.Context, eventID string) ([]*File, error)
	// UpdateUsage applies every update in one transaction.
	UpdateUsage(ctx context.Context, updates []UsageUpdate) error
	Delete(ctx context.Context, id string) error
}

// FileService defines the business logic for event media.
type FileService interface {
	UploadImages(ctx context.Context, caller Caller, eventID string, images [][]byte) ([]*File, error)
	UploadAudio(ctx context.Context, caller Caller, eventID, filename, contentType string, body io.Reader, size int64) (*File, error)
	ListByEvent(ctx context.Context, caller Caller, eventID string) ([]*File, error)
	UpdateUsage(ctx context.Context, caller Caller, updates []UsageUpdate) error
	Delete(ctx context.Context, caller Caller, ids []string) error
}
