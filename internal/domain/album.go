package domain

import (
	"context"
	"time"
)

// Album groups gallery images of an event. Albums are soft-deleted.
// swagger:model Album
type Album struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// AlbumImage is one ordered image of an album. Images are soft-deleted.
// swagger:model AlbumImage
type AlbumImage struct {
	ID        string    `json:"id"`
	AlbumID   string    `json:"albumId"`
	URL       string    `json:"url"`
	PublicID  string    `json:"publicId"`
	SortOrder int       `json:"order"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// ImageOrder moves an image to a position within its album.
type ImageOrder struct {
	ID        string
	SortOrder int
}

// AlbumRepository defines storage operations for albums and their images.
type AlbumRepository interface {
	Create(ctx context.Context, album *Album) error
	GetByID(ctx context.Context, id string) (*Album, error)
	ListActiveByEventID(ctx context.Context, eventID string) ([]*Album, error)
	Rename(ctx context.Context, id, name string) error
	Deactivate(ctx context.Context, id string) error
	ExistsByName(ctx context.Context, eventID, name string) (bool, error)

	// CreateImages inserts every image in one transaction.
	CreateImages(ctx context.Context, images []*AlbumImage) error
	GetImageByID(ctx context.Context, id string) (*AlbumImage, error)
	ListActiveImages(ctx context.Context, albumID string) ([]*AlbumImage, error)
	MaxImageOrder(ctx context.Context, albumID string) (int, error)
	// ReorderImages applies every order change in one transaction.
	ReorderImages(ctx context.Context, orders []ImageOrder) error
	DeactivateImage(ctx context.Context, id string) error
}

// GalleryService defines the business logic for albums.
type GalleryService interface {
	ListAlbums(ctx context.Context, caller Caller, eventID string) ([]*Album, error)
	CreateAlbum(ctx context.Context, caller Caller, eventID, name string) (*Album, error)
	RenameAlbum(ctx context.Context, caller Caller, id, name string) (*Album, error)
	DeactivateAlbum(ctx context.Context, caller Caller, id string) error
	AlbumExists(ctx context.Context, caller Caller, eventID, name string) (bool, error)
	ListImages(ctx context.Context, caller Caller, albumID string) ([]*AlbumImage, error)
	AddImages(ctx context.Context, caller Caller, albumID string, images [][]byte) ([]*AlbumImage, error)
	ReorderImages(ctx context.Context, caller Caller, orders []ImageOrder) error
	DeactivateImage(ctx context.Context, caller Caller, id string) error
}
