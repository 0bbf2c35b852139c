package services

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"invitesmanager/internal/domain"
)

type galleryService struct {
	albumRepo      domain.AlbumRepository
	eventRepo      domain.EventRepository
	storage        domain.ObjectStorage
	images         domain.ImageProcessor
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewGalleryService creates a GalleryService.
func NewGalleryService(albumRepo domain.AlbumRepository, eventRepo domain.EventRepository, objectStorage domain.ObjectStorage, images domain.ImageProcessor, logger *slog.Logger, timeout time.Duration) domain.GalleryService {
	return &galleryService{
		albumRepo:      albumRepo,
		eventRepo:      eventRepo,
		storage:        objectStorage,
		images:         images,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func albumName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: album name is required", domain.ErrInvalidInput)
	}
	return name, nil
}

// ownedAlbum loads an active album and checks that caller owns its event.
func (s *galleryService) ownedAlbum(ctx context.Context, caller domain.Caller, id string) (*domain.Album, error) {
	album, err := s.albumRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !album.IsActive {
		return nil, domain.ErrNotFound
	}
	if _, err := ownedEvent(ctx, s.eventRepo, caller, album.EventID); err != nil {
		return nil, err
	}
	return album, nil
}

func (s *galleryService) ListAlbums(ctx context.Context, caller domain.Caller, eventID string) ([]*domain.Album, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := ownedEvent(ctx, s.eventRepo, caller, eventID); err != nil {
		return nil, err
	}
	return s.albumRepo.ListActiveByEventID(ctx, eventID)
}

func (s *galleryService) CreateAlbum(ctx context.Context, caller domain.Caller, eventID, name string) (*domain.Album, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name, err := albumName(name)
	if err != nil {
		return nil, err
	}
	if _, err := ownedEvent(ctx, s.eventRepo, caller, eventID); err != nil {
		return nil, err
	}
	exists, err := s.albumRepo.ExistsByName(ctx, eventID, name)
	if err != nil {
		return nil, fmt.Errorf("check album: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: album %q", domain.ErrConflict, name)
	}

	album := &domain.Album{EventID: eventID, Name: name, IsActive: true, CreatedAt: s.now().UTC()}
	if err := s.albumRepo.Create(ctx, album); err != nil {
		return nil, fmt.Errorf("create album: %w", err)
	}
	return album, nil
}

func (s *galleryService) RenameAlbum(ctx context.Context, caller domain.Caller, id, name string) (*domain.Album, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name, err := albumName(name)
	if err != nil {
		return nil, err
	}
	album, err := s.ownedAlbum(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(album.Name, name) {
		exists, err := s.albumRepo.ExistsByName(ctx, album.EventID, name)
		if err != nil {
			return nil, fmt.Errorf("check album: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("%w: album %q", domain.ErrConflict, name)
		}
	}
	if err := s.albumRepo.Rename(ctx, id, name); err != nil {
		return nil, fmt.Errorf("rename album: %w", err)
	}
	album.Name = name
	return album, nil
}

func (s *galleryService) DeactivateAlbum(ctx context.Context, caller domain.Caller, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedAlbum(ctx, caller, id); err != nil {
		return err
	}
	return s.albumRepo.Deactivate(ctx, id)
}

func (s *galleryService) AlbumExists(ctx context.Context, caller domain.Caller, eventID, name string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name, err := albumName(name)
	if err != nil {
		return false, err
	}
	if _, err := ownedEvent(ctx, s.eventRepo, caller, eventID); err != nil {
		return false, err
	}
	return s.albumRepo.ExistsByName(ctx, eventID, name)
}

func (s *galleryService) ListImages(ctx context.Context, caller domain.Caller, albumID string) ([]*domain.AlbumImage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedAlbum(ctx, caller, albumID); err != nil {
		return nil, err
	}
	return s.albumRepo.ListActiveImages(ctx, albumID)
}

// AddImages appends images after the current last position of the album.
func (s *galleryService) AddImages(ctx context.Context, caller domain.Caller, albumID string, images [][]byte) ([]*domain.AlbumImage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if len(images) == 0 {
		return nil, fmt.Errorf("%w: at least one image is required", domain.ErrInvalidInput)
	}
	album, err := s.ownedAlbum(ctx, caller, albumID)
	if err != nil {
		return nil, err
	}
	order, err := s.albumRepo.MaxImageOrder(ctx, albumID)
	if err != nil {
		return nil, fmt.Errorf("read image order: %w", err)
	}

	stored, err := storeImages(ctx, s.storage, s.images, s.logger, path.Join("events", album.EventID, "albums", albumID), images)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	added := make([]*domain.AlbumImage, 0, len(stored))
	for _, obj := range stored {
		order++
		added = append(added, &domain.AlbumImage{
			AlbumID:   albumID,
			URL:       obj.URL,
			PublicID:  obj.PublicID,
			SortOrder: order,
			IsActive:  true,
			CreatedAt: now,
		})
	}
	if err := s.albumRepo.CreateImages(ctx, added); err != nil {
		discardObjects(ctx, s.storage, s.logger, stored)
		return nil, fmt.Errorf("save images: %w", err)
	}
	return added, nil
}

func (s *galleryService) ReorderImages(ctx context.Context, caller domain.Caller, orders []domain.ImageOrder) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if len(orders) == 0 {
		return fmt.Errorf("%w: at least one image is required", domain.ErrInvalidInput)
	}
	checked := make(map[string]bool)
	for _, o := range orders {
		if o.SortOrder < 0 {
			return fmt.Errorf("%w: order of %s must not be negative", domain.ErrInvalidInput, o.ID)
		}
		img, err := s.albumRepo.GetImageByID(ctx, o.ID)
		if err != nil {
			return err
		}
		if checked[img.AlbumID] {
			continue
		}
		if _, err := s.ownedAlbum(ctx, caller, img.AlbumID); err != nil {
			return err
		}
		checked[img.AlbumID] = true
	}
	return s.albumRepo.ReorderImages(ctx, orders)
}

func (s *galleryService) DeactivateImage(ctx context.Context, caller domain.Caller, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	img, err := s.albumRepo.GetImageByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.ownedAlbum(ctx, caller, img.AlbumID); err != nil {
		return err
	}
	return s.albumRepo.DeactivateImage(ctx, id)
}
