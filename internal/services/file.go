package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"invitesmanager/internal/adapters/storage"
	"invitesmanager/internal/domain"
)

type fileService struct {
	fileRepo       domain.FileRepository
	eventRepo      domain.EventRepository
	storage        domain.ObjectStorage
	images         domain.ImageProcessor
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewFileService creates a FileService that uploads media to objectStorage before persisting it.
func NewFileService(fileRepo domain.FileRepository, eventRepo domain.EventRepository, objectStorage domain.ObjectStorage, images domain.ImageProcessor, logger *slog.Logger, timeout time.Duration) domain.FileService {
	return &fileService{
		fileRepo:       fileRepo,
		eventRepo:      eventRepo,
		storage:        objectStorage,
		images:         images,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// storeImage normalizes one image and uploads it under folder.
func storeImage(ctx context.Context, objects domain.ObjectStorage, images domain.ImageProcessor, folder string, data []byte) (*domain.StoredObject, error) {
	out, contentType, err := images.Process(data)
	if err != nil {
		return nil, err
	}
	name := "image.jpg"
	if contentType == "image/png" {
		name = "image.png"
	}
	obj, err := objects.Put(ctx, storage.ObjectKey(folder, name), contentType, bytes.NewReader(out), int64(len(out)))
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	return obj, nil
}

// storeImages uploads every image before any row is written. When one fails, the
// objects already uploaded are removed again.
func storeImages(ctx context.Context, objects domain.ObjectStorage, images domain.ImageProcessor, logger *slog.Logger, folder string, data [][]byte) ([]*domain.StoredObject, error) {
	stored := make([]*domain.StoredObject, 0, len(data))
	for i, d := range data {
		obj, err := storeImage(ctx, objects, images, folder, d)
		if err != nil {
			discardObjects(ctx, objects, logger, stored)
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		stored = append(stored, obj)
	}
	return stored, nil
}

// discardObjects removes uploaded objects whose rows were never written.
func discardObjects(ctx context.Context, objects domain.ObjectStorage, logger *slog.Logger, stored []*domain.StoredObject) {
	ctx = context.WithoutCancel(ctx)
	for _, obj := range stored {
		if err := objects.Delete(ctx, obj.PublicID); err != nil {
			logger.WarnContext(ctx, "uploaded object left in storage", "public_id", obj.PublicID, "err", err)
		}
	}
}

func (s *fileService) UploadImages(ctx context.Context, caller domain.Caller, eventID string, images [][]byte) ([]*domain.File, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if len(images) == 0 {
		return nil, fmt.Errorf("%w: at least one image is required", domain.ErrInvalidInput)
	}
	if _, err := ownedEvent(ctx, s.eventRepo, caller, eventID); err != nil {
		return nil, err
	}

	stored, err := storeImages(ctx, s.storage, s.images, s.logger, path.Join("events", eventID, "images"), images)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	files := make([]*domain.File, 0, len(stored))
	for _, obj := range stored {
		files = append(files, &domain.File{
			EventID:   eventID,
			Kind:      domain.FileKindImage,
			URL:       obj.URL,
			PublicID:  obj.PublicID,
			CreatedAt: now,
		})
	}
	if err := s.fileRepo.CreateMany(ctx, files); err != nil {
		discardObjects(ctx, s.storage, s.logger, stored)
		return nil, fmt.Errorf("save images: %w", err)
	}
	return files, nil
}

func (s *fileService) UploadAudio(ctx context.Context, caller domain.Caller, eventID, filename, contentType string, body io.Reader, size int64) (*domain.File, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !strings.HasPrefix(contentType, "audio/") && !strings.HasPrefix(contentType, "video/") {
		return nil, fmt.Errorf("%w: unsupported content type %q", domain.ErrInvalidInput, contentType)
	}
	if _, err := ownedEvent(ctx, s.eventRepo, caller, eventID); err != nil {
		return nil, err
	}

	key := storage.ObjectKey(path.Join("events", eventID, "audio"), filename)
	obj, err := s.storage.Put(ctx, key, contentType, body, size)
	if err != nil {
		return nil, fmt.Errorf("upload audio: %w", err)
	}
	file := &domain.File{
		EventID:   eventID,
		Kind:      domain.FileKindAudio,
		URL:       obj.URL,
		PublicID:  obj.PublicID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.fileRepo.Create(ctx, file); err != nil {
		return nil, fmt.Errorf("save audio: %w", err)
	}
	return file, nil
}

func (s *fileService) ListByEvent(ctx context.Context, caller domain.Caller, eventID string) ([]*domain.File, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := ownedEvent(ctx, s.eventRepo, caller, eventID); err != nil {
		return nil, err
	}
	return s.fileRepo.ListByEventID(ctx, eventID)
}

// ownedFiles loads every file and checks that caller owns their events.
func (s *fileService) ownedFiles(ctx context.Context, caller domain.Caller, ids []string) ([]*domain.File, error) {
	checked := make(map[string]bool)
	files := make([]*domain.File, 0, len(ids))
	for _, id := range ids {
		f, err := s.fileRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !checked[f.EventID] {
			if _, err := ownedEvent(ctx, s.eventRepo, caller, f.EventID); err != nil {
				return nil, err
			}
			checked[f.EventID] = true
		}
		files = append(files, f)
	}
	return files, nil
}

func (s *fileService) UpdateUsage(ctx context.Context, caller domain.Caller, updates []domain.UsageUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if len(updates) == 0 {
		return fmt.Errorf("%w: at least one update is required", domain.ErrInvalidInput)
	}
	ids := make([]string, len(updates))
	for i, u := range updates {
		if utf8.RuneCountInString(u.Usage) != 1 {
			return fmt.Errorf("%w: usage of %s must be a single character", domain.ErrInvalidInput, u.ID)
		}
		ids[i] = u.ID
	}
	if _, err := s.ownedFiles(ctx, caller, ids); err != nil {
		return err
	}
	return s.fileRepo.UpdateUsage(ctx, updates)
}

// Delete removes the remote object before the row, so a failed remote delete can be retried.
func (s *fileService) Delete(ctx context.Context, caller domain.Caller, ids []string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one id is required", domain.ErrInvalidInput)
	}
	files, err := s.ownedFiles(ctx, caller, ids)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := s.storage.Delete(ctx, f.PublicID); err != nil {
			return fmt.Errorf("delete object of %s: %w", f.ID, err)
		}
		if err := s.fileRepo.Delete(ctx, f.ID); err != nil {
			return fmt.Errorf("delete file %s: %w", f.ID, err)
		}
		s.logger.InfoContext(ctx, "file deleted", "file_id", f.ID, "event_id", f.EventID)
	}
	return nil
}
