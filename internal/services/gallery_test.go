package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"invitesmanager/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGalleryFixture() (*galleryService, *fakeAlbumRepo, *fakeStorage, *domain.Event) {
	events := newFakeEventRepo()
	albums := newFakeAlbumRepo()
	store := &fakeStorage{}
	e := events.add(weddingEvent(owner.UserID))
	svc := NewGalleryService(albums, events, store, &fakeImageProcessor{}, discardLogger(), 5*time.Second).(*galleryService)
	svc.now = fixedClock
	return svc, albums, store, e
}

func TestGalleryService_Albums(t *testing.T) {
	ctx := context.Background()
	svc, albums, _, e := newGalleryFixture()

	album, err := svc.CreateAlbum(ctx, owner, e.ID, " Ceremony ")
	require.NoError(t, err)
	assert.Equal(t, "Ceremony", album.Name)
	assert.True(t, album.IsActive)

	_, err = svc.CreateAlbum(ctx, owner, e.ID, "ceremony")
	require.ErrorIs(t, err, domain.ErrConflict)

	exists, err := svc.AlbumExists(ctx, owner, e.ID, "CEREMONY")
	require.NoError(t, err)
	assert.True(t, exists)

	renamed, err := svc.RenameAlbum(ctx, owner, album.ID, "Party")
	require.NoError(t, err)
	assert.Equal(t, "Party", renamed.Name)

	_, err = svc.ListAlbums(ctx, other, e.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, svc.DeactivateAlbum(ctx, owner, album.ID))
	assert.Contains(t, albums.albums, album.ID)
	list, err := svc.ListAlbums(ctx, owner, e.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.RenameAlbum(ctx, owner, album.ID, "Again")
	require.ErrorIs(t, err, domain.ErrNotFound)

	// A deactivated name can be reused.
	_, err = svc.CreateAlbum(ctx, owner, e.ID, "Party")
	require.NoError(t, err)
}

func TestGalleryService_Images(t *testing.T) {
	ctx := context.Background()
	svc, albums, store, e := newGalleryFixture()
	album, err := svc.CreateAlbum(ctx, owner, e.ID, "Ceremony")
	require.NoError(t, err)

	first, err := svc.AddImages(ctx, owner, album.ID, [][]byte{[]byte("a"), []byte("b")})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 1, first[0].SortOrder)
	assert.Equal(t, 2, first[1].SortOrder)
	assert.True(t, strings.HasPrefix(store.puts[0], "events/"+e.ID+"/albums/"+album.ID+"/"))

	more, err := svc.AddImages(ctx, owner, album.ID, [][]byte{[]byte("c")})
	require.NoError(t, err)
	assert.Equal(t, 3, more[0].SortOrder)

	require.NoError(t, svc.ReorderImages(ctx, owner, []domain.ImageOrder{
		{ID: more[0].ID, SortOrder: 1},
		{ID: first[0].ID, SortOrder: 3},
	}))
	require.Len(t, albums.reorders, 1)

	images, err := svc.ListImages(ctx, owner, album.ID)
	require.NoError(t, err)
	require.Len(t, images, 3)
	assert.Equal(t, more[0].ID, images[0].ID)

	require.ErrorIs(t, svc.ReorderImages(ctx, owner, []domain.ImageOrder{{ID: first[0].ID, SortOrder: -1}}), domain.ErrInvalidInput)
	require.ErrorIs(t, svc.ReorderImages(ctx, other, []domain.ImageOrder{{ID: first[0].ID, SortOrder: 1}}), domain.ErrForbidden)

	require.NoError(t, svc.DeactivateImage(ctx, owner, first[1].ID))
	images, err = svc.ListImages(ctx, owner, album.ID)
	require.NoError(t, err)
	assert.Len(t, images, 2)

	_, err = svc.AddImages(ctx, owner, album.ID, nil)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGalleryService_AddImages_AllOrNothing(t *testing.T) {
	ctx := context.Background()

	t.Run("upload failure mid batch", func(t *testing.T) {
		svc, albums, store, e := newGalleryFixture()
		album, err := svc.CreateAlbum(ctx, owner, e.ID, "Party")
		require.NoError(t, err)
		store.putErr = errDB
		store.failAtPut = 2

		_, err = svc.AddImages(ctx, owner, album.ID, [][]byte{[]byte("a"), []byte("b"), []byte("c")})
		require.ErrorIs(t, err, errDB)
		assert.Empty(t, albums.images)
		require.Len(t, store.puts, 1)
		assert.Equal(t, store.puts, store.deleted)
	})
	t.Run("insert failure", func(t *testing.T) {
		svc, albums, store, e := newGalleryFixture()
		album, err := svc.CreateAlbum(ctx, owner, e.ID, "Party")
		require.NoError(t, err)
		albums.createErr = errDB

		_, err = svc.AddImages(ctx, owner, album.ID, [][]byte{[]byte("a"), []byte("b")})
		require.ErrorIs(t, err, errDB)
		assert.Empty(t, albums.images)
		assert.ElementsMatch(t, store.puts, store.deleted)
	})
}
