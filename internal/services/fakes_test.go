package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"invitesmanager/internal/domain"
)

var fixedNow = time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

var (
	admin  = domain.Caller{UserID: "admin-1", Roles: []string{domain.RoleAdmin}}
	owner  = domain.Caller{UserID: "owner-1", Roles: []string{domain.RoleInvitesAdmin}}
	other  = domain.Caller{UserID: "other-1", Roles: []string{domain.RoleInvitesAdmin}}
	errDB  = errors.New("db down")
	intPtr = func(v int) *int { return &v }
	strPtr = func(v string) *string { return &v }
)

// fakeEventRepo is an in-memory EventRepository. On an override update it resets the linked
// invites and settings the way the SQL transaction does.
type fakeEventRepo struct {
	byID      map[string]*domain.Event
	nextID    int
	err       error // if set, Create returns this error
	updateErr error
	invites   *fakeInviteRepo
	settings  *fakeSettingsRepo
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[string]*domain.Event), nextID: 1}
}

func (f *fakeEventRepo) add(e *domain.Event) *domain.Event {
	if e.ID == "" {
		e.ID = fmt.Sprintf("ev-%d", f.nextID)
		f.nextID++
	}
	f.byID[e.ID] = e
	return e
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	f.add(e)
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEventRepo) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		if e.UserID == ownerID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event, override, overrideViewed bool) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *e
	f.byID[e.ID] = &cp
	if f.invites != nil {
		for _, inv := range f.invites.byID {
			if inv.EventID != e.ID {
				continue
			}
			switch {
			case override:
				inv.Confirmation, inv.Message, inv.EntriesConfirmed = nil, nil, nil
				inv.DateOfConfirmation, inv.NeedsAccommodation = nil, nil
				inv.IsMessageRead, inv.InviteViewed = false, false
			case overrideViewed:
				inv.InviteViewed = false
			}
		}
	}
	if override && f.settings != nil {
		delete(f.settings.byEventID, e.ID)
	}
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeInviteRepo is an in-memory InviteRepository.
type fakeInviteRepo struct {
	byID       map[string]*domain.Invite
	nextID     int
	err        error
	events     *fakeEventRepo
	bulkGroups []*domain.InviteGroup
}

func newFakeInviteRepo(events *fakeEventRepo) *fakeInviteRepo {
	return &fakeInviteRepo{byID: make(map[string]*domain.Invite), nextID: 1, events: events}
}

func (f *fakeInviteRepo) add(inv *domain.Invite) *domain.Invite {
	if inv.ID == "" {
		inv.ID = fmt.Sprintf("inv-%d", f.nextID)
		f.nextID++
	}
	f.byID[inv.ID] = inv
	return inv
}

func (f *fakeInviteRepo) Create(ctx context.Context, inv *domain.Invite) error {
	if f.err != nil {
		return f.err
	}
	f.add(inv)
	return nil
}

func (f *fakeInviteRepo) BulkCreate(ctx context.Context, groups []*domain.InviteGroup, invites []*domain.Invite) error {
	if f.err != nil {
		return f.err
	}
	f.bulkGroups = append(f.bulkGroups, groups...)
	for _, inv := range invites {
		f.add(inv)
	}
	return nil
}

func (f *fakeInviteRepo) GetByID(ctx context.Context, id string) (*domain.Invite, error) {
	if inv, ok := f.byID[id]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInviteRepo) filter(keep func(*domain.Invite) bool) []*domain.Invite {
	var out []*domain.Invite
	for _, inv := range f.byID {
		if keep(inv) {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeInviteRepo) List(ctx context.Context) ([]*domain.Invite, error) {
	return f.filter(func(*domain.Invite) bool { return true }), nil
}

func (f *fakeInviteRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Invite, error) {
	return f.filter(func(inv *domain.Invite) bool { return inv.EventID == eventID }), nil
}

func (f *fakeInviteRepo) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Invite, error) {
	return f.filter(func(inv *domain.Invite) bool {
		e, ok := f.events.byID[inv.EventID]
		return ok && e.UserID == ownerID
	}), nil
}

func (f *fakeInviteRepo) Update(ctx context.Context, inv *domain.Invite) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *inv
	f.byID[inv.ID] = &cp
	return nil
}

func (f *fakeInviteRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeInviteRepo) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := f.byID[id]; ok {
			delete(f.byID, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeInviteRepo) SubmitRSVP(ctx context.Context, id string, rsvp domain.RSVP) error {
	inv, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	if inv.Confirmation != nil {
		return domain.ErrAlreadyConfirmed
	}
	f.apply(inv, rsvp)
	inv.Message = rsvp.Message
	inv.NeedsAccommodation = rsvp.NeedsAccommodation
	return nil
}

func (f *fakeInviteRepo) apply(inv *domain.Invite, rsvp domain.RSVP) {
	c, n, at := rsvp.Confirmation, rsvp.EntriesConfirmed, rsvp.DateOfConfirmation
	inv.Confirmation, inv.EntriesConfirmed, inv.DateOfConfirmation = &c, &n, &at
}

func (f *fakeInviteRepo) CancelPending(ctx context.Context, eventID string, at time.Time) (int64, error) {
	var n int64
	for _, inv := range f.byID {
		if inv.EventID == eventID && inv.Confirmation == nil {
			f.apply(inv, domain.RSVP{Confirmation: false, DateOfConfirmation: at})
			inv.Message = nil
			n++
		}
	}
	return n, nil
}

func (f *fakeInviteRepo) OverwriteConfirmation(ctx context.Context, id string, rsvp domain.RSVP) error {
	inv, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	f.apply(inv, rsvp)
	inv.Message = nil
	return nil
}

func (f *fakeInviteRepo) MarkMessageRead(ctx context.Context, id string) error {
	inv, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.IsMessageRead = true
	return nil
}

func (f *fakeInviteRepo) MarkViewed(ctx context.Context, id string) error {
	inv, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.InviteViewed = true
	return nil
}

// fakeInviteGroupRepo is an in-memory InviteGroupRepository.
type fakeInviteGroupRepo struct {
	byID   map[string]*domain.InviteGroup
	nextID int
	err    error
}

func newFakeInviteGroupRepo() *fakeInviteGroupRepo {
	return &fakeInviteGroupRepo{byID: make(map[string]*domain.InviteGroup), nextID: 1}
}

func (f *fakeInviteGroupRepo) Create(ctx context.Context, g *domain.InviteGroup) error {
	if f.err != nil {
		return f.err
	}
	g.ID = fmt.Sprintf("grp-%d", f.nextID)
	f.nextID++
	f.byID[g.ID] = g
	return nil
}

func (f *fakeInviteGroupRepo) GetByID(ctx context.Context, id string) (*domain.InviteGroup, error) {
	if g, ok := f.byID[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInviteGroupRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.InviteGroup, error) {
	var out []*domain.InviteGroup
	for _, g := range f.byID {
		if g.EventID == eventID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeInviteGroupRepo) Rename(ctx context.Context, id, name string) error {
	g, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	g.InviteGroup = name
	return nil
}

func (f *fakeInviteGroupRepo) ExistsByName(ctx context.Context, eventID, name string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, g := range f.byID {
		if g.EventID == eventID && strings.EqualFold(strings.TrimSpace(g.InviteGroup), strings.TrimSpace(name)) {
			return true, nil
		}
	}
	return false, nil
}

// fakeSettingsRepo is an in-memory SettingsRepository.
type fakeSettingsRepo struct {
	byEventID map[string]*domain.EventSettings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{byEventID: make(map[string]*domain.EventSettings)}
}

func (f *fakeSettingsRepo) Create(ctx context.Context, s *domain.EventSettings) error {
	if _, ok := f.byEventID[s.EventID]; ok {
		return domain.ErrConflict
	}
	f.byEventID[s.EventID] = s
	return nil
}

func (f *fakeSettingsRepo) GetByEventID(ctx context.Context, eventID string) (*domain.EventSettings, error) {
	if s, ok := f.byEventID[eventID]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSettingsRepo) Update(ctx context.Context, s *domain.EventSettings) error {
	existing, ok := f.byEventID[s.EventID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *s
	cp.CreatedAt = existing.CreatedAt
	f.byEventID[s.EventID] = &cp
	return nil
}

// fakeFileRepo is an in-memory FileRepository.
type fakeFileRepo struct {
	byID      map[string]*domain.File
	nextID    int
	createErr error
	deleteErr error
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{byID: make(map[string]*domain.File), nextID: 1}
}

func (f *fakeFileRepo) Create(ctx context.Context, file *domain.File) error {
	file.ID = fmt.Sprintf("file-%d", f.nextID)
	f.nextID++
	f.byID[file.ID] = file
	return nil
}

// CreateMany stores nothing when createErr is set, like a rolled back transaction.
func (f *fakeFileRepo) CreateMany(ctx context.Context, files []*domain.File) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, file := range files {
		_ = f.Create(ctx, file)
	}
	return nil
}

func (f *fakeFileRepo) GetByID(ctx context.Context, id string) (*domain.File, error) {
	if file, ok := f.byID[id]; ok {
		return file, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeFileRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.File, error) {
	var out []*domain.File
	for _, file := range f.byID {
		if file.EventID == eventID {
			out = append(out, file)
		}
	}
	return out, nil
}

func (f *fakeFileRepo) UpdateUsage(ctx context.Context, updates []domain.UsageUpdate) error {
	for _, u := range updates {
		if _, ok := f.byID[u.ID]; !ok {
			return domain.ErrNotFound
		}
	}
	for _, u := range updates {
		usage := u.Usage
		f.byID[u.ID].Usage = &usage
	}
	return nil
}

func (f *fakeFileRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeAlbumRepo is an in-memory AlbumRepository.
type fakeAlbumRepo struct {
	albums    map[string]*domain.Album
	images    map[string]*domain.AlbumImage
	nextID    int
	reorders  [][]domain.ImageOrder
	createErr error
}

func newFakeAlbumRepo() *fakeAlbumRepo {
	return &fakeAlbumRepo{albums: make(map[string]*domain.Album), images: make(map[string]*domain.AlbumImage), nextID: 1}
}

func (f *fakeAlbumRepo) id(prefix string) string {
	id := fmt.Sprintf("%s-%d", prefix, f.nextID)
	f.nextID++
	return id
}

func (f *fakeAlbumRepo) Create(ctx context.Context, a *domain.Album) error {
	a.ID = f.id("alb")
	f.albums[a.ID] = a
	return nil
}

func (f *fakeAlbumRepo) GetByID(ctx context.Context, id string) (*domain.Album, error) {
	if a, ok := f.albums[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAlbumRepo) ListActiveByEventID(ctx context.Context, eventID string) ([]*domain.Album, error) {
	var out []*domain.Album
	for _, a := range f.albums {
		if a.EventID == eventID && a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAlbumRepo) Rename(ctx context.Context, id, name string) error {
	a, ok := f.albums[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Name = name
	return nil
}

func (f *fakeAlbumRepo) Deactivate(ctx context.Context, id string) error {
	a, ok := f.albums[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.IsActive = false
	return nil
}

func (f *fakeAlbumRepo) ExistsByName(ctx context.Context, eventID, name string) (bool, error) {
	for _, a := range f.albums {
		if a.EventID == eventID && a.IsActive && strings.EqualFold(a.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAlbumRepo) CreateImages(ctx context.Context, images []*domain.AlbumImage) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, img := range images {
		img.ID = f.id("img")
		f.images[img.ID] = img
	}
	return nil
}

func (f *fakeAlbumRepo) GetImageByID(ctx context.Context, id string) (*domain.AlbumImage, error) {
	if img, ok := f.images[id]; ok {
		return img, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAlbumRepo) ListActiveImages(ctx context.Context, albumID string) ([]*domain.AlbumImage, error) {
	var out []*domain.AlbumImage
	for _, img := range f.images {
		if img.AlbumID == albumID && img.IsActive {
			out = append(out, img)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (f *fakeAlbumRepo) MaxImageOrder(ctx context.Context, albumID string) (int, error) {
	highest := 0
	for _, img := range f.images {
		if img.AlbumID == albumID && img.SortOrder > highest {
			highest = img.SortOrder
		}
	}
	return highest, nil
}

func (f *fakeAlbumRepo) ReorderImages(ctx context.Context, orders []domain.ImageOrder) error {
	f.reorders = append(f.reorders, orders)
	for _, o := range orders {
		f.images[o.ID].SortOrder = o.SortOrder
	}
	return nil
}

func (f *fakeAlbumRepo) DeactivateImage(ctx context.Context, id string) error {
	img, ok := f.images[id]
	if !ok {
		return domain.ErrNotFound
	}
	img.IsActive = false
	return nil
}

// fakeStorage records uploads and deletions.
type fakeStorage struct {
	puts      []string
	deleted   []string
	putErr    error
	deleteErr error
	// failAtPut makes the n-th Put (1-based) fail with putErr.
	failAtPut int
	putCalls  int
}

func (f *fakeStorage) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (*domain.StoredObject, error) {
	f.putCalls++
	if f.putErr != nil && (f.failAtPut == 0 || f.failAtPut == f.putCalls) {
		return nil, f.putErr
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return nil, err
	}
	f.puts = append(f.puts, key)
	return &domain.StoredObject{URL: "https://cdn.test/" + key, PublicID: key}, nil
}

func (f *fakeStorage) Delete(ctx context.Context, publicID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, publicID)
	return nil
}

// fakeImageProcessor passes images through unchanged.
type fakeImageProcessor struct {
	contentType string
	err         error
}

func (f *fakeImageProcessor) Process(data []byte) ([]byte, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	ct := f.contentType
	if ct == "" {
		ct = "image/jpeg"
	}
	return data, ct, nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	byID      map[string]*domain.User
	nextID    int
	createErr error
	updateErr error
	roleSets  map[string][]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*domain.User), nextID: 1, roleSets: make(map[string][]string)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
		if existing.Username == u.Username {
			return domain.ErrDuplicateUsername
		}
	}
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		// Return a copy so tests can mutate without affecting stored
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) List(ctx context.Context, params domain.PaginationParams) ([]*domain.User, int, error) {
	var out []*domain.User
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (f *fakeUserRepo) ListBasic(ctx context.Context) ([]*domain.UserBasic, error) {
	var out []*domain.UserBasic
	for _, u := range f.byID {
		if u.IsActive {
			out = append(out, &domain.UserBasic{ID: u.ID, Username: u.Username})
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u *domain.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	for _, existing := range f.byID {
		if existing.ID != u.ID && existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUserRepo) SetRoles(ctx context.Context, userID string, roleIDs []string) error {
	f.roleSets[userID] = roleIDs
	return nil
}

// fakeRoleRepo is an in-memory RoleRepository.
type fakeRoleRepo struct {
	byID      map[string]*domain.Role
	listByUID map[string][]*domain.Role
	nextID    int
	getErr    error
}

func newFakeRoleRepo(names ...string) *fakeRoleRepo {
	f := &fakeRoleRepo{byID: make(map[string]*domain.Role), listByUID: make(map[string][]*domain.Role), nextID: 1}
	for _, n := range names {
		_ = f.Create(context.Background(), domain.NewRole("", n))
	}
	return f
}

func (f *fakeRoleRepo) Create(ctx context.Context, r *domain.Role) error {
	for _, existing := range f.byID {
		if existing.Name == r.Name {
			return domain.ErrConflict
		}
	}
	r.ID = fmt.Sprintf("role-%d", f.nextID)
	f.nextID++
	f.byID[r.ID] = r
	return nil
}

func (f *fakeRoleRepo) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	if r, ok := f.byID[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRoleRepo) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, r := range f.byID {
		if r.Name == name {
			cp := *r
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRoleRepo) List(ctx context.Context) ([]*domain.Role, error) {
	var out []*domain.Role
	for _, r := range f.byID {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRoleRepo) Update(ctx context.Context, r *domain.Role) error {
	if _, ok := f.byID[r.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *r
	f.byID[r.ID] = &cp
	return nil
}

func (f *fakeRoleRepo) Count(ctx context.Context) (int, error) {
	return len(f.byID), nil
}

func (f *fakeRoleRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Role, error) {
	return f.listByUID[userID], nil
}

// fakePasswordHasher implements domain.PasswordHasher for tests.
type fakePasswordHasher struct {
	salt string
}

func (f *fakePasswordHasher) GenerateSalt() (string, error) { return f.salt, nil }
func (f *fakePasswordHasher) Hash(salt, password string) (string, error) {
	return "hash-" + salt + "-" + password, nil
}
func (f *fakePasswordHasher) Compare(hash, salt, password string) error {
	if hash != "hash-"+salt+"-"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct {
	last domain.TokenClaims
	err  error
}

func (f *fakeTokenIssuer) Issue(claims domain.TokenClaims, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.last = claims
	return "token-" + claims.UserID, nil
}

type publishCall struct {
	username     string
	notification domain.Notification
}

// fakeNotifier records realtime publications.
type fakeNotifier struct {
	mu    sync.Mutex
	calls []publishCall
}

func (f *fakeNotifier) Publish(username string, n domain.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, publishCall{username: username, notification: n})
}

// fakeEmailService records domain mails.
type fakeEmailService struct {
	welcome []*domain.WelcomeMessageEmailData
	rsvp    []*domain.RSVPReceivedEmailData
	err     error
}

func (f *fakeEmailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	f.welcome = append(f.welcome, data)
	return f.err
}

func (f *fakeEmailService) SendRSVPReceived(ctx context.Context, data *domain.RSVPReceivedEmailData) error {
	f.rsvp = append(f.rsvp, data)
	return f.err
}
