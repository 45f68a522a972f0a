package registration

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Romain-GUILLEMOT/TubeBack/models"
	"github.com/Romain-GUILLEMOT/TubeBack/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu          sync.Mutex
	users       map[uuid.UUID]*models.User
	findCalls   int
	createCalls int
	createErr   error
	hideCreated bool
}

func newFakeStore(existing ...*models.User) *fakeStore {
	s := &fakeStore{users: map[uuid.UUID]*models.User{}}
	for _, u := range existing {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeStore) FindByUsernameOrEmail(_ context.Context, username, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findCalls++
	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	if s.createErr != nil {
		return s.createErr
	}
	s.users[u.ID] = u
	return nil
}

func (s *fakeStore) FindByID(_ context.Context, id uuid.UUID) (*models.PublicUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || s.hideCreated {
		return nil, nil
	}
	return u.Public(), nil
}

func (s *fakeStore) only(t *testing.T) *models.User {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.Len(t, s.users, 1)
	for _, u := range s.users {
		return u
	}
	return nil
}

type fakeMedia struct {
	mu       sync.Mutex
	uploaded []string
	presets  []utils.ImagePreset
	removed  []string
	failFor  map[string]bool
}

func (m *fakeMedia) Upload(_ context.Context, localPath string, preset utils.ImagePreset) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploaded = append(m.uploaded, localPath)
	m.presets = append(m.presets, preset)
	if m.failFor[localPath] {
		return "", errors.New("upstream unavailable")
	}
	return "https://cdn.test/media/" + filepath.Base(localPath) + ".webp", nil
}

func (m *fakeMedia) Remove(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, url)
	return nil
}

type fakeNotifier struct {
	sent chan *models.PublicUser
}

func (n *fakeNotifier) Welcome(_ context.Context, user *models.PublicUser) error {
	n.sent <- user
	return nil
}

const (
	avatarPath = "/tmp/staged/avatar.png"
	coverPath  = "/tmp/staged/cover.jpg"
)

func validInput() Input {
	return Input{
		Fullname: "Jane Doe",
		Email:    "jane@x.com",
		Username: "JaneD",
		Password: "secret",
		Files:    map[string]string{FieldAvatar: avatarPath},
	}
}

func requireKind(t *testing.T, err error, kind utils.ErrorKind, message string) {
	t.Helper()
	var apiErr *utils.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, kind, apiErr.Kind)
	assert.Equal(t, message, apiErr.Message)
}

func TestRegisterRejectsBlankFields(t *testing.T) {
	cases := map[string]func(in *Input){
		"missing fullname":    func(in *Input) { in.Fullname = "" },
		"blank email":         func(in *Input) { in.Email = "   " },
		"missing username":    func(in *Input) { in.Username = "" },
		"whitespace password": func(in *Input) { in.Password = "\t\n " },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			store := newFakeStore()
			media := &fakeMedia{}
			svc := NewService(store, media, Options{})

			in := validInput()
			mutate(&in)
			user, err := svc.Register(context.Background(), in)

			assert.Nil(t, user)
			requireKind(t, err, utils.ValidationError, MsgFieldsRequired)
			assert.Zero(t, store.findCalls)
			assert.Zero(t, store.createCalls)
			assert.Empty(t, media.uploaded)
		})
	}
}

func TestRegisterConflictWithExistingUser(t *testing.T) {
	existing := &models.User{ID: uuid.New(), Username: "janed", Email: "other@x.com"}

	t.Run("same username, different case", func(t *testing.T) {
		store := newFakeStore(existing)
		media := &fakeMedia{}
		_, err := NewService(store, media, Options{}).Register(context.Background(), validInput())

		requireKind(t, err, utils.ConflictError, MsgUserExists)
		assert.Empty(t, media.uploaded)
		assert.Zero(t, store.createCalls)
	})

	t.Run("same email", func(t *testing.T) {
		store := newFakeStore(existing)
		media := &fakeMedia{}
		in := validInput()
		in.Username = "someoneelse"
		in.Email = "other@x.com"
		_, err := NewService(store, media, Options{}).Register(context.Background(), in)

		requireKind(t, err, utils.ConflictError, MsgUserExists)
		assert.Empty(t, media.uploaded)
		assert.Zero(t, store.createCalls)
	})
}

func TestRegisterRequiresAvatarBeforeUploading(t *testing.T) {
	store := newFakeStore()
	media := &fakeMedia{}
	in := validInput()
	in.Files = map[string]string{FieldCoverImage: coverPath}

	_, err := NewService(store, media, Options{}).Register(context.Background(), in)

	requireKind(t, err, utils.ValidationError, MsgAvatarRequired)
	assert.Empty(t, media.uploaded)
	assert.Zero(t, store.createCalls)
}

func TestRegisterWithoutCoverImage(t *testing.T) {
	store := newFakeStore()
	media := &fakeMedia{}

	user, err := NewService(store, media, Options{}).Register(context.Background(), validInput())
	require.NoError(t, err)

	stored := store.only(t)
	assert.Equal(t, "", stored.CoverImage)
	assert.Equal(t, "https://cdn.test/media/avatar.png.webp", stored.Avatar)
	assert.Equal(t, stored.Avatar, user.Avatar)
	assert.Equal(t, []string{avatarPath}, media.uploaded)
	assert.Equal(t, []utils.ImagePreset{utils.PresetAvatar}, media.presets)
}

func TestRegisterToleratesCoverUploadFailure(t *testing.T) {
	store := newFakeStore()
	media := &fakeMedia{failFor: map[string]bool{coverPath: true}}
	in := validInput()
	in.Files[FieldCoverImage] = coverPath

	user, err := NewService(store, media, Options{}).Register(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "", user.CoverImage)
	assert.Equal(t, "", store.only(t).CoverImage)
	assert.Equal(t, []string{avatarPath, coverPath}, media.uploaded)
}

func TestRegisterStoresBothImages(t *testing.T) {
	store := newFakeStore()
	media := &fakeMedia{}
	in := validInput()
	in.Files[FieldCoverImage] = coverPath

	user, err := NewService(store, media, Options{}).Register(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.test/media/cover.jpg.webp", user.CoverImage)
	assert.Equal(t, []utils.ImagePreset{utils.PresetAvatar, utils.PresetCover}, media.presets)
}

func TestRegisterFailsWhenAvatarUploadFails(t *testing.T) {
	store := newFakeStore()
	media := &fakeMedia{failFor: map[string]bool{avatarPath: true}}
	in := validInput()
	in.Files[FieldCoverImage] = coverPath

	_, err := NewService(store, media, Options{}).Register(context.Background(), in)

	requireKind(t, err, utils.ValidationError, MsgAvatarRequired)
	assert.Zero(t, store.createCalls)
	assert.Equal(t, []string{avatarPath}, media.uploaded, "cover must not be uploaded after the avatar failed")
}

func TestRegisterExampleUser(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeMedia{}, Options{})

	user, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	stored := store.only(t)
	assert.Equal(t, "janed", stored.Username)
	assert.Equal(t, "janed", user.Username)
	assert.Equal(t, "Jane Doe", stored.Fullname)
	assert.Equal(t, "jane@x.com", stored.Email)
	assert.NotEqual(t, "secret", stored.Password)
	assert.True(t, utils.CheckPasswordHash("secret", stored.Password))
	assert.Equal(t, stored.ID, user.ID)
	assert.WithinDuration(t, time.Now(), user.CreatedAt, time.Minute)
}

func TestRegisterStoresFieldsAsGiven(t *testing.T) {
	store := newFakeStore()
	in := validInput()
	in.Username = "  JaneD  "
	in.Fullname = " Jane Doe "

	_, err := NewService(store, &fakeMedia{}, Options{}).Register(context.Background(), in)
	require.NoError(t, err)

	stored := store.only(t)
	assert.Equal(t, "  janed  ", stored.Username)
	assert.Equal(t, " Jane Doe ", stored.Fullname)
}

func TestRegisterMapsStoreDuplicateToConflict(t *testing.T) {
	store := newFakeStore()
	store.createErr = fmt.Errorf("username %q: %w", "janed", ErrDuplicate)
	media := &fakeMedia{}
	in := validInput()
	in.Files[FieldCoverImage] = coverPath

	_, err := NewService(store, media, Options{RollbackUploads: true}).Register(context.Background(), in)

	requireKind(t, err, utils.ConflictError, MsgUserExists)
	assert.ElementsMatch(t, []string{
		"https://cdn.test/media/avatar.png.webp",
		"https://cdn.test/media/cover.jpg.webp",
	}, media.removed)
}

func TestRegisterKeepsUploadsWithoutRollback(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("connection reset")
	media := &fakeMedia{}

	_, err := NewService(store, media, Options{}).Register(context.Background(), validInput())

	requireKind(t, err, utils.InternalError, MsgFailed)
	assert.Empty(t, media.removed)
}

func TestRegisterFailsWhenCreatedUserIsMissing(t *testing.T) {
	store := newFakeStore()
	store.hideCreated = true

	_, err := NewService(store, &fakeMedia{}, Options{}).Register(context.Background(), validInput())

	requireKind(t, err, utils.InternalError, MsgFailed)
}

func TestRegisterRejectsEmailRefusedByCheck(t *testing.T) {
	store := newFakeStore()
	in := validInput()
	in.Email = "jane@throwaway.test"
	var checked string
	opts := Options{EmailCheck: func(email string) error {
		checked = email
		return errors.New("disposable email addresses are not allowed")
	}}

	_, err := NewService(store, &fakeMedia{}, opts).Register(context.Background(), in)

	var apiErr *utils.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, utils.ValidationError, apiErr.Kind)
	assert.Equal(t, "REG-002", apiErr.Code)
	assert.Equal(t, "disposable email addresses are not allowed", apiErr.Message)
	assert.Equal(t, "jane@throwaway.test", checked)
	assert.Zero(t, store.findCalls)
}

func TestRegisterAcceptsEmailPassingCheck(t *testing.T) {
	opts := Options{EmailCheck: func(string) error { return nil }}

	user, err := NewService(newFakeStore(), &fakeMedia{}, opts).Register(context.Background(), validInput())

	require.NoError(t, err)
	assert.NotNil(t, user)
}

func TestRegisterSendsWelcomeMail(t *testing.T) {
	notifier := &fakeNotifier{sent: make(chan *models.PublicUser, 1)}
	svc := NewService(newFakeStore(), &fakeMedia{}, Options{Notifier: notifier})

	user, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	select {
	case got := <-notifier.sent:
		assert.Equal(t, user.ID, got.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("welcome mail was not sent")
	}
}

func TestFieldsFollowPolicyOrder(t *testing.T) {
	assert.Equal(t, []string{FieldAvatar, FieldCoverImage}, Fields())
}
