// Package registration creates user accounts from a submitted sign-up form.
//
// The Service owns the workflow only. Persistence, media storage and mail go
// through the UserStore, MediaUploader and Notifier interfaces so that the
// Fiber handler, the Scylla/SQL stores and the MinIO uploader can be swapped
// independently.
package registration

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Romain-GUILLEMOT/TubeBack/metrics"
	"github.com/Romain-GUILLEMOT/TubeBack/models"
	"github.com/Romain-GUILLEMOT/TubeBack/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrDuplicate is returned (wrapped) by a UserStore when the insert violates
// username or email uniqueness.
var ErrDuplicate = errors.New("username or email already taken")

const (
	MsgFieldsRequired = "all fields are required"
	MsgUserExists     = "user already exists"
	MsgAvatarRequired = "avatar file is required"
	MsgFailed         = "registration failed"
)

type UserStore interface {
	// FindByUsernameOrEmail returns nil, nil when no user matches either value.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	// FindByID returns the sanitized projection, or nil, nil when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*models.PublicUser, error)
}

type MediaUploader interface {
	Upload(ctx context.Context, localPath string, preset utils.ImagePreset) (string, error)
	Remove(ctx context.Context, url string) error
}

type Notifier interface {
	Welcome(ctx context.Context, user *models.PublicUser) error
}

type Options struct {
	// EmailCheck, when set, vets the address before the store is queried.
	EmailCheck func(email string) error
	// RollbackUploads removes already uploaded media when the user record
	// could not be created.
	RollbackUploads bool
	Notifier        Notifier
}

// Input is one sign-up form. Files maps a multipart field name to the local
// path its first file was staged to.
type Input struct {
	Fullname string            `validate:"required"`
	Email    string            `validate:"required"`
	Username string            `validate:"required"`
	Password string            `validate:"required"`
	Files    map[string]string `validate:"-"`
}

type Service struct {
	store    UserStore
	media    MediaUploader
	opts     Options
	validate *validator.Validate
	now      func() time.Time
}

func NewService(store UserStore, media MediaUploader, opts Options) *Service {
	return &Service{
		store:    store,
		media:    media,
		opts:     opts,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Register runs the sign-up workflow and returns the stored user without
// credentials. Every failure is an *utils.APIError.
func (s *Service) Register(ctx context.Context, in Input) (user *models.PublicUser, err error) {
	defer func() { metrics.Registrations.WithLabelValues(outcome(err)).Inc() }()

	trimmed := Input{
		Fullname: strings.TrimSpace(in.Fullname),
		Email:    strings.TrimSpace(in.Email),
		Username: strings.TrimSpace(in.Username),
		Password: strings.TrimSpace(in.Password),
	}
	if err := s.validate.Struct(trimmed); err != nil {
		return nil, utils.NewValidationError("REG-001", MsgFieldsRequired)
	}
	if s.opts.EmailCheck != nil {
		if err := s.opts.EmailCheck(in.Email); err != nil {
			return nil, utils.NewValidationError("REG-002", err.Error())
		}
	}

	username := strings.ToLower(in.Username)

	existing, err := s.store.FindByUsernameOrEmail(ctx, username, in.Email)
	if err != nil {
		return nil, utils.NewInternalError("REG-009", MsgFailed, err)
	}
	if existing != nil {
		return nil, utils.NewConflictError("REG-003", MsgUserExists)
	}

	paths, err := resolveAssets(in.Files)
	if err != nil {
		return nil, err
	}

	urls, err := s.uploadAssets(ctx, paths)
	if err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		s.rollback(ctx, urls)
		return nil, utils.NewInternalError("REG-006", MsgFailed, err)
	}

	record := &models.User{
		ID:         uuid.New(),
		Fullname:   in.Fullname,
		Avatar:     urls[FieldAvatar],
		CoverImage: urls[FieldCoverImage],
		Email:      in.Email,
		Password:   hashed,
		Username:   username,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.store.Create(ctx, record); err != nil {
		s.rollback(ctx, urls)
		if errors.Is(err, ErrDuplicate) {
			return nil, utils.NewConflictError("REG-003", MsgUserExists)
		}
		return nil, utils.NewInternalError("REG-007", MsgFailed, err)
	}

	created, err := s.store.FindByID(ctx, record.ID)
	if err != nil {
		return nil, utils.NewInternalError("REG-008", MsgFailed, err)
	}
	if created == nil {
		return nil, utils.NewInternalError("REG-008", MsgFailed, nil)
	}

	utils.Success("User registered", "id", created.ID, "username", created.Username)
	s.notify(created)
	return created, nil
}

func (s *Service) rollback(ctx context.Context, urls map[string]string) {
	if !s.opts.RollbackUploads {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for field, url := range urls {
		if url == "" {
			continue
		}
		if err := s.media.Remove(ctx, url); err != nil {
			utils.Warn("Orphaned upload left behind", "field", field, "url", url, "err", err)
		}
	}
}

func (s *Service) notify(user *models.PublicUser) {
	if s.opts.Notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.opts.Notifier.Welcome(ctx, user); err != nil {
			utils.Warn("Welcome mail not sent", "user", user.ID, "err", err)
		}
	}()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "created"
	case utils.IsKind(err, utils.ValidationError):
		return "invalid"
	case utils.IsKind(err, utils.ConflictError):
		return "conflict"
	}
	return "failed"
}
