package dbTools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Romain-GUILLEMOT/TubeBack/models"
	"github.com/Romain-GUILLEMOT/TubeBack/registration"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var publicColumns = []string{"id", "fullname", "email", "username", "avatar", "cover_image", "created_at"}

// SQLUserStore is the gorm (PostgreSQL / SQLite) user store. Uniqueness comes
// from the unique indexes on username and email; the *gorm.DB must be opened
// with TranslateError so violations surface as gorm.ErrDuplicatedKey.
type SQLUserStore struct {
	db *gorm.DB
}

func NewSQLUserStore(db *gorm.DB) *SQLUserStore {
	return &SQLUserStore{db: db}
}

func (s *SQLUserStore) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	return s.first(ctx, "username = ? OR email = ?", username, email)
}

func (s *SQLUserStore) Create(ctx context.Context, u *models.User) error {
	err := s.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", registration.ErrDuplicate, err)
	}
	return err
}

func (s *SQLUserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.PublicUser, error) {
	var user models.PublicUser
	res := s.db.WithContext(ctx).
		Model(&models.User{}).
		Select(publicColumns).
		Where("id = ?", id).
		Limit(1).
		Find(&user)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &user, nil
}

func (s *SQLUserStore) FindByLogin(ctx context.Context, identifier string) (*models.User, error) {
	if strings.Contains(identifier, "@") {
		return s.first(ctx, "email = ?", identifier)
	}
	return s.first(ctx, "username = ?", strings.ToLower(identifier))
}

func (s *SQLUserStore) SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error {
	return s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("refresh_token", token).Error
}

func (s *SQLUserStore) first(ctx context.Context, query string, args ...any) (*models.User, error) {
	var user models.User
	res := s.db.WithContext(ctx).Where(query, args...).Limit(1).Find(&user)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &user, nil
}
