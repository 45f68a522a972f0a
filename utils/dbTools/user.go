package dbTools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Romain-GUILLEMOT/TubeBack/models"
	"github.com/Romain-GUILLEMOT/TubeBack/registration"
	"github.com/Romain-GUILLEMOT/TubeBack/utils"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// cqlSession is the part of *gocql.Session the user store runs queries through.
type cqlSession interface {
	Exec(ctx context.Context, stmt string, args ...interface{}) error
	// CAS runs a conditional statement and reports whether it was applied.
	CAS(ctx context.Context, stmt string, args ...interface{}) (bool, error)
	Scan(ctx context.Context, stmt string, args []interface{}, dest ...interface{}) error
}

type gocqlSession struct {
	session *gocql.Session
}

func (g gocqlSession) Exec(ctx context.Context, stmt string, args ...interface{}) error {
	return g.session.Query(stmt, args...).WithContext(ctx).Exec()
}

func (g gocqlSession) CAS(ctx context.Context, stmt string, args ...interface{}) (bool, error) {
	return g.session.Query(stmt, args...).WithContext(ctx).MapScanCAS(map[string]interface{}{})
}

func (g gocqlSession) Scan(ctx context.Context, stmt string, args []interface{}, dest ...interface{}) error {
	return g.session.Query(stmt, args...).WithContext(ctx).Scan(dest...)
}

// ScyllaUserStore keeps users in `users` and enforces uniqueness through the
// `users_by_username` / `users_by_email` lookup tables, each claimed with a
// lightweight transaction before the user row is written.
type ScyllaUserStore struct {
	cql cqlSession
}

func NewScyllaUserStore(session *gocql.Session) *ScyllaUserStore {
	return &ScyllaUserStore{cql: gocqlSession{session: session}}
}

func (s *ScyllaUserStore) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	byUsername, err := s.lookupUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if byUsername != nil {
		user, err := s.getUser(ctx, byUsername.ID)
		if err != nil || user != nil {
			return user, err
		}
		// orphaned claim: the email may still belong to someone
	}

	byEmail, err := s.lookupEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if byEmail != nil {
		return s.getUser(ctx, byEmail.ID)
	}
	return nil, nil
}

func (s *ScyllaUserStore) Create(ctx context.Context, u *models.User) error {
	id := gocql.UUID(u.ID)

	applied, err := s.cql.CAS(ctx,
		`INSERT INTO users_by_username (username, id, avatar) VALUES (?, ?, ?) IF NOT EXISTS`,
		u.Username, id, u.Avatar,
	)
	if err != nil {
		return fmt.Errorf("claim username: %w", err)
	}
	if !applied {
		return fmt.Errorf("username %q: %w", u.Username, registration.ErrDuplicate)
	}

	applied, err = s.cql.CAS(ctx,
		`INSERT INTO users_by_email (email, id, username) VALUES (?, ?, ?) IF NOT EXISTS`,
		u.Email, id, u.Username,
	)
	if err != nil || !applied {
		s.release(ctx, `DELETE FROM users_by_username WHERE username = ? IF id = ?`, u.Username, id)
		if err != nil {
			return fmt.Errorf("claim email: %w", err)
		}
		return fmt.Errorf("email %q: %w", u.Email, registration.ErrDuplicate)
	}

	if err := s.cql.Exec(ctx, `
		INSERT INTO users (
			id, fullname, email, username, password, avatar, cover_image, refresh_token, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, u.Fullname, u.Email, u.Username, u.Password, u.Avatar, u.CoverImage, u.RefreshToken, u.CreatedAt,
	); err != nil {
		s.release(ctx, `DELETE FROM users_by_username WHERE username = ? IF id = ?`, u.Username, id)
		s.release(ctx, `DELETE FROM users_by_email WHERE email = ? IF id = ?`, u.Email, id)
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *ScyllaUserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.PublicUser, error) {
	var user models.PublicUser
	var gid gocql.UUID

	err := s.cql.Scan(ctx, `
		SELECT id, fullname, email, username, avatar, cover_image, created_at
		FROM users WHERE id = ? LIMIT 1`,
		[]interface{}{gocql.UUID(id)},
		&gid, &user.Fullname, &user.Email, &user.Username, &user.Avatar, &user.CoverImage, &user.CreatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user.ID = uuid.UUID(gid)
	return &user, nil
}

// FindByLogin resolves an email (anything containing '@') or a username.
func (s *ScyllaUserStore) FindByLogin(ctx context.Context, identifier string) (*models.User, error) {
	if strings.Contains(identifier, "@") {
		row, err := s.lookupEmail(ctx, identifier)
		if err != nil || row == nil {
			return nil, err
		}
		return s.getUser(ctx, row.ID)
	}

	row, err := s.lookupUsername(ctx, strings.ToLower(identifier))
	if err != nil || row == nil {
		return nil, err
	}
	return s.getUser(ctx, row.ID)
}

func (s *ScyllaUserStore) SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error {
	return s.cql.Exec(ctx,
		`UPDATE users SET refresh_token = ? WHERE id = ?`,
		token, gocql.UUID(id),
	)
}

func (s *ScyllaUserStore) lookupUsername(ctx context.Context, username string) (*models.UserByUsername, error) {
	row := models.UserByUsername{Username: username}
	err := s.cql.Scan(ctx,
		`SELECT id, avatar FROM users_by_username WHERE username = ? LIMIT 1`,
		[]interface{}{username},
		&row.ID, &row.Avatar,
	)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup username: %w", err)
	}
	return &row, nil
}

func (s *ScyllaUserStore) lookupEmail(ctx context.Context, email string) (*models.UserByEmail, error) {
	row := models.UserByEmail{Email: email}
	err := s.cql.Scan(ctx,
		`SELECT id, username FROM users_by_email WHERE email = ? LIMIT 1`,
		[]interface{}{email},
		&row.ID, &row.Username,
	)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	return &row, nil
}

func (s *ScyllaUserStore) getUser(ctx context.Context, id gocql.UUID) (*models.User, error) {
	var user models.User
	var gid gocql.UUID

	err := s.cql.Scan(ctx, `
		SELECT id, fullname, email, username, password, avatar, cover_image, refresh_token, created_at
		FROM users WHERE id = ? LIMIT 1`,
		[]interface{}{id},
		&gid,
		&user.Fullname,
		&user.Email,
		&user.Username,
		&user.Password,
		&user.Avatar,
		&user.CoverImage,
		&user.RefreshToken,
		&user.CreatedAt,
	)
	// a lookup row without its user is a half-finished Create
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user.ID = uuid.UUID(gid)
	return &user, nil
}

func (s *ScyllaUserStore) release(ctx context.Context, stmt string, key string, id gocql.UUID) {
	if err := s.cql.Exec(context.WithoutCancel(ctx), stmt, key, id); err != nil {
		utils.Error("Failed to release uniqueness claim", "key", key, "err", err)
	}
}
