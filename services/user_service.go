package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"studyTrackerAPI/config"
	"studyTrackerAPI/internal/auth"
	"studyTrackerAPI/internal/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// VerificationMailer delivers email verification links.
type VerificationMailer interface {
	SendVerification(to, username, token string)
}

type UserService struct {
	db     *pgxpool.Pool
	tokens *auth.TokenIssuer
	mailer VerificationMailer
}

func NewUserService(db *pgxpool.Pool, tokens *auth.TokenIssuer, mailer VerificationMailer) *UserService {
	return &UserService{db: db, tokens: tokens, mailer: mailer}
}

const userColumns = `id, username, email, password_hash, is_active, is_superuser, email_verified,
	verification_token, avatar, created_at, updated_at`

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.IsActive,
		&u.IsSuperuser,
		&u.EmailVerified,
		&u.VerificationToken,
		&u.Avatar,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func mapUniqueViolation(err error) error {
	constraint, ok := uniqueConstraint(err)
	if !ok {
		return err
	}
	if strings.Contains(constraint, "email") {
		return ErrEmailTaken
	}
	return ErrUsernameTaken
}

func (s *UserService) Register(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	var token *string
	if req.Email != nil {
		t := uuid.NewString()
		token = &t
	}

	now := time.Now()
	query := `
	INSERT INTO common_users (id, username, email, password_hash, verification_token, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $6)
	RETURNING ` + userColumns

	u, err := scanUser(s.db.QueryRow(ctx, query, uuid.New(), req.Username, req.Email, hash, token, now))
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	config.Logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("User registered")

	if u.Email != nil && token != nil && s.mailer != nil {
		s.mailer.SendVerification(*u.Email, u.Username, *token)
	}
	return u, nil
}

// Login checks credentials and issues an access token.
func (s *UserService) Login(ctx context.Context, username, password string) (*user.TokenResponse, error) {
	query := `SELECT ` + userColumns + ` FROM common_users WHERE username = $1`

	u, err := scanUser(s.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrInactiveUser
	}

	token, err := s.tokens.Issue(u.ID, u.Username, time.Now())
	if err != nil {
		return nil, err
	}

	return &user.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokens.TTL().Seconds()),
		User:        u,
	}, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM common_users WHERE id = $1`

	u, err := scanUser(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !u.IsActive {
		return nil, ErrInactiveUser
	}
	return u, nil
}

// UpdateProfile applies a partial update. Changing the email address resets
// its verification state and sends a new verification link.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req *user.UpdateProfileRequest) (*user.User, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	u, err := scanUser(tx.QueryRow(ctx, `SELECT `+userColumns+` FROM common_users WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if req.Username != nil {
		u.Username = *req.Username
	}
	if req.Avatar != nil {
		u.Avatar = req.Avatar
	}
	if req.Password != nil {
		if u.PasswordHash, err = auth.HashPassword(*req.Password); err != nil {
			return nil, err
		}
	}

	emailChanged := req.Email != nil && (u.Email == nil || *u.Email != *req.Email)
	if emailChanged {
		t := uuid.NewString()
		u.Email = req.Email
		u.EmailVerified = false
		u.VerificationToken = &t
	}

	query := `
	UPDATE common_users
	SET username = $2, email = $3, password_hash = $4, email_verified = $5,
		verification_token = $6, avatar = $7, updated_at = NOW()
	WHERE id = $1
	RETURNING ` + userColumns

	updated, err := scanUser(tx.QueryRow(ctx, query,
		u.ID, u.Username, u.Email, u.PasswordHash, u.EmailVerified, u.VerificationToken, u.Avatar))
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if emailChanged && s.mailer != nil {
		s.mailer.SendVerification(*updated.Email, updated.Username, *updated.VerificationToken)
	}
	return updated, nil
}

// DeleteUser removes the account. Tasks, plans and achievements go with it.
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.Exec(ctx, `DELETE FROM common_users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	config.Logger.WithField("user_id", id).Info("User deleted")
	return nil
}

func (s *UserService) VerifyEmail(ctx context.Context, token string) (*user.User, error) {
	query := `
	UPDATE common_users
	SET email_verified = TRUE, verification_token = NULL, updated_at = NOW()
	WHERE verification_token = $1
	RETURNING ` + userColumns

	u, err := scanUser(s.db.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to verify email: %w", err)
	}
	return u, nil
}
