// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/storefront/internal/core"
	"github.com/carterperez-dev/storefront/internal/media"
	"github.com/carterperez-dev/storefront/internal/middleware"
)

const minPasswordLength = 8

// Service owns credential storage and identity records. Password hashes
// never leave this package; callers get entities with the hash attached
// only because the auth flow needs them, responses are built from DTOs.
type Service struct {
	repo        Repository
	images      media.Store
	photoFolder string
	logger      *slog.Logger
}

func NewService(
	repo Repository,
	images media.Store,
	photoFolder string,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:        repo,
		images:      images,
		photoFolder: photoFolder,
		logger:      logger,
	}
}

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Photo    io.Reader
	Filename string
}

// Create registers a new identity with the default role. The email is
// lowercased before storage so lookups are case-insensitive.
func (s *Service) Create(
	ctx context.Context,
	input CreateUserInput,
) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, core.ValidationError("email is required")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, core.ValidationError("name is required")
	}

	if len(input.Password) < minPasswordLength {
		return nil, core.ValidationError(
			fmt.Sprintf(
				"password must be at least %d characters",
				minPasswordLength,
			),
		)
	}

	passwordHash, err := core.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         RoleUser,
	}

	if input.Photo != nil {
		image, err := s.images.Upload(
			ctx,
			input.Photo,
			input.Filename,
			s.photoFolder,
			media.ProfileTransform,
		)
		if err != nil {
			return nil, fmt.Errorf("upload profile photo: %w", err)
		}
		user.PhotoID = &image.ID
		user.PhotoURL = &image.URL
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			s.destroyPhotoBestEffort(ctx, user.PhotoID)
			return nil, core.DuplicateError("an account with this email")
		}
		return nil, err
	}

	return user, nil
}

// Authenticate verifies credentials. Unknown emails and wrong passwords
// both take a full argon2id comparison and return the same error, so the
// response does not reveal whether the account exists.
func (s *Service) Authenticate(
	ctx context.Context,
	email, password string,
) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	var storedHash *string
	if account != nil {
		storedHash = &account.PasswordHash
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(password, storedHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if account == nil || !valid {
		return nil, core.UnauthorizedError("invalid credentials")
	}

	// Hash parameter upgrades happen opportunistically at login; a
	// failure here never blocks the sign-in.
	if newHash != "" {
		if err := s.repo.UpdatePassword(ctx, account.ID, newHash); err != nil {
			s.logger.Warn("store rehashed password",
				"error", err,
				"user_id", account.ID,
			)
		}
	}

	return account, nil
}

// ChangePassword swaps the credential after verifying the current one.
// Existing session tokens stay valid until they expire.
func (s *Service) ChangePassword(
	ctx context.Context,
	id, oldPassword, newPassword string,
) error {
	if len(newPassword) < minPasswordLength {
		return core.ValidationError(
			fmt.Sprintf(
				"password must be at least %d characters",
				minPasswordLength,
			),
		)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	valid, err := core.VerifyPassword(oldPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return core.UnauthorizedError("current password is incorrect")
	}

	newHash, err := core.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.repo.UpdatePassword(ctx, id, newHash)
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	return s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *Service) UpdateProfile(
	ctx context.Context,
	id string,
	req UpdateProfileRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("an account with this email")
		}
		return nil, err
	}

	return user, nil
}

// UpdatePhoto replaces the profile image: upload the new asset, point
// the record at it, then destroy the old one. The destroy is best-effort.
func (s *Service) UpdatePhoto(
	ctx context.Context,
	id string,
	photo io.Reader,
	filename string,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	image, err := s.images.Upload(
		ctx,
		photo,
		filename,
		s.photoFolder,
		media.ProfileTransform,
	)
	if err != nil {
		return nil, fmt.Errorf("upload profile photo: %w", err)
	}

	oldPhotoID := user.PhotoID

	if err := s.repo.UpdatePhoto(ctx, id, &image.ID, &image.URL); err != nil {
		s.destroyPhotoBestEffort(ctx, &image.ID)
		return nil, err
	}

	s.destroyPhotoBestEffort(ctx, oldPhotoID)

	user.PhotoID = &image.ID
	user.PhotoURL = &image.URL

	return user, nil
}

func (s *Service) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	if params.Role != "" && !ValidRole(params.Role) {
		return nil, 0, core.ValidationError("unknown role filter")
	}
	return s.repo.List(ctx, params)
}

func (s *Service) AdminUpdate(
	ctx context.Context,
	id string,
	req AdminUpdateUserRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Role != nil {
		if !ValidRole(*req.Role) {
			return nil, core.ValidationError("unknown role")
		}
		user.Role = *req.Role
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("an account with this email")
		}
		return nil, err
	}

	return user, nil
}

// Delete removes the identity record and then its profile image. The
// image destroy failing leaves an orphaned asset, not a broken account.
func (s *Service) Delete(ctx context.Context, id string) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.destroyPhotoBestEffort(ctx, user.PhotoID)

	return nil
}

func (s *Service) destroyPhotoBestEffort(ctx context.Context, photoID *string) {
	if photoID == nil || *photoID == "" {
		return
	}
	if err := s.images.Destroy(ctx, *photoID); err != nil {
		s.logger.Warn("destroy profile photo",
			"error", err,
			"photo_id", *photoID,
		)
	}
}

// LoadIdentity resolves a verified token subject to a live identity for
// the authentication middleware.
func (s *Service) LoadIdentity(
	ctx context.Context,
	id string,
) (*middleware.Identity, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &middleware.Identity{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}

var _ middleware.IdentityLoader = (*Service)(nil)
