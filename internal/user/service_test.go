// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/storefront/internal/core"
	"github.com/carterperez-dev/storefront/internal/media"
)

type memoryRepo struct {
	byID map[string]*User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: make(map[string]*User)}
}

func (m *memoryRepo) Create(_ context.Context, u *User) error {
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	clone := *u
	m.byID[u.ID] = &clone
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	clone := *u
	return &clone, nil
}

func (m *memoryRepo) GetByEmail(
	_ context.Context,
	email string,
) (*User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (m *memoryRepo) Update(_ context.Context, u *User) error {
	for id, existing := range m.byID {
		if id != u.ID && existing.Email == u.Email {
			return fmt.Errorf("update user: %w", core.ErrDuplicateKey)
		}
	}
	stored, ok := m.byID[u.ID]
	if !ok {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	stored.Name = u.Name
	stored.Email = u.Email
	stored.Role = u.Role
	return nil
}

func (m *memoryRepo) UpdatePassword(
	_ context.Context,
	id, passwordHash string,
) error {
	stored, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	stored.PasswordHash = passwordHash
	return nil
}

func (m *memoryRepo) UpdatePhoto(
	_ context.Context,
	id string,
	photoID, photoURL *string,
) error {
	stored, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("update photo: %w", core.ErrNotFound)
	}
	stored.PhotoID = photoID
	stored.PhotoURL = photoURL
	return nil
}

func (m *memoryRepo) SetResetToken(
	_ context.Context,
	id, tokenHash string,
	expiresAt time.Time,
) error {
	stored, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("set reset token: %w", core.ErrNotFound)
	}
	stored.ResetTokenHash = &tokenHash
	stored.ResetTokenExpires = &expiresAt
	return nil
}

func (m *memoryRepo) ClearResetToken(_ context.Context, id string) error {
	stored, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("clear reset token: %w", core.ErrNotFound)
	}
	stored.ResetTokenHash = nil
	stored.ResetTokenExpires = nil
	return nil
}

func (m *memoryRepo) ConsumeResetToken(
	_ context.Context,
	tokenHash, newPasswordHash string,
) (*User, error) {
	for _, stored := range m.byID {
		if stored.ResetTokenHash != nil && *stored.ResetTokenHash == tokenHash {
			stored.PasswordHash = newPasswordHash
			stored.ResetTokenHash = nil
			stored.ResetTokenExpires = nil
			clone := *stored
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("consume reset token: %w", core.ErrTokenInvalid)
}

func (m *memoryRepo) List(
	_ context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	var out []User
	for _, u := range m.byID {
		if params.Role != "" && u.Role != params.Role {
			continue
		}
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (m *memoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return fmt.Errorf("delete user: %w", core.ErrNotFound)
	}
	delete(m.byID, id)
	return nil
}

// trackingImageStore records uploads and destroys.
type trackingImageStore struct {
	uploads   int
	destroyed []string
}

func (s *trackingImageStore) Upload(
	_ context.Context,
	_ io.Reader,
	_, _ string,
	_ media.Transform,
) (*media.Image, error) {
	s.uploads++
	id := fmt.Sprintf("asset-%d", s.uploads)
	return &media.Image{ID: id, URL: "https://img.test/" + id}, nil
}

func (s *trackingImageStore) Destroy(_ context.Context, id string) error {
	s.destroyed = append(s.destroyed, id)
	return nil
}

func newTestService() (*Service, *memoryRepo, *trackingImageStore) {
	repo := newMemoryRepo()
	images := &trackingImageStore{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, images, "test/users", logger), repo, images
}

func TestCreateLowercasesEmailAndHashesPassword(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.Create(context.Background(), CreateUserInput{
		Name:     "Ada",
		Email:    "  Ada@Example.COM ",
		Password: "password-123",
	})
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", created.Email)
	assert.Equal(t, RoleUser, created.Role)
	assert.NotEqual(t, "password-123", created.PasswordHash)
	assert.True(t, strings.HasPrefix(created.PasswordHash, "$argon2id$"))
}

func TestCreateRejectsShortPassword(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), CreateUserInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "short",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidInput))
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()

	input := CreateUserInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "password-123",
	}

	_, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDuplicateKey))
}

func TestChangePasswordRequiresCurrentOne(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.Create(context.Background(), CreateUserInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "password-123",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(
		context.Background(),
		created.ID,
		"wrong-password",
		"new-password-456",
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnauthorized))

	err = svc.ChangePassword(
		context.Background(),
		created.ID,
		"password-123",
		"new-password-456",
	)
	require.NoError(t, err)

	_, err = svc.Authenticate(
		context.Background(),
		"ada@example.com",
		"new-password-456",
	)
	require.NoError(t, err)
}

func TestUpdatePhotoDestroysReplacedAsset(t *testing.T) {
	svc, _, images := newTestService()

	created, err := svc.Create(context.Background(), CreateUserInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "password-123",
		Photo:    strings.NewReader("first"),
		Filename: "first.jpg",
	})
	require.NoError(t, err)
	require.NotNil(t, created.PhotoID)
	firstAsset := *created.PhotoID

	_, err = svc.UpdatePhoto(
		context.Background(),
		created.ID,
		strings.NewReader("second"),
		"second.jpg",
	)
	require.NoError(t, err)

	assert.Contains(t, images.destroyed, firstAsset)
}

func TestAdminUpdateRejectsUnknownRole(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.Create(context.Background(), CreateUserInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "password-123",
	})
	require.NoError(t, err)

	role := "superuser"
	_, err = svc.AdminUpdate(context.Background(), created.ID, AdminUpdateUserRequest{
		Role: &role,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidInput))
}

func TestAdminUpdatePromotesToManager(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.Create(context.Background(), CreateUserInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "password-123",
	})
	require.NoError(t, err)

	role := RoleManager
	updated, err := svc.AdminUpdate(
		context.Background(),
		created.ID,
		AdminUpdateUserRequest{Role: &role},
	)
	require.NoError(t, err)
	assert.Equal(t, RoleManager, updated.Role)
}

func TestDeleteDestroysProfilePhoto(t *testing.T) {
	svc, repo, images := newTestService()

	created, err := svc.Create(context.Background(), CreateUserInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "password-123",
		Photo:    strings.NewReader("pic"),
		Filename: "pic.jpg",
	})
	require.NoError(t, err)
	require.NotNil(t, created.PhotoID)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	assert.Empty(t, repo.byID)
	assert.Contains(t, images.destroyed, *created.PhotoID)
}

func TestLoadIdentity(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.Create(context.Background(), CreateUserInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "password-123",
	})
	require.NoError(t, err)

	identity, err := svc.LoadIdentity(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, identity.ID)
	assert.Equal(t, "ada@example.com", identity.Email)
	assert.Equal(t, RoleUser, identity.Role)

	_, err = svc.LoadIdentity(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNotFound))
}
