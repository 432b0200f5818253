// AngelaMos | 2026
// service_test.go

package auth

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
	"github.com/carterperez-dev/storefront/internal/mail"
	"github.com/carterperez-dev/storefront/internal/media"
	"github.com/carterperez-dev/storefront/internal/user"
)

// fakeUserRepo is an in-memory user.Repository for exercising the
// credential flows without Postgres.
type fakeUserRepo struct {
	users map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*user.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	clone := *u
	f.users[u.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) GetByEmail(
	_ context.Context,
	email string,
) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (f *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	stored, ok := f.users[u.ID]
	if !ok {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	stored.Name = u.Name
	stored.Email = u.Email
	stored.Role = u.Role
	return nil
}

func (f *fakeUserRepo) UpdatePassword(
	_ context.Context,
	id, passwordHash string,
) error {
	stored, ok := f.users[id]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	stored.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) UpdatePhoto(
	_ context.Context,
	id string,
	photoID, photoURL *string,
) error {
	stored, ok := f.users[id]
	if !ok {
		return fmt.Errorf("update photo: %w", core.ErrNotFound)
	}
	stored.PhotoID = photoID
	stored.PhotoURL = photoURL
	return nil
}

func (f *fakeUserRepo) SetResetToken(
	_ context.Context,
	id, tokenHash string,
	expiresAt time.Time,
) error {
	stored, ok := f.users[id]
	if !ok {
		return fmt.Errorf("set reset token: %w", core.ErrNotFound)
	}
	stored.ResetTokenHash = &tokenHash
	stored.ResetTokenExpires = &expiresAt
	return nil
}

func (f *fakeUserRepo) ClearResetToken(_ context.Context, id string) error {
	stored, ok := f.users[id]
	if !ok {
		return fmt.Errorf("clear reset token: %w", core.ErrNotFound)
	}
	stored.ResetTokenHash = nil
	stored.ResetTokenExpires = nil
	return nil
}

func (f *fakeUserRepo) ConsumeResetToken(
	_ context.Context,
	tokenHash, newPasswordHash string,
) (*user.User, error) {
	for _, stored := range f.users {
		if stored.ResetTokenHash != nil &&
			*stored.ResetTokenHash == tokenHash &&
			stored.ResetTokenExpires != nil &&
			stored.ResetTokenExpires.After(time.Now()) {
			stored.PasswordHash = newPasswordHash
			stored.ResetTokenHash = nil
			stored.ResetTokenExpires = nil
			clone := *stored
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("consume reset token: %w", core.ErrTokenInvalid)
}

func (f *fakeUserRepo) List(
	_ context.Context,
	params user.ListUsersParams,
) ([]user.User, int, error) {
	var out []user.User
	for _, u := range f.users {
		if params.Role != "" && u.Role != params.Role {
			continue
		}
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return fmt.Errorf("delete user: %w", core.ErrNotFound)
	}
	delete(f.users, id)
	return nil
}

type fakeImageStore struct{}

func (fakeImageStore) Upload(
	_ context.Context,
	_ io.Reader,
	_, _ string,
	_ media.Transform,
) (*media.Image, error) {
	return &media.Image{ID: "asset-1", URL: "https://img.test/asset-1"}, nil
}

func (fakeImageStore) Destroy(_ context.Context, _ string) error {
	return nil
}

type fakeMailer struct {
	sent    []mail.Email
	failing bool
}

func (f *fakeMailer) Send(_ context.Context, email mail.Email) error {
	if f.failing {
		return fmt.Errorf("send email: %w", core.ErrDependency)
	}
	f.sent = append(f.sent, email)
	return nil
}

func newTestService(
	t *testing.T,
	mailer mail.Mailer,
) (*Service, *fakeUserRepo) {
	t.Helper()

	repo := newFakeUserRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := user.NewService(repo, fakeImageStore{}, "test/users", logger)

	tokens, err := NewTokenManager(testJWTConfig())
	require.NoError(t, err)

	svc := NewService(
		users,
		repo,
		tokens,
		mailer,
		"http://localhost:3000",
		logger,
	)

	return svc, repo
}

func signupTestUser(t *testing.T, svc *Service, email string) *user.User {
	t.Helper()

	created, token, err := svc.Signup(context.Background(), user.CreateUserInput{
		Name:     "Ada",
		Email:    email,
		Password: "password-123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	return created
}

func TestSignupAndLogin(t *testing.T) {
	svc, _ := newTestService(t, &fakeMailer{})

	created := signupTestUser(t, svc, "Ada@Example.COM")
	assert.Equal(t, "ada@example.com", created.Email)
	assert.Equal(t, user.RoleUser, created.Role)

	account, token, err := svc.Login(
		context.Background(),
		"ada@example.com",
		"password-123",
	)
	require.NoError(t, err)
	assert.Equal(t, created.ID, account.ID)
	assert.NotEmpty(t, token)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t, &fakeMailer{})
	signupTestUser(t, svc, "ada@example.com")

	_, _, err := svc.Login(context.Background(), "ada@example.com", "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnauthorized))
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	svc, _ := newTestService(t, &fakeMailer{})
	signupTestUser(t, svc, "ada@example.com")

	_, _, wrongPass := svc.Login(context.Background(), "ada@example.com", "nope")
	_, _, unknown := svc.Login(context.Background(), "ghost@example.com", "nope")

	require.Error(t, wrongPass)
	require.Error(t, unknown)
	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestForgotPasswordStoresHashedSecretAndMailsRaw(t *testing.T) {
	mailer := &fakeMailer{}
	svc, repo := newTestService(t, mailer)
	created := signupTestUser(t, svc, "ada@example.com")

	err := svc.ForgotPassword(context.Background(), "ada@example.com")
	require.NoError(t, err)

	stored := repo.users[created.ID]
	require.NotNil(t, stored.ResetTokenHash)
	require.NotNil(t, stored.ResetTokenExpires)

	require.Len(t, mailer.sent, 1)
	sent := mailer.sent[0]
	assert.Equal(t, "ada@example.com", sent.To)

	// The mail carries the raw secret, storage only its sha256.
	assert.NotContains(t, sent.HTML, *stored.ResetTokenHash)
}

func TestForgotPasswordUnknownEmailSilent(t *testing.T) {
	mailer := &fakeMailer{}
	svc, _ := newTestService(t, mailer)

	err := svc.ForgotPassword(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
}

func TestForgotPasswordMailFailureRollsBack(t *testing.T) {
	svc, repo := newTestService(t, &fakeMailer{failing: true})
	created := signupTestUser(t, svc, "ada@example.com")

	err := svc.ForgotPassword(context.Background(), "ada@example.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDependency))

	stored := repo.users[created.ID]
	assert.Nil(t, stored.ResetTokenHash)
	assert.Nil(t, stored.ResetTokenExpires)
}

func TestResetPasswordConsumesSecretOnce(t *testing.T) {
	svc, repo := newTestService(t, &fakeMailer{})
	created := signupTestUser(t, svc, "ada@example.com")

	reset, err := svc.tokens.IssueResetToken()
	require.NoError(t, err)
	require.NoError(t, repo.SetResetToken(
		context.Background(),
		created.ID,
		reset.Hash,
		reset.ExpiresAt,
	))

	account, err := svc.ResetPassword(
		context.Background(),
		reset.Raw,
		"new-password-456",
	)
	require.NoError(t, err)
	assert.Equal(t, created.ID, account.ID)

	// The new credential works.
	_, _, err = svc.Login(
		context.Background(),
		"ada@example.com",
		"new-password-456",
	)
	require.NoError(t, err)

	// The same secret cannot be redeemed a second time.
	_, err = svc.ResetPassword(
		context.Background(),
		reset.Raw,
		"another-password",
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrTokenInvalid))
}

func TestResetPasswordExpiredSecret(t *testing.T) {
	svc, repo := newTestService(t, &fakeMailer{})
	created := signupTestUser(t, svc, "ada@example.com")

	reset, err := svc.tokens.IssueResetToken()
	require.NoError(t, err)
	require.NoError(t, repo.SetResetToken(
		context.Background(),
		created.ID,
		reset.Hash,
		time.Now().Add(-time.Minute),
	))

	_, err = svc.ResetPassword(
		context.Background(),
		reset.Raw,
		"new-password-456",
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrTokenInvalid))
}

func TestResetPasswordEmptyToken(t *testing.T) {
	svc, _ := newTestService(t, &fakeMailer{})

	_, err := svc.ResetPassword(context.Background(), "", "new-password-456")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrTokenInvalid))
}

func TestChangePasswordKeepsSessionsValid(t *testing.T) {
	svc, _ := newTestService(t, &fakeMailer{})
	created := signupTestUser(t, svc, "ada@example.com")

	token, err := svc.tokens.IssueSessionToken(created.ID)
	require.NoError(t, err)

	err = svc.ChangePassword(
		context.Background(),
		created.ID,
		"password-123",
		"rotated-password-789",
	)
	require.NoError(t, err)

	// Stateless sessions: the old token still verifies after the change.
	subject, err := svc.tokens.VerifySessionToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, subject)
}

func TestResetURLCarriesTokenAndEmail(t *testing.T) {
	svc, _ := newTestService(t, &fakeMailer{})

	url := svc.resetURL("rawsecret", "ada@example.com")
	assert.True(t, strings.HasPrefix(url, "http://localhost:3000/user/reset-password?"))
	assert.Contains(t, url, "token=rawsecret")
	assert.Contains(t, url, "email=ada%40example.com")
}
