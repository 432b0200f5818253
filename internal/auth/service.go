// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/carterperez-dev/storefront/internal/core"
	"github.com/carterperez-dev/storefront/internal/mail"
	"github.com/carterperez-dev/storefront/internal/user"
)

// Service drives the credential flows: signup, login, password change
// and the single-use reset protocol. Session state lives entirely in the
// signed token, so logout and password changes never touch storage.
type Service struct {
	users       *user.Service
	userRepo    user.Repository
	tokens      *TokenManager
	mailer      mail.Mailer
	frontendURL string
	logger      *slog.Logger
}

func NewService(
	users *user.Service,
	userRepo user.Repository,
	tokens *TokenManager,
	mailer mail.Mailer,
	frontendURL string,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:       users,
		userRepo:    userRepo,
		tokens:      tokens,
		mailer:      mailer,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// Signup registers the account and signs it in, returning the identity
// together with a fresh session token.
func (s *Service) Signup(
	ctx context.Context,
	input user.CreateUserInput,
) (*user.User, string, error) {
	created, err := s.users.Create(ctx, input)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.IssueSessionToken(created.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue session token: %w", err)
	}

	return created, token, nil
}

func (s *Service) Login(
	ctx context.Context,
	email, password string,
) (*user.User, string, error) {
	authenticated, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.IssueSessionToken(authenticated.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue session token: %w", err)
	}

	return authenticated, token, nil
}

// ForgotPassword stores a hashed single-use reset secret and mails the
// raw secret to the account. Unknown emails succeed silently so the
// endpoint does not confirm which addresses have accounts. If the mail
// cannot be delivered the stored secret is rolled back; a reset the user
// never received must not stay live.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	account, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			s.logger.Debug("password reset for unknown email", "email", email)
			return nil
		}
		return err
	}

	reset, err := s.tokens.IssueResetToken()
	if err != nil {
		return err
	}

	err = s.userRepo.SetResetToken(
		ctx,
		account.ID,
		reset.Hash,
		reset.ExpiresAt,
	)
	if err != nil {
		return err
	}

	resetURL := s.resetURL(reset.Raw, account.Email)

	message := mail.PasswordReset(account.Email, account.Name, resetURL)
	if err := s.mailer.Send(ctx, message); err != nil {
		if clearErr := s.userRepo.ClearResetToken(ctx, account.ID); clearErr != nil {
			s.logger.Error("roll back reset token",
				"error", clearErr,
				"user_id", account.ID,
			)
		}
		return core.DependencyError("could not send the reset email, try again later")
	}

	return nil
}

// ResetPassword redeems a raw reset secret. The repository consumes the
// token and swaps the password hash in one statement, so a secret can
// only ever be redeemed once.
func (s *Service) ResetPassword(
	ctx context.Context,
	rawToken, newPassword string,
) (*user.User, error) {
	if rawToken == "" {
		return nil, core.TokenInvalidError()
	}

	newHash, err := core.HashPassword(newPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.userRepo.ConsumeResetToken(
		ctx,
		s.tokens.HashResetToken(rawToken),
		newHash,
	)
	if err != nil {
		if errors.Is(err, core.ErrTokenInvalid) {
			return nil, core.TokenInvalidError()
		}
		return nil, err
	}

	return account, nil
}

func (s *Service) ChangePassword(
	ctx context.Context,
	userID, oldPassword, newPassword string,
) error {
	return s.users.ChangePassword(ctx, userID, oldPassword, newPassword)
}

func (s *Service) GetProfile(
	ctx context.Context,
	userID string,
) (*user.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *Service) resetURL(rawToken, email string) string {
	values := url.Values{}
	values.Set("token", rawToken)
	values.Set("email", email)

	return s.frontendURL + "/user/reset-password?" + values.Encode()
}
