// AngelaMos | 2026
// dto.go

package auth

import (
	"github.com/carterperez-dev/storefront/internal/user"
)

// SignupRequest arrives as multipart form data because the profile photo
// rides along with it. Validation tags still apply to the text fields.
type SignupRequest struct {
	Name     string `validate:"required,min=1,max=40"`
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required,min=8,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password"         validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

// AuthResponse returns the signed-in identity together with the session
// token. The token also travels as an HTTP-only cookie; the body copy is
// for clients that prefer the Authorization header.
type AuthResponse struct {
	User  user.UserResponse `json:"user"`
	Token string            `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
