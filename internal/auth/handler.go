// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/storefront/internal/config"
	"github.com/carterperez-dev/storefront/internal/core"
	"github.com/carterperez-dev/storefront/internal/middleware"
	"github.com/carterperez-dev/storefront/internal/user"
)

const maxSignupSize = 5 << 20

type Handler struct {
	service  *Service
	validate *validator.Validate
	cookies  config.JWTConfig
}

func NewHandler(
	service *Service,
	validate *validator.Validate,
	cookies config.JWTConfig,
) *Handler {
	return &Handler{
		service:  service,
		validate: validate,
		cookies:  cookies,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Post("/forgot-password", h.ForgotPassword)
	r.Post("/reset-password/{token}", h.ResetPassword)
}

func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/dashboard", h.Dashboard)
	r.Put("/password", h.ChangePassword)
}

// Signup accepts multipart form data so the profile photo can ride along
// with the account fields.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxSignupSize); err != nil {
		core.BadRequest(w, "invalid multipart form")
		return
	}

	req := SignupRequest{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	input := user.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		core.BadRequest(w, "profile photo is required")
		return
	}
	defer file.Close() //nolint:errcheck // multipart file close

	input.Photo = file
	input.Filename = header.Filename

	created, token, err := h.service.Signup(r.Context(), input)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	h.setSessionCookie(w, token)

	core.Created(w, AuthResponse{
		User:  user.ToUserResponse(created),
		Token: token,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid JSON body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	authenticated, token, err := h.service.Login(
		r.Context(),
		req.Email,
		req.Password,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	h.setSessionCookie(w, token)

	core.OK(w, AuthResponse{
		User:  user.ToUserResponse(authenticated),
		Token: token,
	})
}

// Logout expires the session cookie. There is no server-side session to
// tear down, so logging out twice is the same as logging out once.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)

	core.OK(w, MessageResponse{Message: "logged out"})
}

// ForgotPassword always answers with the same message; whether the email
// matched an account is not observable from the response.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid JSON body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, MessageResponse{
		Message: "please check your email for the reset link",
	})
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	rawToken := chi.URLParam(r, "token")

	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid JSON body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if _, err := h.service.ResetPassword(
		r.Context(),
		rawToken,
		req.Password,
	); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, MessageResponse{Message: "password has been reset, please log in"})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	account, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, user.ToUserResponse(account))
}

// ChangePassword requires the current password. Existing session tokens
// stay valid until expiry, the caller's cookie included.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid JSON body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	err := h.service.ChangePassword(
		r.Context(),
		userID,
		req.OldPassword,
		req.NewPassword,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, MessageResponse{Message: "password updated"})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookies.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.cookies.SessionExpire),
		MaxAge:   int(h.cookies.SessionExpire.Seconds()),
		HttpOnly: true,
		Secure:   h.cookies.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookies.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookies.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
