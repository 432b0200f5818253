// AngelaMos | 2026
// handler_test.go

package auth

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	svc, _ := newTestService(t, &fakeMailer{})
	return NewHandler(svc, validator.New(), testJWTConfig())
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "token" {
			return cookie
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func signupForm(
	t *testing.T,
	fields map[string]string,
	withPhoto bool,
) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	for key, value := range fields {
		require.NoError(t, form.WriteField(key, value))
	}

	if withPhoto {
		part, err := form.CreateFormFile("photo", "avatar.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte("image-bytes"))
		require.NoError(t, err)
	}

	require.NoError(t, form.Close())
	return &body, form.FormDataContentType()
}

func TestSignupCreatesAccountWithPhoto(t *testing.T) {
	handler := newTestHandler(t)

	body, contentType := signupForm(t, map[string]string{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "password-123",
	}, true)

	req := httptest.NewRequest(http.MethodPost, "/signup", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.Signup(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)
}

func TestSignupRequiresPhoto(t *testing.T) {
	handler := newTestHandler(t)

	body, contentType := signupForm(t, map[string]string{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "password-123",
	}, false)

	req := httptest.NewRequest(http.MethodPost, "/signup", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.Signup(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "photo is required")
}

func TestLoginSetsHTTPOnlySessionCookie(t *testing.T) {
	handler := newTestHandler(t)
	signupTestUser(t, handler.service, "ada@example.com")

	body := strings.NewReader(
		`{"email": "ada@example.com", "password": "password-123"}`,
	)
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)
	assert.Positive(t, cookie.MaxAge)
}

func TestLoginBadCredentials(t *testing.T) {
	handler := newTestHandler(t)
	signupTestUser(t, handler.service, "ada@example.com")

	body := strings.NewReader(
		`{"email": "ada@example.com", "password": "wrong"}`,
	)
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// Logging out with no live session behaves exactly like logging out with
// one: the cookie is expired either way.
func TestLogoutIsIdempotent(t *testing.T) {
	handler := newTestHandler(t)

	for range 2 {
		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		rec := httptest.NewRecorder()
		handler.Logout(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		cookie := sessionCookie(t, rec)
		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge)
	}
}

func TestForgotPasswordValidatesEmail(t *testing.T) {
	handler := newTestHandler(t)

	body := strings.NewReader(`{"email": "not-an-email"}`)
	req := httptest.NewRequest(http.MethodPost, "/forgot-password", body)
	rec := httptest.NewRecorder()
	handler.ForgotPassword(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestForgotPasswordSameResponseEitherWay(t *testing.T) {
	handler := newTestHandler(t)
	signupTestUser(t, handler.service, "ada@example.com")

	responses := make([]string, 0, 2)
	for _, email := range []string{"ada@example.com", "ghost@example.com"} {
		body := strings.NewReader(`{"email": "` + email + `"}`)
		req := httptest.NewRequest(http.MethodPost, "/forgot-password", body)
		rec := httptest.NewRecorder()
		handler.ForgotPassword(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		responses = append(responses, rec.Body.String())
	}

	assert.Equal(t, responses[0], responses[1])
}

func TestResetPasswordRequiresMatchingConfirmation(t *testing.T) {
	handler := newTestHandler(t)

	body := strings.NewReader(
		`{"password": "new-password-1", "confirm_password": "different"}`,
	)
	req := httptest.NewRequest(
		http.MethodPost,
		"/reset-password/sometoken",
		body,
	)
	rec := httptest.NewRecorder()
	handler.ResetPassword(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
