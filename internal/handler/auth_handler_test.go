package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"quickchat/internal/app/user"
	"quickchat/internal/configs"
	"quickchat/internal/pkg/auth/jwt"
	"quickchat/internal/pkg/errs"
)

// duplicateEmailStore reports a unique violation on every Create.
type duplicateEmailStore struct {
	fakeUserStore
}

func (d *duplicateEmailStore) Create(context.Context, *user.User) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
}

func newAuthDeps(users user.Store) *AppDeps {
	return &AppDeps{
		Config: &configs.AppConfig{JWTSecret: "test-secret"},
		Users:  users,
		Images: &fakeImageService{url: "https://cdn.example.com/images/avatar.png"},
	}
}

func postJSON(t *testing.T, h http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleSignup_CreatesAccountAndIssuesToken(t *testing.T) {
	req := require.New(t)

	users := &fakeUserStore{}
	deps := newAuthDeps(users)

	rec := postJSON(t, HandleSignup(deps), "/api/auth/signup", SignupInput{
		FullName: "Alice",
		Email:    "alice@example.com",
		Password: "hunter22",
		Bio:      "hi there",
	})
	req.Equal(http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	req.Equal(true, payload["success"])

	userData, ok := payload["userData"].(map[string]any)
	req.True(ok)
	req.Equal("alice@example.com", userData["email"])
	req.NotContains(userData, "passwordHash")

	// The issued token names the created account.
	token, ok := payload["token"].(string)
	req.True(ok)
	claims, err := jwt.ParseToken(token, deps.Config.JWTSecret)
	req.NoError(err)
	req.Equal(userData["id"], claims.UserID)

	// The stored password is a hash, never the plaintext.
	req.Len(users.users, 1)
	req.NotEqual("hunter22", users.users[0].PasswordHash)
	req.NoError(bcrypt.CompareHashAndPassword([]byte(users.users[0].PasswordHash), []byte("hunter22")))
}

func TestHandleSignup_Validation(t *testing.T) {
	cases := []struct {
		name     string
		input    SignupInput
		wantCode int
	}{
		{"missing name", SignupInput{Email: "a@b.co", Password: "secret1", Bio: "x"}, errs.ErrInvalidParams},
		{"missing bio", SignupInput{FullName: "A", Email: "a@b.co", Password: "secret1"}, errs.ErrInvalidParams},
		{"bad email", SignupInput{FullName: "A", Email: "not-an-email", Password: "secret1", Bio: "x"}, errs.ErrInvalidEmail},
		{"short password", SignupInput{FullName: "A", Email: "a@b.co", Password: "abc", Bio: "x"}, errs.ErrInvalidPassword},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deps := newAuthDeps(&fakeUserStore{})
			rec := postJSON(t, HandleSignup(deps), "/api/auth/signup", tc.input)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, float64(tc.wantCode), decodeBody(t, rec)["code"])
		})
	}
}

func TestHandleSignup_DuplicateEmail(t *testing.T) {
	req := require.New(t)

	deps := newAuthDeps(&duplicateEmailStore{})
	rec := postJSON(t, HandleSignup(deps), "/api/auth/signup", SignupInput{
		FullName: "Alice",
		Email:    "alice@example.com",
		Password: "hunter22",
		Bio:      "hi",
	})
	req.Equal(http.StatusConflict, rec.Code)
	req.Equal(float64(errs.ErrEmailAlreadyExists), decodeBody(t, rec)["code"])
}

func TestHandleLogin(t *testing.T) {
	req := require.New(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	req.NoError(err)

	users := &fakeUserStore{users: []user.User{{
		ID:           "user-1",
		Email:        "alice@example.com",
		FullName:     "Alice",
		PasswordHash: string(hash),
	}}}
	deps := newAuthDeps(users)

	rec := postJSON(t, HandleLogin(deps), "/api/auth/login", LoginInput{Email: "alice@example.com", Password: "hunter22"})
	req.Equal(http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	req.Equal(true, payload["success"])
	req.NotEmpty(payload["token"])

	// Wrong password and unknown email fail identically.
	rec = postJSON(t, HandleLogin(deps), "/api/auth/login", LoginInput{Email: "alice@example.com", Password: "wrong"})
	req.Equal(http.StatusUnauthorized, rec.Code)
	req.Equal(float64(errs.ErrInvalidCredentials), decodeBody(t, rec)["code"])

	rec = postJSON(t, HandleLogin(deps), "/api/auth/login", LoginInput{Email: "nobody@example.com", Password: "hunter22"})
	req.Equal(http.StatusUnauthorized, rec.Code)
	req.Equal(float64(errs.ErrInvalidCredentials), decodeBody(t, rec)["code"])
}

func TestHandleUpdateProfile_WithPicture(t *testing.T) {
	req := require.New(t)

	users := &fakeUserStore{users: []user.User{{ID: "user-1", Email: "alice@example.com", FullName: "Alice"}}}
	deps := newAuthDeps(users)

	picture := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte{0x89, 0x50, 0x4e, 0x47})
	raw, err := json.Marshal(UpdateProfileInput{FullName: "Alice B", Bio: "new bio", ProfilePic: picture})
	req.NoError(err)

	httpReq := httptest.NewRequest(http.MethodPut, "/api/auth/update-profile", bytes.NewReader(raw))
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq = httpReq.WithContext(WithCurrentUser(httpReq.Context(), &users.users[0]))

	rec := httptest.NewRecorder()
	HandleUpdateProfile(deps).ServeHTTP(rec, httpReq)
	req.Equal(http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	req.Equal(true, payload["success"])

	updated, ok := payload["user"].(map[string]any)
	req.True(ok)
	req.Equal("Alice B", updated["fullName"])
	req.Equal("new bio", updated["bio"])
	req.Equal("https://cdn.example.com/images/avatar.png", updated["profilePic"])
}
