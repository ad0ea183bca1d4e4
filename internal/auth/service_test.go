// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledinhhoang/inkbound/internal/auth"
	"github.com/ledinhhoang/inkbound/internal/platform/apperr"
	"github.com/ledinhhoang/inkbound/internal/platform/sec"
)

// # Test Doubles

type fakeUserRepo struct {
	users map[string]*auth.User // keyed by ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*auth.User{}}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return apperr.Conflict("Username or email is already registered")
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID, newHash string) error {
	if user, ok := r.users[userID]; ok {
		user.PasswordHash = newHash
	}
	return nil
}

func (r *fakeUserRepo) MarkVerified(_ context.Context, userID string) error {
	if user, ok := r.users[userID]; ok {
		user.IsVerified = true
	}
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*auth.Session // keyed by token hash
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*auth.Session{}}
}

func (r *fakeSessionRepo) Create(_ context.Context, tokenHash string, session *auth.Session) error {
	r.sessions[tokenHash] = session
	return nil
}

func (r *fakeSessionRepo) FindByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	if session, ok := r.sessions[tokenHash]; ok {
		return session, nil
	}
	return nil, apperr.NotFound("Session")
}

func (r *fakeSessionRepo) Revoke(_ context.Context, tokenHash string) error {
	delete(r.sessions, tokenHash)
	return nil
}

func (r *fakeSessionRepo) RevokeAll(_ context.Context, userID string) error {
	for hash, session := range r.sessions {
		if session.UserID == userID {
			delete(r.sessions, hash)
		}
	}
	return nil
}

func (r *fakeSessionRepo) RevokeOthers(_ context.Context, userID, keepTokenHash string) error {
	for hash, session := range r.sessions {
		if session.UserID == userID && hash != keepTokenHash {
			delete(r.sessions, hash)
		}
	}
	return nil
}

type fakeTokenRepo struct {
	tokens map[string]string // token -> userID
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]string{}}
}

func (r *fakeTokenRepo) Set(_ context.Context, token, userID string, _ time.Duration) error {
	r.tokens[token] = userID
	return nil
}

func (r *fakeTokenRepo) Get(_ context.Context, token string) (string, error) {
	if userID, ok := r.tokens[token]; ok {
		return userID, nil
	}
	return "", apperr.NotFound("Reset token")
}

func (r *fakeTokenRepo) Delete(_ context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, _, _ string, _ time.Duration) (string, error) {
	return "access-" + userID, nil
}

type fixture struct {
	service  *auth.Service
	users    *fakeUserRepo
	sessions *fakeSessionRepo
	resets   *fakeTokenRepo
	verifies *fakeTokenRepo
}

func newFixture() *fixture {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	resets := newFakeTokenRepo()
	verifies := newFakeTokenRepo()

	return &fixture{
		service:  auth.NewService(users, sessions, resets, verifies, fakeTokenProvider{}),
		users:    users,
		sessions: sessions,
		resets:   resets,
		verifies: verifies,
	}
}

func (f *fixture) seedUser(t *testing.T, username, email, password string) *auth.User {
	t.Helper()

	hash, err := sec.HashPassword(password)
	require.NoError(t, err)

	user := &auth.User{
		ID:           "user-" + username,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         sec.RoleMember,
	}
	f.users.users[user.ID] = user
	return user
}

// # Registration

func TestRegister_HashesPasswordAndStoresVerificationToken(t *testing.T) {
	f := newFixture()

	user, err := f.service.Register(context.Background(), auth.RegisterInput{
		Username:    "inkreader",
		Email:       "reader@example.com",
		Password:    "correct horse battery",
		DisplayName: "Ink Reader",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, sec.RoleMember, user.Role)
	assert.False(t, user.IsVerified)
	assert.NotEqual(t, "correct horse battery", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("correct horse battery", user.PasswordHash))

	require.Len(t, f.verifies.tokens, 1)
	for _, ownerID := range f.verifies.tokens {
		assert.Equal(t, user.ID, ownerID)
	}
}

func TestRegister_DuplicateIdentity(t *testing.T) {
	f := newFixture()
	f.seedUser(t, "taken", "taken@example.com", "hunter2hunter2")

	_, err := f.service.Register(context.Background(), auth.RegisterInput{
		Username: "someone-else",
		Email:    "taken@example.com",
		Password: "hunter2hunter2",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	_, err = f.service.Register(context.Background(), auth.RegisterInput{
		Username: "taken",
		Email:    "fresh@example.com",
		Password: "hunter2hunter2",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

// # Login & Logout

func TestLogin_ByEmailAndByUsername(t *testing.T) {
	f := newFixture()
	f.seedUser(t, "inkreader", "reader@example.com", "correct horse battery")

	for _, login := range []string{"reader@example.com", "inkreader"} {
		session, err := f.service.Login(context.Background(), auth.LoginInput{
			Login:    login,
			Password: "correct horse battery",
		})
		require.NoError(t, err, "login via %q", login)

		assert.Equal(t, "access-user-inkreader", session.AccessToken)
		assert.NotEmpty(t, session.RefreshToken)

		// The session must be retrievable by the hash of the issued token.
		stored, err := f.sessions.FindByTokenHash(context.Background(), sec.HashToken(session.RefreshToken))
		require.NoError(t, err)
		assert.Equal(t, "user-inkreader", stored.UserID)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newFixture()
	f.seedUser(t, "inkreader", "reader@example.com", "correct horse battery")

	cases := map[string]auth.LoginInput{
		"unknown_user": {Login: "nobody@example.com", Password: "whatever-pass"},
		"bad_password": {Login: "reader@example.com", Password: "wrong password"},
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.service.Login(context.Background(), input)
			require.Error(t, err)

			// Same generic message for both failure modes.
			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, "UNAUTHORIZED", appErr.Code)
			assert.Equal(t, "Invalid login credentials", appErr.Message)
		})
	}
}

func TestLogout_Idempotent(t *testing.T) {
	f := newFixture()
	f.seedUser(t, "inkreader", "reader@example.com", "correct horse battery")

	session, err := f.service.Login(context.Background(), auth.LoginInput{
		Login:    "reader@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(context.Background(), session.RefreshToken))
	assert.Empty(t, f.sessions.sessions)

	// A second logout with the same token is still a success.
	require.NoError(t, f.service.Logout(context.Background(), session.RefreshToken))
}

// # Refresh Rotation

func TestRefreshSession_RotatesToken(t *testing.T) {
	f := newFixture()
	f.seedUser(t, "inkreader", "reader@example.com", "correct horse battery")

	first, err := f.service.Login(context.Background(), auth.LoginInput{
		Login:    "reader@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	second, err := f.service.RefreshSession(context.Background(), first.RefreshToken, "test-agent", "10.0.0.1")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The first token is burned; replaying it must fail.
	_, err = f.service.RefreshSession(context.Background(), first.RefreshToken, "test-agent", "10.0.0.1")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	_, err = f.sessions.FindByTokenHash(context.Background(), sec.HashToken(second.RefreshToken))
	require.NoError(t, err)
}

// # Password Recovery

func TestRequestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	f := newFixture()

	token, err := f.service.RequestPasswordReset(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Empty(t, f.resets.tokens)
}

func TestResetPassword_UpdatesHashAndRevokesAllSessions(t *testing.T) {
	f := newFixture()
	user := f.seedUser(t, "inkreader", "reader@example.com", "old password 123")

	_, err := f.service.Login(context.Background(), auth.LoginInput{
		Login:    "reader@example.com",
		Password: "old password 123",
	})
	require.NoError(t, err)

	token, err := f.service.RequestPasswordReset(context.Background(), "reader@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, f.service.ResetPassword(context.Background(), token, "new password 456"))

	assert.True(t, sec.CheckPasswordHash("new password 456", user.PasswordHash))
	assert.Empty(t, f.sessions.sessions, "all sessions must die with the old password")
	assert.Empty(t, f.resets.tokens, "reset token is single-use")

	// Token replay must fail.
	err = f.service.ResetPassword(context.Background(), token, "another password")
	require.Error(t, err)
}

func TestChangePassword_KeepsCurrentSession(t *testing.T) {
	f := newFixture()
	user := f.seedUser(t, "inkreader", "reader@example.com", "old password 123")

	current, err := f.service.Login(context.Background(), auth.LoginInput{
		Login:    "reader@example.com",
		Password: "old password 123",
	})
	require.NoError(t, err)

	other, err := f.service.Login(context.Background(), auth.LoginInput{
		Login:    "reader@example.com",
		Password: "old password 123",
	})
	require.NoError(t, err)

	err = f.service.ChangePassword(
		context.Background(),
		user.ID,
		"old password 123",
		"new password 456",
		current.RefreshToken,
	)
	require.NoError(t, err)

	_, err = f.sessions.FindByTokenHash(context.Background(), sec.HashToken(current.RefreshToken))
	assert.NoError(t, err, "calling device stays signed in")

	_, err = f.sessions.FindByTokenHash(context.Background(), sec.HashToken(other.RefreshToken))
	assert.Error(t, err, "other devices are forced to re-login")
}

func TestChangePassword_WrongCurrentPassword(t *testing.T) {
	f := newFixture()
	user := f.seedUser(t, "inkreader", "reader@example.com", "old password 123")

	err := f.service.ChangePassword(context.Background(), user.ID, "not my password", "new password 456", "token")
	require.Error(t, err)
	assert.Equal(t, "Current password is incorrect", apperr.As(err).Message)
}

// # Email Verification

func TestVerifyEmail(t *testing.T) {
	f := newFixture()

	user, err := f.service.Register(context.Background(), auth.RegisterInput{
		Username: "inkreader",
		Email:    "reader@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	var token string
	for stored := range f.verifies.tokens {
		token = stored
	}
	require.NotEmpty(t, token)

	require.NoError(t, f.service.VerifyEmail(context.Background(), token))
	assert.True(t, f.users.users[user.ID].IsVerified)
	assert.Empty(t, f.verifies.tokens, "verification token is single-use")
}
