package service

import (
	"context"
	"testing"

	"concursos_backend/internal/common"
	"concursos_backend/internal/common/security"
	"concursos_backend/internal/platform/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) *AuthService {
	t.Helper()
	config.Load()
	security.InitJWT()
	return NewAuthService(newFakeUserRepo())
}

func TestSignupAndLogin(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	signup, err := svc.Signup(ctx, SignupRequest{
		Username: "  maria  ",
		Email:    "maria@example.com",
		Password: "s3creto",
	})
	require.NoError(t, err)
	assert.Equal(t, "maria", signup.User.Username) // Whitespace trimmed
	assert.Empty(t, signup.User.HashedPassword)
	assert.NotEmpty(t, signup.Token)

	// login_field accepts the email or the username.
	byEmail, err := svc.Login(ctx, LoginRequest{LoginField: "maria@example.com", Password: "s3creto"})
	require.NoError(t, err)
	assert.Equal(t, signup.User.ID, byEmail.User.ID)

	byUsername, err := svc.Login(ctx, LoginRequest{LoginField: "maria", Password: "s3creto"})
	require.NoError(t, err)
	assert.Equal(t, signup.User.ID, byUsername.User.ID)
	assert.Empty(t, byUsername.User.HashedPassword)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{
		Username: "pedro",
		Email:    "pedro@example.com",
		Password: "s3creto",
	})
	require.NoError(t, err)

	// Unknown identifier and wrong password both read the same to the caller.
	_, err = svc.Login(ctx, LoginRequest{LoginField: "nobody", Password: "s3creto"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = svc.Login(ctx, LoginRequest{LoginField: "pedro", Password: "wrong"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = svc.Login(ctx, LoginRequest{LoginField: "", Password: "s3creto"})
	assert.ErrorIs(t, err, common.ErrBadRequest)
}
