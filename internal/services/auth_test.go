package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/OwaisIslam/living-real/internal/domain"
	"github.com/OwaisIslam/living-real/internal/platform/apierr"
	"github.com/OwaisIslam/living-real/internal/platform/ctxutil"
	"github.com/OwaisIslam/living-real/internal/platform/logger"
)

func TestLoginRoundTrip(t *testing.T) {
	h := newHarness(t)
	owner := h.register("Owner@Example.com", types.RoleOwner)

	res, err := h.auth.Login(context.Background(), "  OWNER@example.com ", "password123")
	require.NoError(t, err)
	require.NotNil(t, res.User)
	assert.Equal(t, owner.ID, res.User.ID)
	assert.Empty(t, res.User.Password)
	assert.NotEmpty(t, res.Token)

	ctx, err := h.auth.SetContextFromToken(context.Background(), res.Token)
	require.NoError(t, err)
	rd := ctxutil.GetRequestData(ctx)
	require.NotNil(t, rd)
	assert.Equal(t, owner.ID, rd.UserID)
	assert.Equal(t, types.RoleOwner, rd.Role)
	assert.Equal(t, res.Token, rd.TokenString)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	h := newHarness(t)
	h.register("tenant@example.com", types.RoleTenant)

	_, wrongPw := h.auth.Login(context.Background(), "tenant@example.com", "not-the-password")
	_, noUser := h.auth.Login(context.Background(), "nobody@example.com", "password123")

	require.Error(t, wrongPw)
	require.Error(t, noUser)
	assert.Equal(t, wrongPw.Error(), noUser.Error())
	assert.Equal(t, apierr.MsgIncorrectCredential, wrongPw.Error())
	assert.True(t, apierr.IsCode(wrongPw, apierr.CodeAuthentication))
	assert.True(t, apierr.IsCode(noUser, apierr.CodeAuthentication))
}

func TestSetContextFromTokenRejectsBadTokens(t *testing.T) {
	h := newHarness(t)
	u := h.register("tok@example.com", types.RoleTenant)

	other := NewAuthService(logger.NewNop(), h.userRepo, h.gate, "other-secret", time.Hour)
	forged, err := other.IssueToken(u)
	require.NoError(t, err)
	_, err = h.auth.SetContextFromToken(context.Background(), forged)
	assert.Error(t, err)

	expiredSvc := NewAuthService(logger.NewNop(), h.userRepo, h.gate, testSecret, -time.Minute)
	expired, err := expiredSvc.IssueToken(u)
	require.NoError(t, err)
	_, err = h.auth.SetContextFromToken(context.Background(), expired)
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, JWTClaims{
		Role:             types.RoleOwner,
		RegisteredClaims: jwt.RegisteredClaims{Subject: u.ID.String()},
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = h.auth.SetContextFromToken(context.Background(), unsigned)
	assert.Error(t, err)

	badRole := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := badRole.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = h.auth.SetContextFromToken(context.Background(), signed)
	assert.Error(t, err)
}

func TestSetContextFromEmptyTokenIsAnonymous(t *testing.T) {
	h := newHarness(t)
	ctx, err := h.auth.SetContextFromToken(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, ctxutil.GetRequestData(ctx))
}

func TestIssueTokenRequiresUser(t *testing.T) {
	h := newHarness(t)
	_, err := h.auth.IssueToken(nil)
	assert.Error(t, err)
	_, err = h.auth.IssueToken(&types.User{ID: uuid.Nil})
	assert.Error(t, err)
}
