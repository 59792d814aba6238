package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     AccessTTL,
		RefreshTTL:    RefreshTTL,
	}
}

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec(testConfig())
	require.NoError(t, err)
	return c
}

func TestIssueAndVerify(t *testing.T) {
	c := newTestCodec(t)
	for _, k := range []Kind{Access, Refresh} {
		tok, err := c.Issue("user-1", k)
		require.NoError(t, err)

		uid, err := c.Verify(tok, k)
		require.NoError(t, err, k.String())
		assert.Equal(t, "user-1", uid)
	}
}

func TestKindsDoNotCrossVerify(t *testing.T) {
	c := newTestCodec(t)

	access, err := c.Issue("u", Access)
	require.NoError(t, err)
	_, err = c.Verify(access, Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	refresh, err := c.Issue("u", Refresh)
	require.NoError(t, err)
	_, err = c.Verify(refresh, Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAudienceBindsKindEvenWithSharedKey(t *testing.T) {
	cfg := testConfig()
	// sign an access-audience token with the refresh secret
	claims := Claims{
		UserID: "u",
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{"access"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.RefreshSecret)
	require.NoError(t, err)

	_, err = newTestCodec(t).Verify(forged, Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredToken(t *testing.T) {
	c := newTestCodec(t)
	past := c.WithClock(func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) })

	tok, err := past.Issue("u", Refresh)
	require.NoError(t, err)

	_, err = c.Verify(tok, Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestAccessExpiresAfterFifteenMinutes(t *testing.T) {
	c := newTestCodec(t)
	issuedAt := time.Now()
	tok, err := c.WithClock(func() time.Time { return issuedAt }).Issue("u", Access)
	require.NoError(t, err)

	_, err = c.WithClock(func() time.Time { return issuedAt.Add(14 * time.Minute) }).Verify(tok, Access)
	assert.NoError(t, err)
	_, err = c.WithClock(func() time.Time { return issuedAt.Add(16 * time.Minute) }).Verify(tok, Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestWrongSecret(t *testing.T) {
	other := testConfig()
	other.RefreshSecret = []byte("someone-else")
	oc, err := NewCodec(other)
	require.NoError(t, err)

	tok, err := oc.Issue("u", Refresh)
	require.NoError(t, err)
	_, err = newTestCodec(t).Verify(tok, Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMalformed(t *testing.T) {
	c := newTestCodec(t)
	for _, in := range []string{"", "not.a.jwt", "abc"} {
		_, err := c.Verify(in, Access)
		assert.ErrorIs(t, err, ErrInvalidToken, in)
	}
}

func TestRejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{
		UserID: "u",
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{"access"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestCodec(t).Verify(tok, Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensAreUniquePerIssue(t *testing.T) {
	c := newTestCodec(t)
	a, err := c.Issue("u", Refresh)
	require.NoError(t, err)
	b, err := c.Issue("u", Refresh)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 3, len(strings.Split(a, ".")))
}

func TestIssuerChecked(t *testing.T) {
	cfg := testConfig()
	cfg.Issuer = "auth-a"
	a, err := NewCodec(cfg)
	require.NoError(t, err)
	cfg.Issuer = "auth-b"
	b, err := NewCodec(cfg)
	require.NoError(t, err)

	tok, err := a.Issue("u", Access)
	require.NoError(t, err)
	_, err = b.Verify(tok, Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewCodecValidation(t *testing.T) {
	cfg := testConfig()
	cfg.RefreshSecret = nil
	_, err := NewCodec(cfg)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.RefreshSecret = cfg.AccessSecret
	_, err = NewCodec(cfg)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.AccessTTL = 0
	_, err = NewCodec(cfg)
	assert.Error(t, err)
}

func TestTTL(t *testing.T) {
	c := newTestCodec(t)
	assert.Equal(t, 15*time.Minute, c.TTL(Access))
	assert.Equal(t, 7*24*time.Hour, c.TTL(Refresh))
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "a")
	t.Setenv("REFRESH_TOKEN_SECRET", "r")
	t.Setenv("TOKEN_ISSUER", "")
	cfg := ConfigFromEnv()
	assert.Equal(t, []byte("a"), cfg.AccessSecret)
	assert.Equal(t, []byte("r"), cfg.RefreshSecret)
	assert.Equal(t, AccessTTL, cfg.AccessTTL)
	_, err := NewCodec(cfg)
	assert.NoError(t, err)
}
