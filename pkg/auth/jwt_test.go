package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTestJWTService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService(JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		Issuer:     "twinrisk-test",
		Expiration: 15 * time.Minute,
	})
	require.NoError(t, err)
	return svc
}

func TestGenerateAndValidateToken_HMAC(t *testing.T) {
	svc := newTestJWTService(t)

	token, err := svc.GenerateToken("dr-lee", "ward-4", []string{RoleClinician})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "dr-lee", claims.Subject)
	assert.Equal(t, "ward-4", claims.Facility)
	assert.True(t, claims.HasRole(RoleClinician))
	assert.False(t, claims.HasRole(RoleAdmin))
}

func TestGenerateAndValidateToken_RSA(t *testing.T) {
	privPEM, pubPEM, err := GenerateKeyPair()
	require.NoError(t, err)

	issuer, err := NewJWTService(JWTConfig{PrivateKeyPEM: string(privPEM), Issuer: "twinrisk-test"})
	require.NoError(t, err)
	validator, err := NewJWTService(JWTConfig{PublicKeyPEM: string(pubPEM), Issuer: "twinrisk-test"})
	require.NoError(t, err)

	token, err := issuer.GenerateToken("ingest", "", []string{RoleService})
	require.NoError(t, err)

	claims, err := validator.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.HasAnyRole(RoleClinician, RoleService))

	_, err = validator.GenerateToken("x", "", nil)
	assert.Error(t, err, "validation-only mode cannot sign")
}

func TestValidateToken_Rejects(t *testing.T) {
	svc := newTestJWTService(t)

	other, err := NewJWTService(JWTConfig{Secret: "different-secret", Issuer: "twinrisk-test"})
	require.NoError(t, err)
	forged, err := other.GenerateToken("mallory", "", []string{RoleAdmin})
	require.NoError(t, err)

	wrongIssuer, err := NewJWTService(JWTConfig{Secret: "test-secret-key-for-unit-tests", Issuer: "elsewhere"})
	require.NoError(t, err)
	foreign, err := wrongIssuer.GenerateToken("dr-lee", "", []string{RoleClinician})
	require.NoError(t, err)

	expiredSvc, err := NewJWTService(JWTConfig{Secret: "test-secret-key-for-unit-tests", Issuer: "twinrisk-test", Expiration: time.Nanosecond})
	require.NoError(t, err)
	expired, err := expiredSvc.GenerateToken("dr-lee", "", nil)
	require.NoError(t, err)
	time.Sleep(time.Second)

	for name, token := range map[string]string{
		"garbage":      "not.a.token",
		"wrong key":    forged,
		"wrong issuer": foreign,
		"expired":      expired,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			assert.Error(t, err)
		})
	}
}

func TestNewJWTService_RequiresKey(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	assert.Error(t, err)
	assert.False(t, JWTConfig{}.Enabled())
}

func TestUnaryAuthInterceptor(t *testing.T) {
	svc := newTestJWTService(t)
	clinician, err := svc.GenerateToken("dr-lee", "", []string{RoleClinician})
	require.NoError(t, err)
	service, err := svc.GenerateToken("batch", "", []string{RoleService})
	require.NoError(t, err)

	interceptor := UnaryAuthInterceptor(svc, Policy{
		Public: []string{"/svc/Public"},
		Roles:  map[string][]string{"/svc/Predict": {RoleClinician, RoleAdmin}},
	})

	handler := func(ctx context.Context, _ any) (any, error) {
		if claims, ok := ClaimsFromContext(ctx); ok {
			return claims.Subject, nil
		}
		return "anonymous", nil
	}

	call := func(method, token string) (any, error) {
		ctx := context.Background()
		if token != "" {
			ctx = metadata.NewIncomingContext(ctx, metadata.Pairs("authorization", "Bearer "+token))
		} else {
			ctx = metadata.NewIncomingContext(ctx, metadata.MD{})
		}
		return interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: method}, handler)
	}

	got, err := call("/svc/Public", "")
	require.NoError(t, err)
	assert.Equal(t, "anonymous", got)

	got, err = call("/svc/Predict", clinician)
	require.NoError(t, err)
	assert.Equal(t, "dr-lee", got)

	_, err = call("/svc/Predict", service)
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	got, err = call("/svc/Info", service)
	require.NoError(t, err)
	assert.Equal(t, "batch", got)

	_, err = call("/svc/Predict", "")
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = call("/svc/Predict", "garbage")
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}
