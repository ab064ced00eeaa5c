// Copyright (c) 2026 Songatlas. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/songatlas/internal/platform/sec"
)

// newKeyPair returns a fresh RSA key and its public half as PEM.
func newKeyPair(t *testing.T) (*rsa.PrivateKey, []byte) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	return key, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
}

func sign(t *testing.T, key *rsa.PrivateKey, claims sec.AuthClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

/*
TestVerifyToken covers the accepted token and the main rejection paths.
*/
func TestVerifyToken(t *testing.T) {
	key, publicPEM := newKeyPair(t)
	otherKey, _ := newKeyPair(t)

	verifier, err := sec.NewTokenVerifierFromPEM(publicPEM, "songatlas-admin")
	require.NoError(t, err)

	valid := sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "songatlas-admin",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: "u-1",
		Role:   string(sec.RoleAdmin),
	}

	t.Run("valid", func(t *testing.T) {
		claims, err := verifier.VerifyToken(sign(t, key, valid))
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("foreign key", func(t *testing.T) {
		_, err := verifier.VerifyToken(sign(t, otherKey, valid))
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := valid
		claims.Issuer = "elsewhere"
		_, err := verifier.VerifyToken(sign(t, key, claims))
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		claims := valid
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := verifier.VerifyToken(sign(t, key, claims))
		assert.Error(t, err)
	})
}

/*
TestUserRole_AtLeast verifies the role hierarchy.
*/
func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleEditor))
	assert.True(t, sec.RoleEditor.AtLeast(sec.RoleEditor))
	assert.False(t, sec.RoleViewer.AtLeast(sec.RoleEditor))
	assert.False(t, sec.UserRole("guest").AtLeast(sec.RoleViewer))
}
