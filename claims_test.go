package warble_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/warblehq/warble"
)

func TestSessionClaimsAccountID(t *testing.T) {
	claims := &warble.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "subject-id"},
	}
	assert.Equal(t, "subject-id", claims.AccountID())

	claims.UID = "uid-wins"
	assert.Equal(t, "uid-wins", claims.AccountID())
}

func TestSessionClaimsTimes(t *testing.T) {
	empty := &warble.SessionClaims{}
	assert.True(t, empty.Expires().IsZero())
	assert.True(t, empty.IssuedTime().IsZero())

	now := time.Now().Truncate(time.Second)
	claims := &warble.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}

	assert.Equal(t, now, claims.IssuedTime())
	assert.Equal(t, now.Add(time.Hour), claims.Expires())
}
