package warble_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/warblehq/warble"
)

// MockIdentityVerifier implements warble.IdentityVerifier
type MockIdentityVerifier struct {
	mock.Mock
}

func (m *MockIdentityVerifier) Verify(ctx context.Context, externalToken string) (*warble.VerifiedIdentity, error) {
	args := m.Called(ctx, externalToken)
	identity, _ := args.Get(0).(*warble.VerifiedIdentity)
	return identity, args.Error(1)
}

// MockAccountResolver implements warble.AccountResolver
type MockAccountResolver struct {
	mock.Mock
}

func (m *MockAccountResolver) GetOrCreate(ctx context.Context, record *warble.User) (*warble.User, error) {
	args := m.Called(ctx, record)
	account, _ := args.Get(0).(*warble.User)
	return account, args.Error(1)
}

// MockTokenService implements warble.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Generate(accountID, email string) (string, error) {
	args := m.Called(accountID, email)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) SignClaims(claims *warble.SessionClaims) (string, error) {
	args := m.Called(claims)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Validate(raw string) (*warble.SessionClaims, error) {
	args := m.Called(raw)
	claims, _ := args.Get(0).(*warble.SessionClaims)
	return claims, args.Error(1)
}
