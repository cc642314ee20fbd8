package mint

import (
	"crypto/ed25519"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/tokenops/mintgate/solana/token"
)

type MockCollaborator struct {
	sync.Mutex
	mock.Mock
}

func NewMockCollaborator() *MockCollaborator {
	return &MockCollaborator{}
}

func (m *MockCollaborator) InitializeMint(accounts MintAccounts, decimals uint8, mintAuthority, freezeAuthority ed25519.PublicKey) error {
	m.Lock()
	defer m.Unlock()

	args := m.Called(accounts, decimals, mintAuthority, freezeAuthority)
	return args.Error(0)
}

func (m *MockCollaborator) GetMint(mint ed25519.PublicKey) (token.Mint, error) {
	m.Lock()
	defer m.Unlock()

	args := m.Called(mint)
	return args.Get(0).(token.Mint), args.Error(1)
}
