package mint

import (
	"crypto/ed25519"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tokenops/mintgate/solana/token"
	_ "github.com/tokenops/mintgate/testutil"
)

func TestAuthorize(t *testing.T) {
	keys := generateKeys(t, 2)

	assert.NoError(t, Authorize(keys[0], keys[0]))
	assert.Equal(t, ErrUnauthorized, Authorize(keys[0], keys[1]))
	assert.Equal(t, ErrUnauthorized, Authorize(keys[1], keys[0]))
}

func TestInitialize(t *testing.T) {
	authority := generateKeypair(t)
	mintKey := generateKeypair(t)
	authorityPub := authority.Public().(ed25519.PublicKey)

	collaborator := NewMockCollaborator()

	var accounts MintAccounts
	var decimals uint8
	var mintAuthority, freezeAuthority ed25519.PublicKey
	collaborator.On("InitializeMint", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil).
		Run(func(args mock.Arguments) {
			accounts = args.Get(0).(MintAccounts)
			decimals = args.Get(1).(uint8)
			mintAuthority = args.Get(2).(ed25519.PublicKey)
			freezeAuthority = args.Get(3).(ed25519.PublicKey)
		})

	initializer := NewInitializer(collaborator)
	err := initializer.Initialize(InitializeRequest{
		Authority: authority,
		Payer:     authority,
		Mint:      mintKey,
		Decimals:  5,
	})
	require.NoError(t, err)

	collaborator.AssertNumberOfCalls(t, "InitializeMint", 1)
	assert.Equal(t, authority, accounts.Payer)
	assert.Equal(t, mintKey, accounts.Mint)
	assert.EqualValues(t, 5, decimals)

	// The mint and freeze authority are both the request authority.
	assert.Equal(t, authorityPub, mintAuthority)
	assert.Equal(t, authorityPub, freezeAuthority)
}

func TestInitialize_Unauthorized(t *testing.T) {
	authority := generateKeypair(t)
	payer := generateKeypair(t)
	mintKey := generateKeypair(t)

	collaborator := NewMockCollaborator()

	initializer := NewInitializer(collaborator)
	err := initializer.Initialize(InitializeRequest{
		Authority: authority,
		Payer:     payer,
		Mint:      mintKey,
		Decimals:  2,
	})
	assert.Equal(t, ErrUnauthorized, err)

	// The collaborator is never reached.
	assert.Empty(t, collaborator.Calls)
}

func TestInitialize_CollaboratorErrors(t *testing.T) {
	authority := generateKeypair(t)

	for _, expected := range []error{
		ErrAlreadyInitialized,
		ErrInsufficientFunding,
		errors.New("unexpected program failure"),
	} {
		collaborator := NewMockCollaborator()
		collaborator.On("InitializeMint", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(expected)

		initializer := NewInitializer(collaborator)
		err := initializer.Initialize(InitializeRequest{
			Authority: authority,
			Payer:     authority,
			Mint:      generateKeypair(t),
			Decimals:  0,
		})

		// Collaborator failures are surfaced verbatim.
		assert.Equal(t, expected, err)
	}
}

func TestInitialize_Ledger(t *testing.T) {
	authority := generateKeypair(t)
	authorityPub := authority.Public().(ed25519.PublicKey)

	for _, decimals := range []uint8{0, 9, 255} {
		ledger := newTestLedger()
		ledger.fund(authorityPub, ledger.requiredLamports)

		mintKey := generateKeypair(t)
		mintPub := mintKey.Public().(ed25519.PublicKey)

		initializer := NewInitializer(ledger)
		err := initializer.Initialize(InitializeRequest{
			Authority: authority,
			Payer:     authority,
			Mint:      mintKey,
			Decimals:  decimals,
		})
		require.NoError(t, err)

		m, err := ledger.GetMint(mintPub)
		require.NoError(t, err)

		assert.True(t, m.Initialized)
		assert.Equal(t, decimals, m.Decimals)
		assert.EqualValues(t, 0, m.Supply)
		assert.Equal(t, authorityPub, m.MintAuthority)
		assert.Equal(t, authorityPub, m.FreezeAuthority)
	}
}

func TestInitialize_AlreadyInitialized(t *testing.T) {
	authority := generateKeypair(t)
	authorityPub := authority.Public().(ed25519.PublicKey)
	mintKey := generateKeypair(t)
	mintPub := mintKey.Public().(ed25519.PublicKey)

	ledger := newTestLedger()
	ledger.fund(authorityPub, 2*ledger.requiredLamports)

	initializer := NewInitializer(ledger)

	req := InitializeRequest{
		Authority: authority,
		Payer:     authority,
		Mint:      mintKey,
		Decimals:  9,
	}
	require.NoError(t, initializer.Initialize(req))

	// The second initialization fails, and the first write is preserved.
	req.Decimals = 2
	assert.Equal(t, ErrAlreadyInitialized, initializer.Initialize(req))

	m, err := ledger.GetMint(mintPub)
	require.NoError(t, err)
	assert.EqualValues(t, 9, m.Decimals)
}

func TestInitialize_InsufficientFunding(t *testing.T) {
	authority := generateKeypair(t)
	authorityPub := authority.Public().(ed25519.PublicKey)
	mintKey := generateKeypair(t)
	mintPub := mintKey.Public().(ed25519.PublicKey)

	ledger := newTestLedger()
	ledger.fund(authorityPub, ledger.requiredLamports-1)

	initializer := NewInitializer(ledger)
	err := initializer.Initialize(InitializeRequest{
		Authority: authority,
		Payer:     authority,
		Mint:      mintKey,
		Decimals:  9,
	})
	assert.Equal(t, ErrInsufficientFunding, err)

	// No account was mutated.
	_, err = ledger.GetMint(mintPub)
	assert.Error(t, err)
	assert.Equal(t, ledger.requiredLamports-1, ledger.balances[string(authorityPub)])
}

// testLedger is an in-memory stand-in for the token program, for exercising
// the initializer without a validator.
type testLedger struct {
	requiredLamports uint64
	balances         map[string]uint64
	mints            map[string]token.Mint
}

func newTestLedger() *testLedger {
	return &testLedger{
		requiredLamports: 1_461_600,
		balances:         make(map[string]uint64),
		mints:            make(map[string]token.Mint),
	}
}

func (l *testLedger) fund(account ed25519.PublicKey, lamports uint64) {
	l.balances[string(account)] += lamports
}

func (l *testLedger) InitializeMint(accounts MintAccounts, decimals uint8, mintAuthority, freezeAuthority ed25519.PublicKey) error {
	payer := accounts.Payer.Public().(ed25519.PublicKey)
	mint := accounts.Mint.Public().(ed25519.PublicKey)

	if _, ok := l.mints[string(mint)]; ok {
		return ErrAlreadyInitialized
	}
	if l.balances[string(payer)] < l.requiredLamports {
		return ErrInsufficientFunding
	}

	l.balances[string(payer)] -= l.requiredLamports
	l.mints[string(mint)] = token.Mint{
		MintAuthority:   mintAuthority,
		Decimals:        decimals,
		Initialized:     true,
		FreezeAuthority: freezeAuthority,
	}

	return nil
}

func (l *testLedger) GetMint(mint ed25519.PublicKey) (token.Mint, error) {
	m, ok := l.mints[string(mint)]
	if !ok {
		return token.Mint{}, errors.New("no account info")
	}

	return m, nil
}

func generateKeypair(t *testing.T) ed25519.PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return priv
}

func generateKeys(t *testing.T, amount int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, amount)

	for i := 0; i < amount; i++ {
		pub, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		keys[i] = pub
	}

	return keys
}
