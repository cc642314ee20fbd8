package mint

import (
	"crypto/ed25519"

	"github.com/tokenops/mintgate/solana/token"
)

// MintAccounts binds the accounts the token program touches when
// initializing a mint, along with the keys that must sign for them.
type MintAccounts struct {
	// Payer funds the allocation of the mint account.
	Payer ed25519.PrivateKey
	// Mint is the account to be initialized as a mint.
	Mint ed25519.PrivateKey
}

// Collaborator is the token program capability the initializer delegates
// to. Implementations own the mint account byte layout; the initializer
// never touches the account itself, and never retries a failed delegation.
type Collaborator interface {
	// InitializeMint stamps {decimals, mint authority, freeze authority}
	// into the mint account. Fails with ErrAlreadyInitialized if the
	// account already holds mint state, and ErrInsufficientFunding if the
	// account fails the token program's rent checks. All other failures
	// are surfaced unmodified.
	InitializeMint(accounts MintAccounts, decimals uint8, mintAuthority, freezeAuthority ed25519.PublicKey) error

	// GetMint returns the current state of an initialized mint.
	GetMint(mint ed25519.PublicKey) (token.Mint, error)
}
