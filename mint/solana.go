package mint

import (
	"bytes"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tokenops/mintgate/solana"
	"github.com/tokenops/mintgate/solana/system"
	"github.com/tokenops/mintgate/solana/token"
)

// SolanaCollaborator delegates mint initialization to the on-chain token
// program. The allocation of the mint account and its initialization are
// submitted as a single transaction, so a failure at any point leaves no
// partial state.
type SolanaCollaborator struct {
	log        *logrus.Entry
	client     solana.Client
	commitment solana.Commitment
}

func NewSolanaCollaborator(client solana.Client, commitment solana.Commitment) *SolanaCollaborator {
	return &SolanaCollaborator{
		log:        logrus.StandardLogger().WithField("type", "mint/solana_collaborator"),
		client:     client,
		commitment: commitment,
	}
}

func (c *SolanaCollaborator) InitializeMint(accounts MintAccounts, decimals uint8, mintAuthority, freezeAuthority ed25519.PublicKey) error {
	payer, ok := accounts.Payer.Public().(ed25519.PublicKey)
	if !ok {
		return errors.New("invalid payer key")
	}
	mint, ok := accounts.Mint.Public().(ed25519.PublicKey)
	if !ok {
		return errors.New("invalid mint key")
	}

	lamports, err := c.client.GetMinimumBalanceForRentExemption(token.MintSize)
	if err != nil {
		return errors.Wrap(err, "failed to get minimum balance for rent exemption")
	}

	txn := solana.NewTransaction(
		payer,
		system.CreateAccount(payer, mint, token.ProgramKey, lamports, token.MintSize),
		token.InitializeMint(mint, mintAuthority, freezeAuthority, decimals),
	)

	hash, err := c.client.GetRecentBlockhash()
	if err != nil {
		return errors.Wrap(err, "failed to get recent blockhash")
	}
	txn.SetBlockhash(hash)

	if err := txn.Sign(accounts.Payer, accounts.Mint); err != nil {
		return errors.Wrap(err, "failed to sign transaction")
	}

	sig, status, err := c.client.SubmitTransaction(txn, c.commitment)
	if err != nil {
		return errors.Wrap(err, "failed to submit transaction")
	}
	if status != nil && status.ErrorResult != nil {
		return programError(status.ErrorResult)
	}

	c.log.WithFields(logrus.Fields{
		"mint":      base58.Encode(mint),
		"signature": sig.String(),
	}).Debug("submitted mint initialization")

	return nil
}

func (c *SolanaCollaborator) GetMint(mint ed25519.PublicKey) (m token.Mint, err error) {
	info, err := c.client.GetAccountInfo(mint, c.commitment)
	if err != nil {
		return m, errors.Wrap(err, "failed to get mint account info")
	}

	if !bytes.Equal(info.Owner, token.ProgramKey) {
		return m, errors.New("account is not owned by the token program")
	}
	if !m.Unmarshal(info.Data) {
		return m, errors.Errorf("invalid mint account size: %d", len(info.Data))
	}

	return m, nil
}

// programError maps the token program failures the initializer recognizes
// onto the package error surface. Anything else is surfaced unmodified.
func programError(txErr *solana.TransactionError) error {
	if txErr.ErrorKey() == solana.TransactionErrorInsufficientFundsForFee {
		return ErrInsufficientFunding
	}

	ie := txErr.InstructionError()
	if ie == nil {
		return txErr
	}

	if ce := ie.CustomError(); ce != nil {
		switch *ce {
		case token.ErrorAlreadyInUse:
			return ErrAlreadyInitialized
		case token.ErrorNotRentExempt, token.ErrorInsufficientFunds:
			return ErrInsufficientFunding
		}
		return txErr
	}

	switch ie.ErrorKey() {
	case solana.InstructionErrorAccountAlreadyInitialized:
		return ErrAlreadyInitialized
	case solana.InstructionErrorInsufficientFunds:
		return ErrInsufficientFunding
	}

	return txErr
}
