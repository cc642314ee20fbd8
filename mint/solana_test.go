package mint

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tokenops/mintgate/solana"
	"github.com/tokenops/mintgate/solana/system"
	"github.com/tokenops/mintgate/solana/token"
)

func TestSolanaCollaborator_InitializeMint(t *testing.T) {
	payer := generateKeypair(t)
	mintKey := generateKeypair(t)
	authority := generateKeys(t, 1)[0]

	payerPub := payer.Public().(ed25519.PublicKey)
	mintPub := mintKey.Public().(ed25519.PublicKey)

	client := solana.NewMockClient()
	client.On("GetMinimumBalanceForRentExemption", uint64(token.MintSize)).Return(uint64(1_461_600), nil)
	client.On("GetRecentBlockhash").Return(solana.Blockhash{1, 2, 3}, nil)

	var submitted solana.Transaction
	client.On("SubmitTransaction", mock.Anything, solana.CommitmentSingle).
		Return(solana.Signature{}, (*solana.SignatureStatus)(nil), nil).
		Run(func(args mock.Arguments) {
			submitted = args.Get(0).(solana.Transaction)
		})

	collaborator := NewSolanaCollaborator(client, solana.CommitmentSingle)
	accounts := MintAccounts{
		Payer: payer,
		Mint:  mintKey,
	}
	require.NoError(t, collaborator.InitializeMint(accounts, 9, authority, authority))

	// The allocation and the initialization ride in one transaction.
	require.Len(t, submitted.Message.Instructions, 2)

	create, err := system.DecompileCreateAccount(submitted.Message, 0)
	require.NoError(t, err)
	assert.Equal(t, payerPub, create.Funder)
	assert.Equal(t, mintPub, create.Address)
	assert.Equal(t, token.ProgramKey, create.Owner)
	assert.EqualValues(t, 1_461_600, create.Lamports)
	assert.EqualValues(t, token.MintSize, create.Size)

	initialize, err := token.DecompileInitializeMint(submitted.Message, 1)
	require.NoError(t, err)
	assert.Equal(t, mintPub, initialize.Mint)
	assert.Equal(t, authority, initialize.MintAuthority)
	assert.EqualValues(t, authority, initialize.FreezeAuthority)
	assert.EqualValues(t, 9, initialize.Decimals)

	// Both the payer and the mint account signed.
	messageBytes := submitted.Message.Marshal()
	assert.True(t, ed25519.Verify(payerPub, messageBytes, submitted.Signatures[0][:]))
	assert.True(t, ed25519.Verify(mintPub, messageBytes, submitted.Signatures[1][:]))
}

func TestSolanaCollaborator_ProgramErrors(t *testing.T) {
	payer := generateKeypair(t)

	for _, tc := range []struct {
		customError solana.CustomError
		expected    error
	}{
		{token.ErrorAlreadyInUse, ErrAlreadyInitialized},
		{token.ErrorNotRentExempt, ErrInsufficientFunding},
		{token.ErrorInsufficientFunds, ErrInsufficientFunding},
	} {
		txErr, err := solana.TransactionErrorFromInstructionError(&solana.InstructionError{
			Index: 1,
			Err:   tc.customError,
		})
		require.NoError(t, err)

		client := solana.NewMockClient()
		client.On("GetMinimumBalanceForRentExemption", mock.Anything).Return(uint64(1_461_600), nil)
		client.On("GetRecentBlockhash").Return(solana.Blockhash{}, nil)
		client.On("SubmitTransaction", mock.Anything, mock.Anything).
			Return(solana.Signature{}, &solana.SignatureStatus{ErrorResult: txErr}, nil)

		collaborator := NewSolanaCollaborator(client, solana.CommitmentSingle)
		accounts := MintAccounts{
			Payer: payer,
			Mint:  generateKeypair(t),
		}
		err = collaborator.InitializeMint(accounts, 0, generateKeys(t, 1)[0], nil)
		assert.Equal(t, tc.expected, err)
	}
}

func TestSolanaCollaborator_UnrecognizedErrorVerbatim(t *testing.T) {
	payer := generateKeypair(t)

	// An unrelated program error is passed through untouched.
	txErr, err := solana.TransactionErrorFromInstructionError(&solana.InstructionError{
		Index: 1,
		Err:   solana.CustomError(42),
	})
	require.NoError(t, err)

	client := solana.NewMockClient()
	client.On("GetMinimumBalanceForRentExemption", mock.Anything).Return(uint64(1_461_600), nil)
	client.On("GetRecentBlockhash").Return(solana.Blockhash{}, nil)
	client.On("SubmitTransaction", mock.Anything, mock.Anything).
		Return(solana.Signature{}, &solana.SignatureStatus{ErrorResult: txErr}, nil)

	collaborator := NewSolanaCollaborator(client, solana.CommitmentSingle)
	accounts := MintAccounts{
		Payer: payer,
		Mint:  generateKeypair(t),
	}

	initErr := collaborator.InitializeMint(accounts, 0, generateKeys(t, 1)[0], nil)
	assert.Equal(t, txErr, initErr)
}

func TestSolanaCollaborator_GetMint(t *testing.T) {
	authority := generateKeys(t, 1)[0]
	mintPub := generateKeys(t, 1)[0]

	state := token.Mint{
		MintAuthority:   authority,
		Decimals:        9,
		Initialized:     true,
		FreezeAuthority: authority,
	}

	client := solana.NewMockClient()
	client.On("GetAccountInfo", mintPub, mock.Anything).Return(solana.AccountInfo{
		Owner: token.ProgramKey,
		Data:  state.Marshal(),
	}, nil)

	collaborator := NewSolanaCollaborator(client, solana.CommitmentSingle)
	m, err := collaborator.GetMint(mintPub)
	require.NoError(t, err)
	assert.Equal(t, state, m)
}

func TestSolanaCollaborator_GetMintWrongOwner(t *testing.T) {
	mintPub := generateKeys(t, 1)[0]
	other := generateKeys(t, 1)[0]

	client := solana.NewMockClient()
	client.On("GetAccountInfo", mintPub, mock.Anything).Return(solana.AccountInfo{
		Owner: other,
		Data:  make([]byte, token.MintSize),
	}, nil)

	collaborator := NewSolanaCollaborator(client, solana.CommitmentSingle)
	_, err := collaborator.GetMint(mintPub)
	assert.Error(t, err)
}
