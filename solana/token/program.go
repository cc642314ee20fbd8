package token

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/tokenops/mintgate/solana"
	"github.com/tokenops/mintgate/solana/system"
)

// ProgramKey is the address of the token program that should be used.
//
// Current key: TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA
//
// todo: lock this in, or make configurable.
var ProgramKey = ed25519.PublicKey{6, 221, 246, 225, 215, 101, 161, 147, 217, 203, 225, 70, 206, 235, 121, 172, 28, 180, 133, 237, 95, 91, 55, 145, 58, 140, 245, 133, 126, 255, 0, 169}

type command byte

const (
	commandInitializeMint command = iota
	// nolint:varcheck,deadcode,unused
	commandInitializeAccount
	// nolint:varcheck,deadcode,unused
	commandInitializeMultisig
	// nolint:varcheck,deadcode,unused
	commandTransfer
	// nolint:varcheck,deadcode,unused
	commandApprove
	// nolint:varcheck,deadcode,unused
	commandRevoke
	// nolint:varcheck,deadcode,unused
	commandSetAuthority
	// nolint:varcheck,deadcode,unused
	commandMintTo
)

// Custom errors reported by the token program.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/b011698251981b5a12088acba18fad1d41c3719a/token/program/src/error.rs
const (
	ErrorNotRentExempt solana.CustomError = iota
	ErrorInsufficientFunds
	ErrorInvalidMint
	ErrorMintMismatch
	ErrorOwnerMismatch
	ErrorFixedSupply
	ErrorAlreadyInUse
	// nolint:varcheck,deadcode,unused
	ErrorInvalidNumberOfProvidedSigners
	// nolint:varcheck,deadcode,unused
	ErrorInvalidNumberOfRequiredSigners
	ErrorUninitializedState
)

// InitializeMint returns an instruction that initializes a freshly created
// account as a mint with the provided decimals and authorities.
//
// The mint account must have been created (sized to MintSize and funded to
// rent exemption) in the same transaction, before this instruction runs.
// The token program rejects accounts that already hold mint state with
// ErrorAlreadyInUse, and accounts below the rent-exemption minimum with
// ErrorNotRentExempt.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/b011698251981b5a12088acba18fad1d41c3719a/token/program/src/instruction.rs#L26-L40
func InitializeMint(mint, mintAuthority, freezeAuthority ed25519.PublicKey, decimals uint8) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   0. `[writable]` The mint to initialize.
	//   1. `[]` Rent sysvar
	data := make([]byte, 0, 2+2*ed25519.PublicKeySize+1)
	data = append(data, byte(commandInitializeMint), decimals)
	data = append(data, mintAuthority...)
	if len(freezeAuthority) > 0 {
		data = append(data, 1)
		data = append(data, freezeAuthority...)
	} else {
		data = append(data, 0)
	}

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(system.RentSysVar, false),
	)
}

type DecompiledInitializeMint struct {
	Mint            ed25519.PublicKey
	MintAuthority   ed25519.PublicKey
	FreezeAuthority ed25519.PublicKey
	Decimals        uint8
}

func DecompileInitializeMint(m solana.Message, index int) (*DecompiledInitializeMint, error) {
	if index >= len(m.Instructions) {
		return nil, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]

	if !bytes.Equal(m.Accounts[i.ProgramIndex], ProgramKey) {
		return nil, solana.ErrIncorrectProgram
	}
	if len(i.Data) == 0 || i.Data[0] != byte(commandInitializeMint) {
		return nil, solana.ErrIncorrectInstruction
	}
	if len(i.Accounts) != 2 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if !bytes.Equal(system.RentSysVar, m.Accounts[i.Accounts[1]]) {
		return nil, errors.Errorf("invalid rent program")
	}

	noFreezeLen := 3 + ed25519.PublicKeySize
	if len(i.Data) != noFreezeLen && len(i.Data) != noFreezeLen+ed25519.PublicKeySize {
		return nil, errors.Errorf("invalid data size: %d", len(i.Data))
	}

	decompiled := &DecompiledInitializeMint{
		Mint:          m.Accounts[i.Accounts[0]],
		Decimals:      i.Data[1],
		MintAuthority: make(ed25519.PublicKey, ed25519.PublicKeySize),
	}
	copy(decompiled.MintAuthority, i.Data[2:])

	switch i.Data[2+ed25519.PublicKeySize] {
	case 0:
		if len(i.Data) != noFreezeLen {
			return nil, errors.Errorf("invalid data size: %d (expect %d)", len(i.Data), noFreezeLen)
		}
	case 1:
		if len(i.Data) != noFreezeLen+ed25519.PublicKeySize {
			return nil, errors.Errorf("invalid data size: %d (expect %d)", len(i.Data), noFreezeLen+ed25519.PublicKeySize)
		}
		decompiled.FreezeAuthority = i.Data[3+ed25519.PublicKeySize:]
	default:
		return nil, errors.Errorf("invalid freeze authority option: %d", i.Data[2+ed25519.PublicKeySize])
	}

	return decompiled, nil
}
