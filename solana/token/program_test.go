package token

import (
	"crypto/ed25519"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenops/mintgate/solana"
)

func TestInitializeMint(t *testing.T) {
	keys := generateKeys(t, 3)

	instruction := InitializeMint(keys[0], keys[1], keys[2], 9)

	assert.EqualValues(t, 0, instruction.Data[0])
	assert.EqualValues(t, 9, instruction.Data[1])
	assert.EqualValues(t, keys[1], instruction.Data[2:2+ed25519.PublicKeySize])
	assert.EqualValues(t, 1, instruction.Data[2+ed25519.PublicKeySize])
	assert.EqualValues(t, keys[2], instruction.Data[3+ed25519.PublicKeySize:])

	assert.False(t, instruction.Accounts[0].IsSigner)
	assert.True(t, instruction.Accounts[0].IsWritable)
	assert.False(t, instruction.Accounts[1].IsSigner)
	assert.False(t, instruction.Accounts[1].IsWritable)

	decompiled, err := DecompileInitializeMint(solana.NewTransaction(keys[0], instruction).Message, 0)
	require.NoError(t, err)
	assert.Equal(t, keys[0], decompiled.Mint)
	assert.Equal(t, keys[1], decompiled.MintAuthority)
	assert.EqualValues(t, keys[2], decompiled.FreezeAuthority)
	assert.EqualValues(t, 9, decompiled.Decimals)

	instruction.Accounts[1].PublicKey = keys[2]
	_, err = DecompileInitializeMint(solana.NewTransaction(keys[0], instruction).Message, 0)
	assert.NotNil(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid rent program"))

	instruction.Accounts = instruction.Accounts[:1]
	_, err = DecompileInitializeMint(solana.NewTransaction(keys[0], instruction).Message, 0)
	assert.NotNil(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid number of accounts"))

	instruction.Data[0] = byte(commandTransfer)
	_, err = DecompileInitializeMint(solana.NewTransaction(keys[0], instruction).Message, 0)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	instruction.Program = keys[2]
	_, err = DecompileInitializeMint(solana.NewTransaction(keys[0], instruction).Message, 0)
	assert.Equal(t, solana.ErrIncorrectProgram, err)
}

func TestInitializeMint_NoFreezeAuthority(t *testing.T) {
	keys := generateKeys(t, 2)

	instruction := InitializeMint(keys[0], keys[1], nil, 2)

	assert.Len(t, instruction.Data, 3+ed25519.PublicKeySize)
	assert.EqualValues(t, 0, instruction.Data[2+ed25519.PublicKeySize])

	decompiled, err := DecompileInitializeMint(solana.NewTransaction(keys[0], instruction).Message, 0)
	require.NoError(t, err)
	assert.Equal(t, keys[0], decompiled.Mint)
	assert.Equal(t, keys[1], decompiled.MintAuthority)
	assert.Nil(t, decompiled.FreezeAuthority)
	assert.EqualValues(t, 2, decompiled.Decimals)

	// Mess with the instruction for validation.
	instruction.Data = append(instruction.Data, 0)
	_, err = DecompileInitializeMint(solana.NewTransaction(keys[0], instruction).Message, 0)
	assert.NotNil(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid data size"))

	instruction.Data = instruction.Data[:3+ed25519.PublicKeySize]
	instruction.Data[2+ed25519.PublicKeySize] = 2
	_, err = DecompileInitializeMint(solana.NewTransaction(keys[0], instruction).Message, 0)
	assert.NotNil(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid freeze authority option"))

	instruction.Data = instruction.Data[:4]
	_, err = DecompileInitializeMint(solana.NewTransaction(keys[0], instruction).Message, 0)
	assert.NotNil(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid data size"))
}

func TestInitializeMint_DecimalBounds(t *testing.T) {
	keys := generateKeys(t, 3)

	// Decimals are forwarded unmodified at the boundaries.
	for _, decimals := range []uint8{0, 9, 255} {
		instruction := InitializeMint(keys[0], keys[1], keys[2], decimals)

		decompiled, err := DecompileInitializeMint(solana.NewTransaction(keys[0], instruction).Message, 0)
		require.NoError(t, err)
		assert.Equal(t, decimals, decompiled.Decimals)
	}
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
