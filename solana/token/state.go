package token

import (
	"crypto/ed25519"
	"encoding/binary"
)

// Reference: https://github.com/solana-labs/solana-program-library/blob/11b1e3eefdd4e523768d63f7c70a7aa391ea0d02/token/program/src/state.rs#L86
const MintSize = 82

type Mint struct {
	// Optional authority used to mint new tokens. The mint authority may
	// only be provided during mint creation. If no mint authority is
	// present then the mint has a fixed supply and no further tokens may
	// be minted.
	MintAuthority ed25519.PublicKey
	// Total supply of tokens.
	Supply uint64
	// Number of base 10 digits to the right of the decimal place.
	Decimals uint8
	// Is `true` if this structure has been initialized.
	Initialized bool
	// Optional authority to freeze token accounts.
	FreezeAuthority ed25519.PublicKey
}

func (m *Mint) Marshal() []byte {
	b := make([]byte, MintSize)

	var offset int
	writeOptionalKey(b, m.MintAuthority, &offset)
	writeUint64(b[offset:], m.Supply, &offset)
	b[offset] = m.Decimals
	offset++
	if m.Initialized {
		b[offset] = 1
	}
	offset++
	writeOptionalKey(b[offset:], m.FreezeAuthority, &offset)

	return b
}

func (m *Mint) Unmarshal(b []byte) bool {
	if len(b) != MintSize {
		return false
	}

	var offset int
	loadOptionalKey(b, &m.MintAuthority, &offset)
	loadUint64(b[offset:], &m.Supply, &offset)
	m.Decimals = b[offset]
	offset++
	m.Initialized = b[offset] == 1
	offset++
	loadOptionalKey(b[offset:], &m.FreezeAuthority, &offset)

	return true
}

func writeOptionalKey(dst []byte, src []byte, offset *int) {
	if len(src) > 0 {
		dst[0] = 1
		copy(dst[4:], src)
	}

	*offset += 4 + ed25519.PublicKeySize
}

func writeUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst, v)
	*offset += 8
}

func loadOptionalKey(src []byte, dst *ed25519.PublicKey, offset *int) {
	if src[0] == 1 {
		*dst = make([]byte, ed25519.PublicKeySize)
		copy(*dst, src[4:])
	}
	*offset += 4 + ed25519.PublicKeySize
}

func loadUint64(src []byte, dst *uint64, offset *int) {
	*dst = binary.LittleEndian.Uint64(src)
	*offset += 8
}
