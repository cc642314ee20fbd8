package solana

import (
	"bytes"
	"crypto/ed25519"
	"sort"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

type Signature [ed25519.SignatureSize]byte

func (s Signature) String() string {
	return base58.Encode(s[:])
}

type Blockhash [32]byte

func (b Blockhash) String() string {
	return base58.Encode(b[:])
}

// Header declares how many of the message accounts are signers, and
// how many are read-only.
type Header struct {
	NumSignatures     byte
	NumReadonlySigned byte
	NumReadonly       byte
}

// Message is the signable portion of a transaction.
//
// Reference: https://docs.solana.com/developing/programming-model/transactions#message-format
type Message struct {
	Header          Header
	Accounts        []ed25519.PublicKey
	RecentBlockhash Blockhash
	Instructions    []CompiledInstruction
}

func (m Message) Marshal() []byte {
	b := bytes.NewBuffer(nil)

	b.WriteByte(m.Header.NumSignatures)
	b.WriteByte(m.Header.NumReadonlySigned)
	b.WriteByte(m.Header.NumReadonly)

	_ = shortVecEncodeLen(b, len(m.Accounts))
	for _, a := range m.Accounts {
		b.Write(a)
	}

	b.Write(m.RecentBlockhash[:])

	_ = shortVecEncodeLen(b, len(m.Instructions))
	for _, i := range m.Instructions {
		b.WriteByte(i.ProgramIndex)

		_ = shortVecEncodeLen(b, len(i.Accounts))
		b.Write(i.Accounts)

		_ = shortVecEncodeLen(b, len(i.Data))
		b.Write(i.Data)
	}

	return b.Bytes()
}

func (m *Message) Unmarshal(b []byte) error {
	buf := bytes.NewBuffer(b)

	var err error
	if m.Header.NumSignatures, err = buf.ReadByte(); err != nil {
		return errors.Wrap(err, "failed to read num signatures")
	}
	if m.Header.NumReadonlySigned, err = buf.ReadByte(); err != nil {
		return errors.Wrap(err, "failed to read num read-only signed")
	}
	if m.Header.NumReadonly, err = buf.ReadByte(); err != nil {
		return errors.Wrap(err, "failed to read num read-only")
	}

	accountLen, err := shortVecDecodeLen(buf)
	if err != nil {
		return errors.Wrap(err, "failed to read account length")
	}

	m.Accounts = make([]ed25519.PublicKey, accountLen)
	for i := 0; i < accountLen; i++ {
		m.Accounts[i] = make(ed25519.PublicKey, ed25519.PublicKeySize)
		if _, err := buf.Read(m.Accounts[i]); err != nil {
			return errors.Wrapf(err, "failed to read account at index %d", i)
		}
	}

	if _, err := buf.Read(m.RecentBlockhash[:]); err != nil {
		return errors.Wrap(err, "failed to read recent blockhash")
	}

	instructionLen, err := shortVecDecodeLen(buf)
	if err != nil {
		return errors.Wrap(err, "failed to read instruction length")
	}

	m.Instructions = make([]CompiledInstruction, instructionLen)
	for i := 0; i < instructionLen; i++ {
		if m.Instructions[i].ProgramIndex, err = buf.ReadByte(); err != nil {
			return errors.Wrapf(err, "failed to read program index for instruction %d", i)
		}
		if int(m.Instructions[i].ProgramIndex) >= accountLen {
			return errors.Errorf("program index out of range: %d:%d", i, m.Instructions[i].ProgramIndex)
		}

		accountIndexLen, err := shortVecDecodeLen(buf)
		if err != nil {
			return errors.Wrapf(err, "failed to read account index length for instruction %d", i)
		}

		m.Instructions[i].Accounts = make([]byte, accountIndexLen)
		if _, err := buf.Read(m.Instructions[i].Accounts); err != nil {
			return errors.Wrapf(err, "failed to read account indexes for instruction %d", i)
		}
		for _, index := range m.Instructions[i].Accounts {
			if int(index) >= accountLen {
				return errors.Errorf("account index out of range: %d:%d", i, index)
			}
		}

		dataLen, err := shortVecDecodeLen(buf)
		if err != nil {
			return errors.Wrapf(err, "failed to read data length for instruction %d", i)
		}

		m.Instructions[i].Data = make([]byte, dataLen)
		if _, err := buf.Read(m.Instructions[i].Data); err != nil {
			return errors.Wrapf(err, "failed to read data for instruction %d", i)
		}
	}

	return nil
}

// Transaction is a set of signatures over a message.
//
// Reference: https://docs.solana.com/developing/programming-model/transactions
type Transaction struct {
	Signatures []Signature
	Message    Message
}

// NewTransaction creates a new (unsigned) transaction, with the provided
// payer as the fee payer, and the account table compiled from the
// instruction account metas.
func NewTransaction(payer ed25519.PublicKey, instructions ...Instruction) Transaction {
	accounts := []AccountMeta{
		{
			PublicKey:  payer,
			IsSigner:   true,
			IsWritable: true,
			isPayer:    true,
		},
	}

	// Extract all unique accounts from the instructions.
	for _, i := range instructions {
		accounts = append(accounts, AccountMeta{
			PublicKey: i.Program,
			isProgram: true,
		})
		accounts = append(accounts, i.Accounts...)
	}

	// Sort the account metas by:
	//   1. payer always first
	//   2. signers before non-signers
	//   3. writable before read-only
	//   4. programs last
	accounts = filterUnique(accounts)
	sort.Sort(SortableAccountMeta(accounts))

	m := Message{
		Accounts: make([]ed25519.PublicKey, len(accounts)),
	}

	accountIndexes := make(map[string]byte)
	for i, a := range accounts {
		m.Accounts[i] = a.PublicKey
		accountIndexes[string(a.PublicKey)] = byte(i)

		if a.IsSigner {
			m.Header.NumSignatures++
			if !a.IsWritable {
				m.Header.NumReadonlySigned++
			}
		} else if !a.IsWritable {
			m.Header.NumReadonly++
		}
	}

	for _, i := range instructions {
		compiled := CompiledInstruction{
			ProgramIndex: accountIndexes[string(i.Program)],
			Data:         i.Data,
			Accounts:     make([]byte, len(i.Accounts)),
		}

		for j, a := range i.Accounts {
			compiled.Accounts[j] = accountIndexes[string(a.PublicKey)]
		}

		m.Instructions = append(m.Instructions, compiled)
	}

	return Transaction{
		Signatures: make([]Signature, m.Header.NumSignatures),
		Message:    m,
	}
}

// Signature returns the first (payer) signature, which uniquely
// identifies the transaction.
func (t Transaction) Signature() []byte {
	if len(t.Signatures) == 0 {
		return nil
	}

	return t.Signatures[0][:]
}

func (t *Transaction) SetBlockhash(bh Blockhash) {
	t.Message.RecentBlockhash = bh

	// Invalidate existing signatures, as they're no longer valid
	// over the new message contents.
	t.Signatures = make([]Signature, t.Message.Header.NumSignatures)
}

// Sign signs the transaction message with the provided signers, placing
// each signature at the index corresponding to the signer's account.
func (t *Transaction) Sign(signers ...ed25519.PrivateKey) error {
	messageBytes := t.Message.Marshal()

	for _, s := range signers {
		pub, ok := s.Public().(ed25519.PublicKey)
		if !ok {
			return errors.New("invalid private key")
		}

		index := -1
		for i := range t.Message.Accounts {
			if bytes.Equal(t.Message.Accounts[i], pub) {
				index = i
				break
			}
		}

		if index < 0 {
			return errors.Errorf("signing account %s is not in the account list", base58.Encode(pub))
		}
		if index >= len(t.Signatures) {
			return errors.Errorf("signing account %s is not a signer", base58.Encode(pub))
		}

		copy(t.Signatures[index][:], ed25519.Sign(s, messageBytes))
	}

	return nil
}

func (t Transaction) Marshal() []byte {
	b := bytes.NewBuffer(nil)

	_ = shortVecEncodeLen(b, len(t.Signatures))
	for _, s := range t.Signatures {
		b.Write(s[:])
	}

	b.Write(t.Message.Marshal())

	return b.Bytes()
}

func (t *Transaction) Unmarshal(b []byte) error {
	buf := bytes.NewBuffer(b)

	sigLen, err := shortVecDecodeLen(buf)
	if err != nil {
		return errors.Wrap(err, "failed to read signature length")
	}

	t.Signatures = make([]Signature, sigLen)
	for i := 0; i < sigLen; i++ {
		if _, err := buf.Read(t.Signatures[i][:]); err != nil {
			return errors.Wrapf(err, "failed to read signature at index %d", i)
		}
	}

	if err := t.Message.Unmarshal(buf.Bytes()); err != nil {
		return errors.Wrap(err, "failed to unmarshal message")
	}

	if int(t.Message.Header.NumSignatures) != sigLen {
		return errors.Errorf("signature count mismatch: %d (expected %d)", sigLen, t.Message.Header.NumSignatures)
	}

	return nil
}

func filterUnique(accounts []AccountMeta) []AccountMeta {
	filtered := make([]AccountMeta, 0, len(accounts))

	for _, a := range accounts {
		exists := false
		for i := range filtered {
			if bytes.Equal(a.PublicKey, filtered[i].PublicKey) {
				// The duplicate takes on the superset of permissions.
				filtered[i].IsSigner = filtered[i].IsSigner || a.IsSigner
				filtered[i].IsWritable = filtered[i].IsWritable || a.IsWritable
				filtered[i].isPayer = filtered[i].isPayer || a.isPayer
				filtered[i].isProgram = filtered[i].isProgram && a.isProgram
				exists = true
				break
			}
		}

		if !exists {
			filtered = append(filtered, a)
		}
	}

	return filtered
}
