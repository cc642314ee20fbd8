package solana

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// Reference: https://docs.solana.com/developing/programming-model/transactions#compact-array-format
func shortVecEncodeLen(b *bytes.Buffer, length int) error {
	if length > 1<<14 {
		return errors.Errorf("length exceeds %d", 1<<14)
	}

	if length < 1<<7 {
		return b.WriteByte(byte(length))
	} else if length < 1<<14 {
		if err := b.WriteByte(byte(length&0x7f) | 0x80); err != nil {
			return err
		}
		return b.WriteByte(byte(length >> 7))
	}

	if err := b.WriteByte(byte(length&0x7f) | 0x80); err != nil {
		return err
	}
	if err := b.WriteByte(byte((length>>7)&0x7f) | 0x80); err != nil {
		return err
	}
	return b.WriteByte(byte(length >> 14))
}

func shortVecDecodeLen(r io.ByteReader) (int, error) {
	var offset, length int

	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}

		length |= int(b&0x7f) << (offset * 7)
		offset++

		if b&0x80 == 0 {
			break
		}

		if offset > 2 {
			return 0, errors.New("invalid shortvec length")
		}
	}

	return length, nil
}
