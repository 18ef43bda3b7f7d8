package protocol

import (
	"strings"
)

const hexDigits = "0123456789ABCDEF"

// DecodeByte decodes a single hex token of one or two digits (case-insensitive).
//
// Example:
//
//	b, err := protocol.DecodeByte("6b") // 0x6B
//	b, err := protocol.DecodeByte("f")  // 0x0F
func DecodeByte(token string) (byte, error) {
	if len(token) == 0 || len(token) > 2 {
		return 0, &HexError{Token: token}
	}

	var value byte
	for i := 0; i < len(token); i++ {
		nibble, ok := fromHexChar(token[i])
		if !ok {
			return 0, &HexError{Token: token}
		}
		value = value<<4 | nibble
	}

	return value, nil
}

// DecodeSequence decodes whitespace-separated hex tokens.
// Decoding stops once maxCount tokens have been accepted; remaining text is ignored.
// A malformed token fails with a *HexError naming it. Input without any token
// fails with ErrEmptySequence.
//
// Example:
//
//	data, err := protocol.DecodeSequence("12 34   56", protocol.MaxTransferSize)
//	// data = []byte{0x12, 0x34, 0x56}
func DecodeSequence(s string, maxCount int) ([]byte, error) {
	return decodeTokens(strings.Fields(s), maxCount)
}

func decodeTokens(tokens []string, maxCount int) ([]byte, error) {
	if len(tokens) == 0 {
		return nil, ErrEmptySequence
	}

	if maxCount >= 0 && len(tokens) > maxCount {
		tokens = tokens[:maxCount]
	}

	data := make([]byte, 0, len(tokens))
	for _, tok := range tokens {
		b, err := DecodeByte(tok)
		if err != nil {
			return nil, err
		}
		data = append(data, b)
	}

	if len(data) == 0 {
		return nil, ErrEmptySequence
	}

	return data, nil
}

// EncodeByte renders b as two uppercase hex digits.
func EncodeByte(b byte) string {
	return string([]byte{hexDigits[b>>4], hexDigits[b&0x0F]})
}

// EncodeSequence renders data as space-separated uppercase hex pairs.
//
// Example:
//
//	protocol.EncodeSequence([]byte{0x6C, 0x01}) // "6C 01"
func EncodeSequence(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data) * 3)

	for i, b := range data {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(EncodeByte(b))
	}

	return sb.String()
}

func fromHexChar(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
