// Package syncproto implements the sync key encoding and client-side
// HTTP transport for the history engine's sync lifecycle (C7).
package syncproto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ErrInvalidSyncKey is returned when a sync key fails validation:
// wrong length after normalisation, an out-of-alphabet character, or a
// checksum mismatch.
var ErrInvalidSyncKey = errors.New("syncproto: invalid sync key")

// alphabet is base-32 with the visually ambiguous letters I, O, B and
// L excluded (10 digits + 22 letters).
const alphabet = "0123456789ACDEFGHJKMNPQRSTUVWXYZ"

const keyChars = 20

// checksumBits is the width of the trailing checksum packed into the
// key's numeric value; the remaining bits hold the identifier.
//
// 20 base-32 characters carry 100 bits of information (20*log2(32)).
// With a 20-bit checksum that leaves 80 bits for the identifier, not
// the 108 bits a literal reading of "(id << 20) | checksum, top 108
// bits are the identifier" would need (108+20=128 > 100): the two
// figures as stated can't both hold for a 20-character base-32 key.
// This implementation resolves the inconsistency in favour of the
// encoding that actually round-trips: 80-bit identifier, 20-bit
// checksum, 100 bits total (see DESIGN.md).
const checksumBits = 20
const identifierBytes = 10 // 80 bits

// SyncKey is a per-installation identifier used to associate local
// data with a server-side account, without any separate signup step.
type SyncKey struct {
	Identifier [identifierBytes]byte
}

// Generate creates a fresh random sync key.
func Generate() (SyncKey, error) {
	var k SyncKey
	if _, err := rand.Read(k.Identifier[:]); err != nil {
		return SyncKey{}, fmt.Errorf("syncproto: generate key: %w", err)
	}
	return k, nil
}

// checksum computes the Jenkins one-at-a-time hash of the identifier,
// truncated to checksumBits.
func checksum(identifier []byte) uint32 {
	var hash uint32
	for _, b := range identifier {
		hash += uint32(b)
		hash += hash << 10
		hash ^= hash >> 6
	}
	hash += hash << 3
	hash ^= hash >> 11
	hash += hash << 15
	return hash & ((1 << checksumBits) - 1)
}

func (k SyncKey) value() *big.Int {
	v := new(big.Int).SetBytes(k.Identifier[:])
	v.Lsh(v, checksumBits)
	v.Or(v, big.NewInt(int64(checksum(k.Identifier[:]))))
	return v
}

// String formats the key as 5 dash-separated groups of 4 characters.
func (k SyncKey) String() string {
	digits := encodeBase32(k.value(), keyChars)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(alphabet[d])
	}
	return b.String()
}

func encodeBase32(v *big.Int, width int) []byte {
	digits := make([]byte, width)
	rem := new(big.Int)
	base := big.NewInt(32)
	n := new(big.Int).Set(v)
	for i := width - 1; i >= 0; i-- {
		n.DivMod(n, base, rem)
		digits[i] = byte(rem.Int64())
	}
	return digits
}

var charValue = func() map[byte]byte {
	m := make(map[byte]byte, len(alphabet))
	for i := 0; i < len(alphabet); i++ {
		m[alphabet[i]] = byte(i)
	}
	return m
}()

// Parse normalises and validates a user-entered sync key: trims
// whitespace and dashes, uppercases, substitutes I->1 and O->0,
// requires exactly 20 resulting characters over the alphabet, and
// recomputes the checksum.
func Parse(s string) (SyncKey, error) {
	s = strings.ToUpper(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '-', ' ', '\t', '\n', '\r':
			return -1
		case 'I':
			return '1'
		case 'O':
			return '0'
		default:
			return r
		}
	}, s)
	if len(s) != keyChars {
		return SyncKey{}, fmt.Errorf("%w: expected %d characters, got %d", ErrInvalidSyncKey, keyChars, len(s))
	}

	value := new(big.Int)
	base := big.NewInt(32)
	for i := 0; i < len(s); i++ {
		d, ok := charValue[s[i]]
		if !ok {
			return SyncKey{}, fmt.Errorf("%w: invalid character %q", ErrInvalidSyncKey, s[i])
		}
		value.Mul(value, base)
		value.Add(value, big.NewInt(int64(d)))
	}

	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), checksumBits), big.NewInt(1))
	wantChecksum := new(big.Int).And(value, mask)
	identifierValue := new(big.Int).Rsh(value, checksumBits)

	var k SyncKey
	idBytes := identifierValue.Bytes()
	if len(idBytes) > identifierBytes {
		return SyncKey{}, fmt.Errorf("%w: identifier out of range", ErrInvalidSyncKey)
	}
	copy(k.Identifier[identifierBytes-len(idBytes):], idBytes)

	if int64(checksum(k.Identifier[:])) != wantChecksum.Int64() {
		return SyncKey{}, fmt.Errorf("%w: checksum mismatch", ErrInvalidSyncKey)
	}
	return k, nil
}
