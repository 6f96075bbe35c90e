// Package idgen produces the opaque identifiers and numeric invite codes
// used across the lifecycle records. Uniqueness is probabilistic; the store
// carries unique indexes where collisions matter.
package idgen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"time"
)

const randFragmentLen = 6

// NewOpaqueID returns an opaque identifier combining a random hex fragment
// with the current time in hex. Collisions are not checked against the
// store.
func NewOpaqueID() (string, error) {
	buf := make([]byte, randFragmentLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random fragment: %w", err)
	}
	return hex.EncodeToString(buf) + strconv.FormatInt(time.Now().UnixMilli(), 16), nil
}

// NewInviteCode returns a decimal string of exactly length digits, sampled
// uniformly from [10^(length-1), 10^length - 1].
func NewInviteCode(length int) (string, error) {
	if length < 1 {
		return "", fmt.Errorf("invite code length must be positive, got %d", length)
	}
	min := pow10(length - 1)
	max := pow10(length)
	n, err := rand.Int(rand.Reader, new(big.Int).Sub(max, min))
	if err != nil {
		return "", fmt.Errorf("sampling invite code: %w", err)
	}
	return n.Add(n, min).String(), nil
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
