package shortcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Alphabet excludes visually ambiguous characters (0/O, 1/l/I) so codes
// survive being read aloud or retyped from a screenshot.
const Alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// CodeLength 8 over a 57-character alphabet gives 57^8 (about 1.1e14)
// codes; collisions stay negligible at expected link volume and the store's
// uniqueness constraint catches the rest.
const CodeLength = 8

var alphabetLen = big.NewInt(int64(len(Alphabet)))

// Mint draws a fresh short code. Draws are uniform over the alphabet.
func Mint() (string, error) {
	buf := make([]byte, CodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("draw short code: %w", err)
		}
		buf[i] = Alphabet[n.Int64()]
	}
	return string(buf), nil
}
