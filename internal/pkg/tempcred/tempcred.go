// Package tempcred generates the random temporary credentials handed to
// administrators when a pre-registration is promoted to a partner.
package tempcred

import (
	"crypto/rand"
	"math/big"
)

// Length is the number of characters in a generated credential.
const Length = 8

// alphabet avoids visually ambiguous characters (0/O, 1/l/I) so the
// credential can be read out or copied by an administrator.
const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789"

// Generate creates a cryptographically random, human-shareable credential.
func Generate() (string, error) {
	buf := make([]byte, Length)
	max := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}
