package transform

import (
	"crypto/sha256"
	"fmt"
)

// hashLength is the number of hex characters kept from the content hash.
//
// 64 bits keep the key short. Two distinct transactions on one account with
// the same date, charged amount and description collapse into one row.
const hashLength = 16

// sha256String calculates the SHA256 hash of a given string and returns its string representation.
func sha256String(input string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(input)))
}
