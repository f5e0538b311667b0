/*
Package randx provides functions for generating cryptographically secure random numbers and unique identifiers.

It is primarily used to generate store-assigned document IDs and fallback display names
for accounts created through OAuth providers that return no profile name.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))
)

// DocumentID generates a standard UUID v4 string to serve as a store-assigned
// identifier for users, messages, and other documents.
func DocumentID() string {
	return uuid.New().String()
}

// DisplayName generates a random display name with a "Chatter_" prefix and 6 random
// Base62 characters, using a cryptographically secure random number generator.
func DisplayName() (string, error) {
	const nameRandomLength = 6
	result := make([]byte, nameRandomLength)

	for i := 0; i < nameRandomLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for display name: %v", err)
		}
		result[i] = Base62Chars[num.Int64()]
	}

	return "Chatter_" + string(result), nil
}
