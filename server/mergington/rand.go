package mergington

import (
	"crypto/rand"
	"encoding/base64"
)

// RandomText returns a cryptographically secure random text of the given key
// size, encoded with base64 so it is safe to use in URLs.
func RandomText(keySize int) (string, error) {
	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(key), nil
}
