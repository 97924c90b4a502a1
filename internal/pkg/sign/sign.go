package sign

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// HMACSHA256 signs the message with the shared secret and returns the
// base64-encoded digest, the format redirect gateways expect in their
// signed field set.
func HMACSHA256(secret []byte, message string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Equal compares two signatures in constant time.
func Equal(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}
