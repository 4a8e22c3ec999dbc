// Package crypt implements the RC4 stream cipher used to protect player manifests.
package crypt

import (
	"crypto/rc4"
	"errors"
	"fmt"
)

// ErrKeySize is returned for keys outside 1..256 bytes.
var ErrKeySize = errors.New("rc4 key must be 1 to 256 bytes")

// Decrypt XORs data with the RC4 keystream derived from key.
// The input slice is left untouched.
func Decrypt(data []byte, key string) ([]byte, error) {
	c, err := rc4.NewCipher([]byte(key))
	if err != nil {
		var sizeErr rc4.KeySizeError
		if errors.As(err, &sizeErr) {
			return nil, fmt.Errorf("%w: got %d", ErrKeySize, int(sizeErr))
		}
		return nil, err
	}

	out := make([]byte, len(data))
	c.XORKeyStream(out, data)
	return out, nil
}

// Encrypt is Decrypt: RC4 is its own inverse.
func Encrypt(data []byte, key string) ([]byte, error) {
	return Decrypt(data, key)
}
