package videa

import (
	"fmt"
	"regexp"
	"strings"
)

// Alphabet is the substitution table the player uses to scramble its session key.
// It must match the player byte for byte.
const Alphabet = "xHb0ZvME5q8CBcoQi6AngerDu3FGO9fkUlwPmLVY_RTzj2hJIS4NasXWKy1td7p"

const (
	nonceLen = 64
	half     = nonceLen / 2
	keyLen   = 32
)

var nonceRe = regexp.MustCompile(`_xt\s*=\s*"([^"]+)"`)

// Key is the 32 character session key recovered from a nonce.
type Key string

// QueryToken is sent as the _t manifest parameter.
func (k Key) QueryToken() string {
	return string(k[:keyLen/2])
}

// CipherPart prefixes the manifest decryption key.
func (k Key) CipherPart() string {
	return string(k[keyLen/2:])
}

// ExtractNonce finds the nonce assignment in player HTML.
func ExtractNonce(html string) (string, error) {
	m := nonceRe.FindStringSubmatch(html)
	if m == nil {
		return "", ErrNonceNotFound
	}

	if len(m[1]) != nonceLen {
		return "", fmt.Errorf("%w: length %d, want %d", ErrNonceNotFound, len(m[1]), nonceLen)
	}

	return m[1], nil
}

// DeriveKey reverses the player's substitution. The first half of the nonce locates,
// through Alphabet, which character of the second half lands at each key position.
func DeriveKey(nonce string) (Key, error) {
	if len(nonce) != nonceLen {
		return "", fmt.Errorf("%w: length %d, want %d", ErrNonceNotFound, len(nonce), nonceLen)
	}

	locator, payload := nonce[:half], nonce[half:]

	var b strings.Builder
	b.Grow(keyLen)
	for i := 0; i < keyLen; i++ {
		p := strings.IndexByte(Alphabet, locator[i])
		if p < 0 {
			return "", fmt.Errorf("%w: locator %q at %d is not in the alphabet", ErrKeyCorrupt, locator[i], i)
		}

		j := i - (p - 31)
		if j < 0 || j >= half {
			return "", fmt.Errorf("%w: position %d maps to %d", ErrKeyCorrupt, i, j)
		}

		b.WriteByte(payload[j])
	}

	return Key(b.String()), nil
}

// EncodeNonce is the inverse of DeriveKey. perm must be a permutation of 0..31 and
// chooses the payload slot of every secret character.
func EncodeNonce(secret string, perm []int) (string, error) {
	if len(secret) != keyLen {
		return "", fmt.Errorf("secret must be %d bytes, got %d", keyLen, len(secret))
	}
	if len(perm) != keyLen {
		return "", fmt.Errorf("permutation must have %d entries, got %d", keyLen, len(perm))
	}

	locator := make([]byte, half)
	payload := make([]byte, half)
	seen := make([]bool, half)

	for i, j := range perm {
		if j < 0 || j >= half || seen[j] {
			return "", fmt.Errorf("not a permutation of 0..%d", half-1)
		}
		seen[j] = true

		// j = i - (p - 31) solved for p; always within 0..62.
		p := i + 31 - j
		locator[i] = Alphabet[p]
		payload[j] = secret[i]
	}

	return string(locator) + string(payload), nil
}
