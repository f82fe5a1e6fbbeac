package guard

import (
	"crypto/rand"
	"encoding/base64"

	goerrors "github.com/goliatone/go-errors"
)

// TokenGenerator produces opaque remember token values. Implementations
// must return URL safe strings of the requested length.
type TokenGenerator func(length int) (string, error)

// GenerateToken returns a securely random, URL safe token of the given
// length.
func GenerateToken(length int) (string, error) {
	if length <= 0 {
		return "", goerrors.New("token length must be positive", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{"length": length})
	}

	// base64 expands 3 bytes into 4 chars, over-read and trim
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read random bytes")
	}

	token := base64.RawURLEncoding.EncodeToString(buf)
	return token[:length], nil
}
