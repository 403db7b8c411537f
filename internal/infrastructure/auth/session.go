package auth

import (
	"fmt"

	"github.com/nanorand/nanorand"
)

// DefaultSessionTokenLength is the length of anonymous session tokens
const DefaultSessionTokenLength = 32

// SessionTokenGenerator creates opaque tokens identifying anonymous shoppers
type SessionTokenGenerator struct {
	length int
}

// NewSessionTokenGenerator creates a generator producing tokens of length characters
func NewSessionTokenGenerator(length int) *SessionTokenGenerator {
	if length <= 0 {
		length = DefaultSessionTokenLength
	}
	return &SessionTokenGenerator{length: length}
}

// Generate returns a fresh random token
func (g *SessionTokenGenerator) Generate() (string, error) {
	token, err := nanorand.Gen(g.length)
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return token, nil
}
