package auth

import (
	"encoding/hex"
	"strings"

	"github.com/dmitrijs2005/colorcheck/internal/common"
	"github.com/google/uuid"
)

// NewToken returns a fresh opaque API token: a random (version 4) UUID
// rendered as 32 lowercase hex characters.
func NewToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(id[:]), nil
}

// ExtractToken strips the optional "Token " scheme from a raw header value.
func ExtractToken(raw string) string {
	raw = strings.TrimLeft(raw, " \t")
	raw = strings.TrimPrefix(raw, common.TokenPrefix)
	return strings.TrimSpace(raw)
}
