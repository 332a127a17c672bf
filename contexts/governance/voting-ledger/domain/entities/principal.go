package entities

import (
	"strings"

	domainerrors "blockvote/contexts/governance/voting-ledger/domain/errors"
)

// NormalizePrincipal trims an account address and rejects empty values.
// Addresses are opaque; no checksum or display formatting is applied.
func NormalizePrincipal(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", domainerrors.ErrInvalidInput
	}
	return value, nil
}
