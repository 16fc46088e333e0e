package translator

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/me/wfsynth/pkg/model"
)

// maxRootNameAttempts bounds how many synthetic entry names are drawn before
// giving up on a collision.
const maxRootNameAttempts = 8

// NormalizeName lowercases name and replaces underscores with hyphens, the
// form FaaSr providers accept for action names.
func NormalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "_", "-")
}

func normalizeAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = NormalizeName(n)
	}
	return out
}

// rootName draws a "start-<12 hex>" name that is not in taken.
func rootName(r io.Reader, taken map[string]bool) (string, error) {
	for range maxRootNameAttempts {
		id, err := uuid.NewRandomFromReader(r)
		if err != nil {
			return "", fmt.Errorf("generate entry action name: %w", err)
		}
		// The node segment of a UUID: 48 random bits.
		name := "start-" + id.String()[24:]
		if !taken[name] {
			return name, nil
		}
	}
	return "", model.ErrRootNameCollision
}
