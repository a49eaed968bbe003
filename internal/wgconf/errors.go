package wgconf

import (
	"fmt"
	"strings"
)

// PublicKeyNotFoundError reports a [Peer] block without a usable
// PublicKey entry. Lines holds the block's non-blank lines in their
// original order so the operator can find the broken section.
type PublicKeyNotFoundError struct {
	Lines []string
}

func (e *PublicKeyNotFoundError) Error() string {
	return fmt.Sprintf("peer block has no PublicKey entry: %s", formatBlock(e.Lines))
}

// AllowedIPsNotFoundError reports a [Peer] block without a usable
// AllowedIPs entry. Same diagnostic shape as PublicKeyNotFoundError.
type AllowedIPsNotFoundError struct {
	Lines []string
}

func (e *AllowedIPsNotFoundError) Error() string {
	return fmt.Sprintf("peer block has no AllowedIPs entry: %s", formatBlock(e.Lines))
}

func formatBlock(lines []string) string {
	if len(lines) == 0 {
		return "(empty block)"
	}
	return fmt.Sprintf("%q", strings.Join(lines, "\n"))
}
