// Package wgconf extracts peer records from WireGuard configuration text.
//
// The parser works in two stages: it first segments the raw text into
// [Peer] blocks (everything else, including [Interface] sections, is
// discarded), then interprets each block's lines into a typed record.
// Besides the functional keys WireGuard understands (PublicKey,
// AllowedIPs) it recognizes a comment sub-grammar, "# key=value", used
// to attach metadata the wg tools ignore. The only recognized metadata
// key is "friendly_name".
//
// The parser performs no I/O and does not validate key material or CIDR
// syntax; it only cares about the shape of the text.
package wgconf

import "strings"

// FriendlyNameKey is the comment metadata key that names a peer.
const FriendlyNameKey = "friendly_name"

// Peer is one record extracted from a [Peer] section.
type Peer struct {
	PublicKey  string
	AllowedIPs string

	// Name is the value of a "# friendly_name=..." comment in the
	// peer's block, empty when the block carries none.
	Name string
}

// Peers maps public keys to their records.
type Peers map[string]Peer

// Parse extracts one record per [Peer] section of text, keyed by public
// key. The first block missing a required field aborts the whole parse;
// the error is a *PublicKeyNotFoundError or *AllowedIPsNotFoundError
// carrying the offending block's lines. Blocks sharing a public key
// collapse to the last one parsed, matching how WireGuard treats such
// configs (they are equally broken for it, so we don't reject them).
func Parse(text string) (Peers, error) {
	peers := make(Peers)
	for _, block := range splitBlocks(text) {
		p, err := buildPeer(block)
		if err != nil {
			return nil, err
		}
		peers[p.PublicKey] = p
	}
	return peers, nil
}

// ParseAll is the best-effort variant of Parse: instead of stopping at
// the first invalid block it collects every block failure and still
// returns the records of all valid blocks. Useful for reporting tools;
// Parse remains the default for anything that feeds WireGuard state.
func ParseAll(text string) (Peers, []error) {
	peers := make(Peers)
	var errs []error
	for _, block := range splitBlocks(text) {
		p, err := buildPeer(block)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		peers[p.PublicKey] = p
	}
	return peers, errs
}

// splitBlocks groups the non-blank lines between a [Peer] header and the
// next section header (or end of input) into one block per peer. Other
// sections and any lines outside a section are dropped. A [Peer] header
// with no following non-blank lines still yields an (empty) block.
func splitBlocks(text string) [][]string {
	var blocks [][]string
	var cur []string
	open := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")

		if strings.HasPrefix(line, "[") {
			if open {
				blocks = append(blocks, cur)
				cur, open = nil, false
			}
			if line == "[Peer]" {
				cur, open = []string{}, true
			}
			continue
		}
		if open && line != "" {
			cur = append(cur, line)
		}
	}
	if open {
		blocks = append(blocks, cur)
	}
	return blocks
}

// buildPeer interprets one block's lines in order. Functional keys match
// case-insensitively on the key name only; duplicate keys overwrite
// (last occurrence wins), as do repeated friendly_name comments.
func buildPeer(lines []string) (Peer, error) {
	var p Peer
	for _, line := range lines {
		switch {
		case hasFoldedPrefix(line, "publickey"):
			p.PublicKey = strings.TrimSpace(afterByte(line, '='))
		case hasFoldedPrefix(line, "allowedips"):
			p.AllowedIPs = strings.TrimSpace(afterByte(line, '='))
		case strings.HasPrefix(strings.TrimSpace(line), "#"):
			if key, value, ok := commentKeyValue(line); ok && key == FriendlyNameKey {
				p.Name = value
			}
		}
	}

	if p.PublicKey == "" {
		return Peer{}, &PublicKeyNotFoundError{Lines: copyLines(lines)}
	}
	if p.AllowedIPs == "" {
		return Peer{}, &AllowedIPsNotFoundError{Lines: copyLines(lines)}
	}
	return p, nil
}

// commentKeyValue splits a comment line into a trimmed key and value
// around the first '='. Exactly one leading character (the '#') is
// dropped before looking. Lines without '=' are plain human comments and
// yield ok == false. An empty value after trimming is still a valid
// pair; only edge whitespace is trimmed, internal spacing survives.
func commentKeyValue(line string) (key, value string, ok bool) {
	rest := line[1:]
	i := strings.IndexByte(rest, '=')
	if i < 0 {
		return "", "", false
	}
	return strings.TrimSpace(rest[:i]), strings.TrimSpace(rest[i+1:]), true
}

// hasFoldedPrefix reports whether s starts with prefix, ignoring case.
// Only the prefix window is case-folded so the rest of the line (the
// value, which may hold arbitrary text) is never touched.
func hasFoldedPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// afterByte returns everything after the first occurrence of c, or s
// unchanged when c is absent.
func afterByte(s string, c byte) string {
	if i := strings.IndexByte(s, c); i >= 0 {
		return s[i+1:]
	}
	return s
}

func copyLines(lines []string) []string {
	return append([]string(nil), lines...)
}
