package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"wgpeerd/internal/brand"
	"wgpeerd/internal/wgconf"
)

// RunCheck parses a WireGuard config file and reports its peers. With
// all set, every broken [Peer] block is reported instead of only the
// first one.
func RunCheck(path string, all bool) error {
	if path == "" {
		return fmt.Errorf("usage: %s check [-all] <wireguard-config>\nExample: %s check /etc/wireguard/wg0.conf", brand.Name, brand.Name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}

	if all {
		peers, errs := wgconf.ParseAll(string(data))
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "invalid peer block: %v\n", e)
		}
		printPeers(os.Stdout, peers)
		if len(errs) > 0 {
			return fmt.Errorf("%d invalid peer block(s) in %s", len(errs), path)
		}
		return nil
	}

	peers, err := wgconf.Parse(string(data))
	if err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}
	printPeers(os.Stdout, peers)
	return nil
}

func printPeers(w io.Writer, peers wgconf.Peers) {
	fmt.Fprintf(w, "%d peer(s)\n", len(peers))
	if len(peers) == 0 {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "PUBLIC KEY\tALLOWED IPS\tNAME")
	for _, p := range sortedPeers(peers) {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.PublicKey, p.AllowedIPs, p.Name)
	}
	tw.Flush()
}

// sortedPeers returns records ordered by public key for stable output.
func sortedPeers(peers wgconf.Peers) []wgconf.Peer {
	out := make([]wgconf.Peer, 0, len(peers))
	for _, p := range peers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublicKey < out[j].PublicKey })
	return out
}
