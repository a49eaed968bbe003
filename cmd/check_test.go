package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wgpeerd/internal/wgconf"
)

func TestSortedPeers(t *testing.T) {
	peers := wgconf.Peers{
		"zzz=": {PublicKey: "zzz=", AllowedIPs: "10.0.0.3/32"},
		"aaa=": {PublicKey: "aaa=", AllowedIPs: "10.0.0.1/32", Name: "first"},
		"mmm=": {PublicKey: "mmm=", AllowedIPs: "10.0.0.2/32"},
	}

	sorted := sortedPeers(peers)
	if len(sorted) != 3 {
		t.Fatalf("expected 3 peers, got %d", len(sorted))
	}
	for i, want := range []string{"aaa=", "mmm=", "zzz="} {
		if sorted[i].PublicKey != want {
			t.Errorf("sorted[%d] = %s, want %s", i, sorted[i].PublicKey, want)
		}
	}
}

func TestPrintPeers(t *testing.T) {
	var buf bytes.Buffer
	printPeers(&buf, wgconf.Peers{
		"abc=": {PublicKey: "abc=", AllowedIPs: "10.0.0.2/32", Name: "laptop"},
	})

	out := buf.String()
	for _, want := range []string{"1 peer(s)", "abc=", "10.0.0.2/32", "laptop"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunCheck(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.conf")
	bad := filepath.Join(dir, "bad.conf")

	if err := os.WriteFile(good, []byte("[Peer]\nPublicKey = abc=\nAllowedIPs = 10.0.0.2/32\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("[Peer]\nAllowedIPs = 10.0.0.2/32\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := RunCheck(good, false); err != nil {
		t.Errorf("RunCheck(good) = %v", err)
	}
	if err := RunCheck(bad, false); err == nil {
		t.Error("RunCheck(bad) should fail")
	}
	if err := RunCheck(bad, true); err == nil {
		t.Error("RunCheck(bad, all) should still report failure")
	}
	if err := RunCheck(filepath.Join(dir, "missing.conf"), false); err == nil {
		t.Error("RunCheck on missing file should fail")
	}
	if err := RunCheck("", false); err == nil {
		t.Error("RunCheck without a path should fail")
	}
}
