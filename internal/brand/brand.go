// Package brand centralizes the product name, version and default paths
// so the rest of the code never hardcodes them.
package brand

const (
	// Name is the binary and service name.
	Name = "wgpeerd"

	// DefaultConfigDir is where the daemon looks for its own config.
	DefaultConfigDir = "/etc/wgpeerd"

	// ConfigFileName is the default daemon config file name.
	ConfigFileName = "wgpeerd.hcl"

	// DefaultWireGuardConfig is the config file scraped for peer
	// friendly names when none is configured.
	DefaultWireGuardConfig = "/etc/wireguard/wg0.conf"
)

// Version is the release version, overridden at build time with
// -ldflags "-X wgpeerd/internal/brand.Version=...".
var Version = "dev"

// ConfigPath returns the default daemon config file path.
func ConfigPath() string {
	return DefaultConfigDir + "/" + ConfigFileName
}
