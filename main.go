package main

import (
	"flag"
	"fmt"
	"os"

	"wgpeerd/cmd"
	"wgpeerd/internal/brand"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		runFlags := flag.NewFlagSet("run", flag.ExitOnError)
		configFile := runFlags.String("config", brand.ConfigPath(), "Daemon configuration file")
		runFlags.StringVar(configFile, "c", brand.ConfigPath(), "Daemon configuration file (short)")
		listen := runFlags.String("listen", "", "Override listen address")
		iface := runFlags.String("interface", "", "Override WireGuard interface (name or \"all\")")
		wgConfig := runFlags.String("wg-config", "", "Override WireGuard config file")
		runFlags.Parse(os.Args[2:])

		err := cmd.RunServe(cmd.RunOptions{
			ConfigFile: *configFile,
			Listen:     *listen,
			Interface:  *iface,
			WGConfig:   *wgConfig,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "check":
		checkFlags := flag.NewFlagSet("check", flag.ExitOnError)
		all := checkFlags.Bool("all", false, "Report every invalid peer block instead of stopping at the first")
		checkFlags.Parse(os.Args[2:])

		if err := cmd.RunCheck(checkFlags.Arg(0), *all); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "version":
		cmd.RunVersion()

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - WireGuard peer metrics exporter

Usage:
  %s run [-config FILE] [-listen ADDR] [-interface NAME] [-wg-config FILE]
  %s check [-all] <wireguard-config>
  %s version

Commands:
  run      Start the exporter daemon
  check    Parse a WireGuard config file and list its peers
  version  Print version information
`, brand.Name, brand.Name, brand.Name, brand.Name)
}
