package cmd

import (
	"fmt"
	"runtime"

	"wgpeerd/internal/brand"
)

// RunVersion prints version information.
func RunVersion() {
	fmt.Printf("%s %s (%s, %s/%s)\n", brand.Name, brand.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
