//go:build !statsview

package main

import (
	"fmt"
	"io"
)

func launchStatsView(output io.Writer) {
	fmt.Fprintln(output, "statsview: not built in (rebuild with -tags statsview)")
}

func statsViewAvailable() bool {
	return false
}
