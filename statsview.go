//go:build statsview

// statsview.go - runtime statistics server for profiling the emulator

package main

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

const (
	STATSVIEW_ADDR = "localhost:12600"
	STATSVIEW_URL  = "/debug/statsview"
)

// launchStatsView starts the charts server in its own goroutine.
func launchStatsView(output io.Writer) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(STATSVIEW_ADDR))
		mgr := statsview.New()
		mgr.Start()
	}()
	fmt.Fprintf(output, "statsview: available at http://%s%s\n", STATSVIEW_ADDR, STATSVIEW_URL)
}

func statsViewAvailable() bool {
	return true
}
