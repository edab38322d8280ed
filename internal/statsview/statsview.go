// Package statsview serves runtime statistics charts of the virtual machine
// process over HTTP. It is a wrapper for "github.com/go-echarts/statsview".
//
// After launch the charts are available at localhost:12600/debug/statsview
// and the standard pprof handlers at localhost:12600/debug/pprof/.
package statsview

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Address the statistics server listens on.
const Address = "localhost:12600"

const url = "/debug/statsview"

// Launch starts the statistics server in a new goroutine and writes its
// location to the output.
func Launch(output io.Writer) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(Address))
		mgr := statsview.New()
		mgr.Start()
	}()

	_, _ = fmt.Fprintln(output, Location())
}

// Location returns the URL of the statistics charts.
func Location() string {
	return fmt.Sprintf("stats server available at http://%s%s", Address, url)
}
