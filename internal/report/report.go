// Package report renders scan results for humans and machines.
package report

import "github.com/L1nMay/tcpscan/internal/model"

// Emitter receives results as they complete and the finalized report once
// the scan ends. Result is called from a single goroutine.
type Emitter interface {
	Result(r model.ProbeResult)
	Finish(rep *model.ScanReport) error
}
