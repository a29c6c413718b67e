package report

import (
	"encoding/json"
	"io"

	"github.com/L1nMay/tcpscan/internal/model"
)

// JSONEmitter writes the finalized, port-sorted report as one document.
type JSONEmitter struct {
	w io.Writer
}

func NewJSONEmitter(w io.Writer) *JSONEmitter {
	return &JSONEmitter{w: w}
}

func (e *JSONEmitter) Result(model.ProbeResult) {}

func (e *JSONEmitter) Finish(rep *model.ScanReport) error {
	enc := json.NewEncoder(e.w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
