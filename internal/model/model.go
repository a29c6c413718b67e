package model

import (
	"fmt"
	"net/netip"
	"time"
)

type PortState string

const (
	StateOpen             PortState = "open"
	StateClosedOrFiltered PortState = "closed_or_filtered"
)

// PortRange is an inclusive [Start, End] interval of TCP ports.
type PortRange struct {
	Start uint16 `json:"start"`
	End   uint16 `json:"end"`
}

func (r PortRange) Size() int {
	if r.End < r.Start {
		return 0
	}
	return int(r.End) - int(r.Start) + 1
}

func (r PortRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

type ProbeResult struct {
	Port      uint16    `json:"port"`
	State     PortState `json:"state"`
	Service   string    `json:"service,omitempty"`
	RTTMillis int64     `json:"rtt_ms"`
	Error     string    `json:"error,omitempty"` // why the probe did not connect, diagnostic only
}

func (r ProbeResult) Open() bool {
	return r.State == StateOpen
}

type ScanReport struct {
	ID            string     `json:"id"`
	Target        netip.Addr `json:"target"`
	Range         PortRange  `json:"range"`
	Concurrency   int        `json:"concurrency"`
	TimeoutMillis int64      `json:"timeout_ms"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    time.Time  `json:"finished_at"`
	Cancelled     bool       `json:"cancelled"`

	// sorted by port ascending once the report is finalized
	Results []ProbeResult `json:"results"`
}

func (r *ScanReport) OpenPorts() []ProbeResult {
	out := make([]ProbeResult, 0)
	for _, res := range r.Results {
		if res.Open() {
			out = append(out, res)
		}
	}
	return out
}

func (r *ScanReport) Counts() (open, closed int) {
	for _, res := range r.Results {
		if res.Open() {
			open++
		} else {
			closed++
		}
	}
	return open, closed
}

func (r *ScanReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Progress is a snapshot of how many probes of a scan have completed.
type Progress struct {
	Done  int `json:"done"`
	Total int `json:"total"`
	Open  int `json:"open"`
}

func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Done) / float64(p.Total)
}
