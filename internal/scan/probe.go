package scan

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"syscall"
	"time"

	"github.com/L1nMay/tcpscan/internal/model"
)

// Outcome is what a single connection attempt produced. Failures are
// carried in Err for diagnostics; they never abort a scan.
type Outcome struct {
	State model.PortState
	RTT   time.Duration
	Err   error
}

type Prober interface {
	Probe(ctx context.Context, target netip.Addr, port uint16, timeout time.Duration) Outcome
}

// TCPProber performs a plain connect() probe, one attempt per port.
type TCPProber struct{}

func (TCPProber) Probe(ctx context.Context, target netip.Addr, port uint16, timeout time.Duration) Outcome {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	d := net.Dialer{Timeout: timeout}
	addr := netip.AddrPortFrom(target, port).String()

	start := time.Now()
	conn, err := d.DialContext(ctx, "tcp", addr)
	rtt := time.Since(start)

	if err != nil {
		return Outcome{State: model.StateClosedOrFiltered, RTT: rtt, Err: err}
	}
	_ = conn.Close()
	return Outcome{State: model.StateOpen, RTT: rtt}
}

// failureReason shortens common dial errors for the report.
func failureReason(err error) string {
	if err == nil {
		return ""
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return "timeout"
	}
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return "refused"
	case errors.Is(err, syscall.EHOSTUNREACH), errors.Is(err, syscall.ENETUNREACH):
		return "unreachable"
	case errors.Is(err, syscall.EMFILE), errors.Is(err, syscall.ENFILE):
		return "too many open files"
	}
	return err.Error()
}
