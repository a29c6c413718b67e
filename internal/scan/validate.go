package scan

import (
	"errors"
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"github.com/L1nMay/tcpscan/internal/model"
)

const MaxPort = 65535

var (
	ErrInvalidTarget      = errors.New("invalid target address")
	ErrInvalidRange       = errors.New("invalid port range")
	ErrInvalidConcurrency = errors.New("invalid concurrency limit")
)

// ParseTarget accepts a single IPv4 or IPv6 literal. Hostnames and CIDRs are rejected.
func ParseTarget(s string) (netip.Addr, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return netip.Addr{}, fmt.Errorf("%w: empty", ErrInvalidTarget)
	}
	addr, err := netip.ParseAddr(t)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %q", ErrInvalidTarget, s)
	}
	return addr.Unmap(), nil
}

func ParsePort(s string) (uint16, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: port %q is not a number", ErrInvalidRange, s)
	}
	if v < 1 || v > MaxPort {
		return 0, fmt.Errorf("%w: port %d outside 1-%d", ErrInvalidRange, v, MaxPort)
	}
	return uint16(v), nil
}

func ValidateRange(start, end int) (model.PortRange, error) {
	if start < 1 || end < 1 || start > MaxPort || end > MaxPort {
		return model.PortRange{}, fmt.Errorf("%w: ports must be in 1-%d", ErrInvalidRange, MaxPort)
	}
	if start > end {
		return model.PortRange{}, fmt.Errorf("%w: start %d greater than end %d", ErrInvalidRange, start, end)
	}
	return model.PortRange{Start: uint16(start), End: uint16(end)}, nil
}

func ValidateConcurrency(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: %d (must be >= 1)", ErrInvalidConcurrency, n)
	}
	return nil
}

// Validate checks caller input before any probe is dispatched.
func (o Options) Validate() error {
	if !o.Target.IsValid() {
		return fmt.Errorf("%w: not set", ErrInvalidTarget)
	}
	if _, err := ValidateRange(int(o.Range.Start), int(o.Range.End)); err != nil {
		return err
	}
	return ValidateConcurrency(o.Concurrency)
}
