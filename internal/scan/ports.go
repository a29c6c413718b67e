package scan

import (
	"strings"
	"time"

	"github.com/L1nMay/tcpscan/internal/model"
)

const (
	DefaultStartPort   = 1
	DefaultEndPort     = 1024
	DefaultConcurrency = 500
	DefaultTimeout     = 500 * time.Millisecond
)

// ParseRangeArgs resolves the optional start/end arguments. Empty strings
// fall back to the given defaults.
func ParseRangeArgs(startArg, endArg string, defStart, defEnd int) (model.PortRange, error) {
	start, end := defStart, defEnd

	if s := strings.TrimSpace(startArg); s != "" {
		p, err := ParsePort(s)
		if err != nil {
			return model.PortRange{}, err
		}
		start = int(p)
	}
	if s := strings.TrimSpace(endArg); s != "" {
		p, err := ParsePort(s)
		if err != nil {
			return model.PortRange{}, err
		}
		end = int(p)
	}

	return ValidateRange(start, end)
}
