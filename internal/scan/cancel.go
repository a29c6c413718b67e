package scan

import (
	"context"
	"sync"

	"github.com/L1nMay/tcpscan/internal/logger"
)

type cancelState struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

func (s *Scanner) setCancel(fn context.CancelFunc) {
	s.muCancel.mu.Lock()
	defer s.muCancel.mu.Unlock()
	s.muCancel.cancel = fn
}

func (s *Scanner) clearCancel() {
	s.muCancel.mu.Lock()
	defer s.muCancel.mu.Unlock()
	s.muCancel.cancel = nil
}

func (s *Scanner) IsRunning() bool {
	s.muCancel.mu.Lock()
	defer s.muCancel.mu.Unlock()
	return s.muCancel.cancel != nil
}

// CancelRunning stops dispatch of the scan in progress. It reports false
// when no scan is running.
func (s *Scanner) CancelRunning() bool {
	s.muCancel.mu.Lock()
	defer s.muCancel.mu.Unlock()

	if s.muCancel.cancel == nil {
		return false
	}

	s.muCancel.cancel()
	s.muCancel.cancel = nil

	p := s.Progress()
	logger.Infof("scan cancelled after %d/%d probes, waiting for in-flight probes", p.Done, p.Total)
	return true
}
