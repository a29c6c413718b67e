package scan

import (
	"context"
	"fmt"
	"net/netip"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/L1nMay/tcpscan/internal/logger"
	"github.com/L1nMay/tcpscan/internal/model"
	"github.com/L1nMay/tcpscan/internal/services"
)

type Options struct {
	Target      netip.Addr
	Range       model.PortRange
	Concurrency int
	Timeout     time.Duration

	// nil means services.Default()
	Services *services.Table
	// nil means TCPProber
	Prober Prober
}

type Scanner struct {
	opts Options
	gov  *Governor
	mu   sync.Mutex

	muCancel cancelState
	hub      *Hub

	done atomic.Int64
	open atomic.Int64
}

func NewScanner(opts Options) (*Scanner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Services == nil {
		opts.Services = services.Default()
	}
	if opts.Prober == nil {
		opts.Prober = TCPProber{}
	}

	// no point holding more slots than there are ports
	limit := opts.Concurrency
	if size := opts.Range.Size(); limit > size {
		limit = size
	}

	return &Scanner{
		opts: opts,
		gov:  NewGovernor(limit),
		hub:  NewHub(),
	}, nil
}

func (s *Scanner) Options() Options {
	return s.opts
}

func (s *Scanner) Governor() *Governor {
	return s.gov
}

/*
Stream dispatches one probe per port in ascending order, never more than the
governor limit at once, and delivers results in completion order.

The channel is closed after every dispatched probe has reported, so callers
must drain it. Cancelling ctx stops dispatch; probes already running are not
interrupted and still report within their timeout.
*/
func (s *Scanner) Stream(ctx context.Context) <-chan model.ProbeResult {
	total := s.opts.Range.Size()
	s.done.Store(0)
	s.open.Store(0)

	out := make(chan model.ProbeResult, s.gov.Limit())
	probeCtx := context.WithoutCancel(ctx)

	go func() {
		var wg sync.WaitGroup
		defer close(out)
		defer wg.Wait()

		// uint32 so that End == 65535 terminates
		for p := uint32(s.opts.Range.Start); p <= uint32(s.opts.Range.End); p++ {
			if err := s.gov.Acquire(ctx); err != nil {
				logger.Debugf("dispatch stopped before port %d: %v", p, err)
				return
			}

			wg.Add(1)
			go func(port uint16) {
				defer wg.Done()
				defer s.gov.Release()

				res := s.probe(probeCtx, port)
				s.record(res, total)
				out <- res
			}(uint16(p))
		}
	}()

	return out
}

// Run drains Stream into a report sorted by port. emit, if set, sees every
// result in completion order from a single goroutine. On cancellation the
// partial report is returned together with the context error.
func (s *Scanner) Run(ctx context.Context, emit func(model.ProbeResult)) (*model.ScanReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.setCancel(cancel)
	defer func() {
		s.clearCancel()
		cancel()
	}()

	size := s.opts.Range.Size()
	rep := &model.ScanReport{
		ID:            fmt.Sprintf("%d", time.Now().UTC().UnixNano()),
		Target:        s.opts.Target,
		Range:         s.opts.Range,
		Concurrency:   s.opts.Concurrency,
		TimeoutMillis: s.opts.Timeout.Milliseconds(),
		StartedAt:     time.Now().UTC(),
		Results:       make([]model.ProbeResult, 0, size),
	}

	logger.Debugf("scan %s started: target=%s ports=%s limit=%d timeout=%s",
		rep.ID, s.opts.Target, s.opts.Range, s.gov.Limit(), s.opts.Timeout)

	for res := range s.Stream(ctx) {
		rep.Results = append(rep.Results, res)
		if emit != nil {
			emit(res)
		}
	}

	rep.FinishedAt = time.Now().UTC()
	sort.Slice(rep.Results, func(i, j int) bool {
		return rep.Results[i].Port < rep.Results[j].Port
	})

	open, closed := rep.Counts()
	logger.Debugf("scan %s finished: open=%d closed=%d in %s", rep.ID, open, closed, rep.Duration())

	if err := ctx.Err(); err != nil && len(rep.Results) < size {
		rep.Cancelled = true
		return rep, err
	}
	return rep, nil
}

func (s *Scanner) Progress() model.Progress {
	return model.Progress{
		Done:  int(s.done.Load()),
		Total: s.opts.Range.Size(),
		Open:  int(s.open.Load()),
	}
}

// probe never panics: a failing prober still yields a closed result.
func (s *Scanner) probe(ctx context.Context, port uint16) (res model.ProbeResult) {
	res = model.ProbeResult{Port: port, State: model.StateClosedOrFiltered}
	if name, ok := s.opts.Services.Lookup(port); ok {
		res.Service = name
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("probe %s:%d panicked: %v", s.opts.Target, port, r)
			res.State = model.StateClosedOrFiltered
			res.Error = fmt.Sprintf("probe panic: %v", r)
		}
	}()

	o := s.opts.Prober.Probe(ctx, s.opts.Target, port, s.opts.Timeout)
	res.RTTMillis = o.RTT.Milliseconds()
	if o.State == model.StateOpen {
		res.State = model.StateOpen
		return res
	}
	res.Error = failureReason(o.Err)
	return res
}

func (s *Scanner) record(res model.ProbeResult, total int) {
	open := s.open.Load()
	if res.Open() {
		open = s.open.Add(1)
	}
	done := s.done.Add(1)
	s.hub.Publish(model.Progress{Done: int(done), Total: total, Open: int(open)})
}
