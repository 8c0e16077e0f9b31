package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"StockPulse/internal/report"
)

type stubRunner struct {
	calls int
	err   error
}

func (r *stubRunner) Run(context.Context) (string, error) {
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	return "reports/report.html", nil
}

func TestRegister(t *testing.T) {
	s := NewScheduler(context.Background(), &stubRunner{})
	if err := s.Register("0 0 18 * * 1-5"); err != nil {
		t.Errorf("valid spec rejected: %v", err)
	}
	if err := s.Register("not a cron"); err == nil {
		t.Error("expected error for invalid spec")
	}
	if len(s.Cron.Entries()) != 1 {
		t.Errorf("expected 1 entry, got %d", len(s.Cron.Entries()))
	}
}

func TestRunNow(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"success", nil},
		{"no data", report.ErrNoData},
		{"failure", errors.New("boom")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &stubRunner{err: tt.err}
			s := NewScheduler(context.Background(), r)
			s.RunNow()
			if r.calls != 1 {
				t.Errorf("expected 1 call, got %d", r.calls)
			}
			if s.Runs() != 1 {
				t.Errorf("expected 1 completed run, got %d", s.Runs())
			}
		})
	}
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(context.Background(), &stubRunner{})
	if err := s.Register("@every 1h"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	s.Start()
	s.Stop()
}

type blockingRunner struct {
	started chan struct{}
	release chan struct{}
	calls   int32
	active  int32
	peak    int32
}

func (r *blockingRunner) Run(context.Context) (string, error) {
	atomic.AddInt32(&r.calls, 1)
	if n := atomic.AddInt32(&r.active, 1); n > atomic.LoadInt32(&r.peak) {
		atomic.StoreInt32(&r.peak, n)
	}
	r.started <- struct{}{}
	<-r.release
	atomic.AddInt32(&r.active, -1)
	return "reports/report.html", nil
}

func TestRunNow_SkipsWhileRunning(t *testing.T) {
	r := &blockingRunner{started: make(chan struct{}, 2), release: make(chan struct{})}
	s := NewScheduler(context.Background(), r)

	done := make(chan struct{})
	go func() {
		s.RunNow()
		close(done)
	}()
	select {
	case <-r.started:
	case <-time.After(5 * time.Second):
		t.Fatal("first run did not start")
	}

	// A second trigger while the first is in progress returns without running.
	s.RunNow()
	close(r.release)
	<-done

	if got := atomic.LoadInt32(&r.calls); got != 1 {
		t.Errorf("expected 1 execution, got %d", got)
	}
	if got := atomic.LoadInt32(&r.peak); got != 1 {
		t.Errorf("expected at most 1 concurrent run, got %d", got)
	}
	if s.Runs() != 1 {
		t.Errorf("expected 1 completed run, got %d", s.Runs())
	}
}
