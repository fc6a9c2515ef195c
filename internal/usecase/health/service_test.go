package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

// --- Mocks ---

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type deadlinePinger struct {
	sawDeadline bool
}

func (d *deadlinePinger) Ping(ctx context.Context) error {
	_, d.sawDeadline = ctx.Deadline()
	return nil
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(map[string]Pinger{"cache": &mockPinger{}, "vector_store": &mockPinger{}})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["cache"] != CheckOK {
		t.Errorf("expected cache %q, got %q", CheckOK, r.Checks["cache"])
	}
	if r.Checks["vector_store"] != CheckOK {
		t.Errorf("expected vector_store %q, got %q", CheckOK, r.Checks["vector_store"])
	}
}

func TestCheck_CacheError(t *testing.T) {
	svc := New(map[string]Pinger{
		"cache":        &mockPinger{err: errors.New("conn refused")},
		"vector_store": &mockPinger{},
	})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["cache"] != CheckError {
		t.Errorf("expected cache %q, got %q", CheckError, r.Checks["cache"])
	}
	if r.Checks["vector_store"] != CheckOK {
		t.Errorf("expected vector_store %q, got %q", CheckOK, r.Checks["vector_store"])
	}
}

func TestCheck_NoComponents(t *testing.T) {
	r := New(nil).Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if len(r.Checks) != 0 {
		t.Errorf("expected no checks, got %v", r.Checks)
	}
}

func TestCheck_NilPingerSkipped(t *testing.T) {
	svc := New(map[string]Pinger{"cache": nil, "vector_store": &mockPinger{}})
	r := svc.Check(context.Background())

	if _, ok := r.Checks["cache"]; ok {
		t.Error("cache check should be absent when pinger is nil")
	}
	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
}

func TestCheck_PingHasDeadline(t *testing.T) {
	p := &deadlinePinger{}
	svc := New(map[string]Pinger{"cache": p})
	svc.pingTimeout = 50 * time.Millisecond
	svc.Check(context.Background())

	if !p.sawDeadline {
		t.Error("expected ping context to carry a deadline")
	}
}
