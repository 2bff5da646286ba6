package lifecycle_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/agent-console/pkg/lifecycle"
)

func TestNew_NotReady(t *testing.T) {
	lc := lifecycle.New()

	if lc.Context().Err() != nil {
		t.Fatalf("Context().Err() = %v, want nil", lc.Context().Err())
	}

	var checker lifecycle.ReadinessChecker = lc
	if checker.Ready() {
		t.Error("Ready() = true before startup")
	}
}

func TestWaitForStartup_RunsHooksThenReady(t *testing.T) {
	lc := lifecycle.New()

	var count atomic.Int32
	for range 3 {
		lc.OnStartup(func() {
			time.Sleep(5 * time.Millisecond)
			count.Add(1)
		})
	}

	lc.WaitForStartup()

	if got := count.Load(); got != 3 {
		t.Errorf("startup hooks run = %d, want 3", got)
	}
	if !lc.Ready() {
		t.Error("Ready() = false after WaitForStartup")
	}
}

func TestShutdown_CancelsContextAndWaitsForHooks(t *testing.T) {
	lc := lifecycle.New()
	lc.WaitForStartup()

	var released atomic.Int32
	for range 2 {
		lc.OnShutdown(func() {
			<-lc.Context().Done()
			released.Add(1)
		})
	}

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	if lc.Context().Err() == nil {
		t.Error("context not cancelled after Shutdown")
	}
	if got := released.Load(); got != 2 {
		t.Errorf("shutdown hooks run = %d, want 2", got)
	}
	if lc.Ready() {
		t.Error("Ready() = true after Shutdown")
	}
}

func TestShutdown_Timeout(t *testing.T) {
	lc := lifecycle.New()
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		time.Sleep(300 * time.Millisecond)
	})

	if err := lc.Shutdown(20 * time.Millisecond); err == nil {
		t.Error("Shutdown() error = nil, want timeout")
	}
}
