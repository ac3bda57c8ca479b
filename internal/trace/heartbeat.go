package trace

import (
	"context"
	"strconv"
	"time"
)

// StartHeartbeat emits a heartbeat every interval until ctx is done or stop
// is called. Heartbeats without span ends mean the run is stuck.
func StartHeartbeat(ctx context.Context, t Tracer, interval time.Duration) (stop func()) {
	if t == nil || t.Level() == LevelOff || interval <= 0 {
		return func() {}
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for n := 1; ; n++ {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				t.Emit(&Event{
					Time:   now,
					Kind:   KindHeartbeat,
					Scope:  ScopeDriver,
					GID:    goroutineID(),
					Name:   "heartbeat",
					Detail: "#" + strconv.Itoa(n),
				})
			}
		}
	}()
	return func() {
		cancel()
		<-done
	}
}
