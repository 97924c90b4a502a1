package test

import (
	"go.uber.org/fx"
)

// LifecycleRecorder collects hooks registered by fx.Invoke targets so
// tests can fire OnStart and OnStop manually.
type LifecycleRecorder struct {
	Hooks []fx.Hook
}

// Append stores a hook for later invocation.
func (l *LifecycleRecorder) Append(h fx.Hook) {
	l.Hooks = append(l.Hooks, h)
}

// ShutdownerStub signals on the Called channel when a component requests
// application shutdown.
type ShutdownerStub struct {
	Called chan struct{}
}

// Shutdown notifies the test about graceful termination.
func (s *ShutdownerStub) Shutdown(...fx.ShutdownOption) error {
	if s.Called != nil {
		select {
		case s.Called <- struct{}{}:
		default:
		}
	}
	return nil
}
