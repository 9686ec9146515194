package testsupport

import (
	"context"
	"os"
	"testing"
	"time"

	"replaudio/internal/config"
	"replaudio/internal/logging"
	"replaudio/internal/simulator"
)

// StartSimulator runs a daemon simulator over the config's paths for the
// duration of the test. It blocks until the initial snapshot is published.
func StartSimulator(t testing.TB, cfg *config.Config) {
	t.Helper()

	sim := simulator.New(cfg, logging.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := sim.Run(ctx); err != nil {
			t.Errorf("simulator run: %v", err)
		}
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(cfg.Paths.StatusFile); err == nil {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("simulator did not publish an initial snapshot")
}
