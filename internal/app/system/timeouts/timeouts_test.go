package timeouts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestConfigure_IgnoresZero(t *testing.T) {
	defer Reset()

	Configure(Config{Short: 7 * time.Second})

	if Short() != 7*time.Second {
		t.Errorf("Short() = %v, want 7s", Short())
	}
	if Medium() != DefaultMedium {
		t.Errorf("Medium() = %v, want default %v", Medium(), DefaultMedium)
	}
	if Batch() != DefaultBatch {
		t.Errorf("Batch() = %v, want default %v", Batch(), DefaultBatch)
	}
}

func TestReset(t *testing.T) {
	Configure(Config{Ping: time.Second, Short: time.Second, Medium: time.Second, Batch: time.Second})
	Reset()

	want := Config{Ping: DefaultPing, Short: DefaultShort, Medium: DefaultMedium, Batch: DefaultBatch}
	if got := Current(); got != want {
		t.Errorf("Current() after Reset = %+v, want %+v", got, want)
	}
}

func TestWithTimeout_CancelReleases(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Minute, zap.NewNop(), "test")
	cancel()
	if ctx.Err() != context.Canceled {
		t.Errorf("ctx.Err() = %v, want context.Canceled", ctx.Err())
	}
}
