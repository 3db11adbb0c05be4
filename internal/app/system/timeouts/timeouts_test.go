package timeouts

import (
	"testing"
	"time"
)

func TestConfigureOverridesAndReset(t *testing.T) {
	t.Cleanup(Reset)

	Configure(Config{Ping: time.Second, Long: time.Minute})

	if got := Ping(); got != time.Second {
		t.Errorf("Ping() = %v, want 1s", got)
	}
	if got := Long(); got != time.Minute {
		t.Errorf("Long() = %v, want 1m", got)
	}
	// Zero values keep the existing settings.
	if got := Short(); got != DefaultShort {
		t.Errorf("Short() = %v, want default %v", got, DefaultShort)
	}

	Reset()
	if got := Ping(); got != DefaultPing {
		t.Errorf("Ping() after Reset = %v, want default %v", got, DefaultPing)
	}
}
