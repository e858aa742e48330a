package hostinfo

import (
	"runtime"
	"testing"
)

func TestFormatRAM(t *testing.T) {
	tests := []struct {
		bytes uint64
		want  string
	}{
		{0, "0.0 GB"},
		{8589934592, "8.0 GB"},
		{17179869184, "16.0 GB"},
		{1610612736, "1.5 GB"},
	}

	for _, tt := range tests {
		if got := FormatRAM(tt.bytes); got != tt.want {
			t.Errorf("FormatRAM(%d) = %s, want %s", tt.bytes, got, tt.want)
		}
	}
}

func TestCollectIsBestEffort(t *testing.T) {
	snap := Collect()
	if snap == nil {
		t.Fatal("Collect must always return a snapshot")
	}
	if snap.OS != runtime.GOOS {
		t.Errorf("expected OS %s, got %s", runtime.GOOS, snap.OS)
	}
	if snap.Architecture != runtime.GOARCH {
		t.Errorf("expected arch %s, got %s", runtime.GOARCH, snap.Architecture)
	}
}
