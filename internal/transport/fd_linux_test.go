package transport

import (
	"context"
	"net"
	"os"
	"testing"

	"sockdemo/internal/endpoint"
	"sockdemo/util"
)

// openFDs counts the descriptors held by this process.
func openFDs(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skipf("no /proc: %v", err)
	}
	return len(entries)
}

// TestListen_FailuresReleaseDescriptors verifies a failed bind closes
// the socket it created.
func TestListen_FailuresReleaseDescriptors(t *testing.T) {
	busy, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer busy.Close()
	busyEp, _ := endpoint.FromNetAddr(busy.Addr())
	logger := util.NewLogger(0)

	before := openFDs(t)
	for i := 0; i < 50; i++ {
		if _, err := Listen(context.Background(), []endpoint.Endpoint{busyEp}, 5, logger, nil); err == nil {
			t.Fatal("bound a busy port")
		}
	}
	if after := openFDs(t); after != before {
		t.Errorf("descriptors: before=%d after=%d", before, after)
	}
}

// TestDialFirst_FailuresReleaseDescriptors verifies refused attempts
// leave nothing open.
func TestDialFirst_FailuresReleaseDescriptors(t *testing.T) {
	candidates := []endpoint.Endpoint{refusedEndpoint(t), refusedEndpoint(t), refusedEndpoint(t)}
	d := &TCPDialer{}
	logger := util.NewLogger(0)

	// Warm up the runtime poller so its descriptor is not counted.
	DialFirst(context.Background(), d, candidates[:1], logger, nil) //nolint:errcheck

	before := openFDs(t)
	for i := 0; i < 20; i++ {
		if _, _, err := DialFirst(context.Background(), d, candidates, logger, nil); err == nil {
			t.Fatal("dial succeeded with nothing listening")
		}
	}
	if after := openFDs(t); after != before {
		t.Errorf("descriptors: before=%d after=%d", before, after)
	}
}
