// Package simtest runs a simulator over an in-memory gRPC connection for tests.
package simtest

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/msto63/schedclients/internal/simulator"
	coregrpc "github.com/msto63/schedclients/pkg/core/grpc"
	"github.com/msto63/schedclients/pkg/core/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

// Target is the dial target that reaches the in-memory listener
const Target = "passthrough:///bufnet"

// Harness is a running simulator and a client connection to it
type Harness struct {
	Sim  *simulator.Simulator
	Conn *grpc.ClientConn

	listener *bufconn.Listener
}

// Start serves a new simulator and dials it. Everything is stopped on test cleanup.
// The simulator only advances when the test calls Sim.Tick.
func Start(t testing.TB, cfg simulator.Config) *Harness {
	t.Helper()

	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	sim := simulator.New(cfg)

	lis := bufconn.Listen(1 << 20)
	srv := simulator.NewServer(sim, coregrpc.DefaultServerConfig(), 0)
	go func() {
		_ = srv.Serve(lis)
	}()

	h := &Harness{Sim: sim, listener: lis}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := coregrpc.Dial(ctx, coregrpc.DefaultClientConfig(Target), h.DialOption())
	if err != nil {
		t.Fatalf("dial simulator: %v", err)
	}
	h.Conn = conn

	t.Cleanup(func() {
		_ = conn.Close()
		stopCtx, stop := context.WithTimeout(context.Background(), time.Second)
		defer stop()
		srv.Stop(stopCtx)
	})
	return h
}

// DialOption routes connections for Target to the in-memory listener
func (h *Harness) DialOption() grpc.DialOption {
	return grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return h.listener.DialContext(ctx)
	})
}
