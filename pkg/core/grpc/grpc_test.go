package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/msto63/schedclients/api/scheduling"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
)

// echoVersionServer reports the request ID it saw in the envelope message
type echoVersionServer struct{}

func (echoVersionServer) GetSchedulerVersion(ctx context.Context, _ *emptypb.Empty) (*scheduling.GetSchedulerVersionResult, error) {
	return &scheduling.GetSchedulerVersionResult{
		Envelope: scheduling.Fail(scheduling.ServiceCodeNoError, GetRequestID(ctx)),
		Version:  scheduling.SemVerDto{Major: 1, Minor: 2, Patch: 3},
	}, nil
}

func (echoVersionServer) GetPluginVersions(context.Context, *emptypb.Empty) (*scheduling.GetPluginVersionsResult, error) {
	panic("plugin table corrupted")
}

func startBufServer(t *testing.T) *bufconn.Listener {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := NewServer(DefaultServerConfig())
	scheduling.RegisterVersionServiceServer(srv.GRPCServer(), echoVersionServer{})

	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	return lis
}

func bufDialer(lis *bufconn.Listener) grpc.DialOption {
	return grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})
}

func TestDefaultClientConfig(t *testing.T) {
	cfg := DefaultClientConfig("fleet:41916")

	if cfg.Target != "fleet:41916" {
		t.Errorf("Target = %v, want fleet:41916", cfg.Target)
	}
	if cfg.ContentSubtype != scheduling.CodecName {
		t.Errorf("ContentSubtype = %v, want %v", cfg.ContentSubtype, scheduling.CodecName)
	}
	if cfg.Block {
		t.Error("Block = true, want false")
	}
}

func TestDial_UnaryRoundTrip(t *testing.T) {
	lis := startBufServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := DefaultClientConfig("passthrough:///bufnet")
	cfg.Block = true
	cfg.Timeout = 5 * time.Second

	conn, err := Dial(ctx, cfg, bufDialer(lis))
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	client := scheduling.NewVersionServiceClient(conn)
	res, err := client.GetSchedulerVersion(WithRequestID(ctx, "req-42"), &emptypb.Empty{})
	if err != nil {
		t.Fatalf("GetSchedulerVersion() error = %v", err)
	}

	if res.Version.String() != "1.2.3" {
		t.Errorf("Version = %v, want 1.2.3", res.Version)
	}
	if res.ExceptionMessage != "req-42" {
		t.Errorf("request ID seen by server = %q, want req-42", res.ExceptionMessage)
	}
}

func TestDial_GeneratesRequestID(t *testing.T) {
	lis := startBufServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := Dial(ctx, DefaultClientConfig("passthrough:///bufnet"), bufDialer(lis))
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	res, err := scheduling.NewVersionServiceClient(conn).GetSchedulerVersion(ctx, &emptypb.Empty{})
	if err != nil {
		t.Fatalf("GetSchedulerVersion() error = %v", err)
	}
	if res.ExceptionMessage == "" {
		t.Error("server saw no request ID")
	}
}

func TestServer_RecoversPanics(t *testing.T) {
	lis := startBufServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := Dial(ctx, DefaultClientConfig("passthrough:///bufnet"), bufDialer(lis))
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	_, err = scheduling.NewVersionServiceClient(conn).GetPluginVersions(ctx, &emptypb.Empty{})
	if status.Code(err) != codes.Internal {
		t.Errorf("GetPluginVersions() code = %v, want Internal", status.Code(err))
	}
}

func TestConnectionPool(t *testing.T) {
	lis := startBufServer(t)
	pool := NewConnectionPool(DefaultClientConfig(""), bufDialer(lis))

	ctx := context.Background()
	first, err := pool.Get(ctx, "passthrough:///bufnet")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	second, err := pool.Get(ctx, "passthrough:///bufnet")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if first != second {
		t.Error("Get() returned a new connection for the same target")
	}

	if got := len(pool.GetStatus()); got != 1 {
		t.Errorf("GetStatus() has %d entries, want 1", got)
	}

	if err := pool.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if got := len(pool.GetStatus()); got != 0 {
		t.Errorf("GetStatus() after Close has %d entries, want 0", got)
	}
}

func TestGetRequestID(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID(empty) = %q, want empty", got)
	}
	if got := GetRequestID(WithRequestID(context.Background(), "abc")); got != "abc" {
		t.Errorf("GetRequestID() = %q, want abc", got)
	}
}

func TestServer_Address(t *testing.T) {
	srv := NewServer(DefaultServerConfig())
	if got := srv.Address(); got != "0.0.0.0:41916" {
		t.Errorf("Address() = %v, want 0.0.0.0:41916", got)
	}
}
