package grpc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/msto63/schedclients/api/scheduling"
	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
)

// ClientConfig holds gRPC client configuration
type ClientConfig struct {
	Target            string
	Timeout           time.Duration // only used when Block is set
	MaxRecvMsgSize    int
	MaxSendMsgSize    int
	KeepaliveInterval time.Duration
	KeepaliveTimeout  time.Duration
	ContentSubtype    string // codec used for every call, empty for protobuf
	Block             bool   // Block until connection is established
}

// DefaultClientConfig returns a default client configuration
func DefaultClientConfig(target string) ClientConfig {
	return ClientConfig{
		Target:            target,
		Timeout:           30 * time.Second,
		MaxRecvMsgSize:    16 * 1024 * 1024, // 16MB
		MaxSendMsgSize:    16 * 1024 * 1024, // 16MB
		KeepaliveInterval: 30 * time.Second,
		KeepaliveTimeout:  10 * time.Second,
		ContentSubtype:    scheduling.CodecName,
		Block:             false,
	}
}

// Dial creates a new gRPC client connection. Unless cfg.Block is set the
// connection is established lazily on the first call.
func Dial(ctx context.Context, cfg ClientConfig, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	callOpts := []grpc.CallOption{
		grpc.MaxCallRecvMsgSize(cfg.MaxRecvMsgSize),
		grpc.MaxCallSendMsgSize(cfg.MaxSendMsgSize),
	}
	if cfg.ContentSubtype != "" {
		callOpts = append(callOpts, grpc.CallContentSubtype(cfg.ContentSubtype))
	}

	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(callOpts...),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                cfg.KeepaliveInterval,
			Timeout:             cfg.KeepaliveTimeout,
			PermitWithoutStream: true,
		}),
		grpc.WithChainUnaryInterceptor(
			ClientRequestIDInterceptor(),
			ClientLoggingInterceptor(),
		),
		grpc.WithChainStreamInterceptor(
			ClientStreamRequestIDInterceptor(),
			ClientStreamLoggingInterceptor(),
		),
	}

	// Append custom options
	dialOpts = append(dialOpts, opts...)

	conn, err := grpc.NewClient(cfg.Target, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", cfg.Target, err)
	}

	if cfg.Block {
		waitCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
		if err := waitReady(waitCtx, conn); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Target, err)
		}
	}

	return conn, nil
}

// waitReady blocks until conn is Ready or ctx is done
func waitReady(ctx context.Context, conn *grpc.ClientConn) error {
	conn.Connect()
	for {
		state := conn.GetState()
		switch state {
		case connectivity.Ready:
			return nil
		case connectivity.Shutdown:
			return errors.New("connection shut down")
		}
		if !conn.WaitForStateChange(ctx, state) {
			return ctx.Err()
		}
	}
}

// ConnectionPool manages a pool of gRPC connections (thread-safe)
type ConnectionPool struct {
	mu          sync.RWMutex
	connections map[string]*grpc.ClientConn
	config      ClientConfig
	dialOpts    []grpc.DialOption
}

// NewConnectionPool creates a new connection pool. opts are passed to every Dial.
func NewConnectionPool(cfg ClientConfig, opts ...grpc.DialOption) *ConnectionPool {
	return &ConnectionPool{
		connections: make(map[string]*grpc.ClientConn),
		config:      cfg,
		dialOpts:    opts,
	}
}

// Get returns a connection to the target, creating one if necessary
// The connection is checked for health before returning
func (p *ConnectionPool) Get(ctx context.Context, target string) (*grpc.ClientConn, error) {
	p.mu.RLock()
	conn, exists := p.connections[target]
	p.mu.RUnlock()

	if exists && isConnectionHealthy(conn) {
		return conn, nil
	}

	// Need to create or recreate connection
	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock
	if conn, exists := p.connections[target]; exists {
		if isConnectionHealthy(conn) {
			return conn, nil
		}
		// Connection shut down, close and recreate
		conn.Close()
		delete(p.connections, target)
	}

	cfg := p.config
	cfg.Target = target
	newConn, err := Dial(ctx, cfg, p.dialOpts...)
	if err != nil {
		return nil, err
	}

	p.connections[target] = newConn
	return newConn, nil
}

// isConnectionHealthy reports whether the connection can still carry calls.
// A connection in TransientFailure reconnects on its own and is kept.
func isConnectionHealthy(conn *grpc.ClientConn) bool {
	return conn.GetState() != connectivity.Shutdown
}

// GetStatus returns the connection status for all targets
func (p *ConnectionPool) GetStatus() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	status := make(map[string]string, len(p.connections))
	for target, conn := range p.connections {
		status[target] = conn.GetState().String()
	}
	return status
}

// Close closes all connections in the pool
func (p *ConnectionPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for target, conn := range p.connections {
		if err := conn.Close(); err != nil {
			lastErr = fmt.Errorf("failed to close connection to %s: %w", target, err)
		}
		delete(p.connections, target)
	}
	return lastErr
}
