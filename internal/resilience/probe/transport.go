package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Transport performs one raw check against an endpoint. A nil error means the
// endpoint answered successfully; classification against the latency budget
// happens in the prober.
type Transport interface {
	Check(ctx context.Context, endpoint string) (detail string, err error)
}

// HTTPTransport checks an HTTP health endpoint.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport creates an HTTP transport with pooled connections.
// Per-probe deadlines come from the request context, not the client.
func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Check performs an HTTP GET and treats any non-2xx status as a failure.
func (t *HTTPTransport) Check(ctx context.Context, endpoint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	return fmt.Sprintf("HTTP %d", resp.StatusCode), nil
}

// TCPTransport checks raw TCP reachability.
type TCPTransport struct {
	dialer net.Dialer
}

// NewTCPTransport creates a TCP transport.
func NewTCPTransport() *TCPTransport {
	return &TCPTransport{}
}

// Check dials the endpoint and closes the connection immediately.
func (t *TCPTransport) Check(ctx context.Context, endpoint string) (string, error) {
	addr := strings.TrimPrefix(strings.TrimPrefix(endpoint, "tcp://"), "//")
	conn, err := t.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", fmt.Errorf("tcp dial failed: %w", err)
	}
	_ = conn.Close()
	return "TCP connect ok", nil
}

// GRPCTransport checks a gRPC server via the standard health-check protocol.
type GRPCTransport struct{}

// NewGRPCTransport creates a gRPC transport.
func NewGRPCTransport() *GRPCTransport {
	return &GRPCTransport{}
}

// Check dials the endpoint and calls grpc.health.v1.Health/Check.
func (t *GRPCTransport) Check(ctx context.Context, endpoint string) (string, error) {
	target := endpoint
	var opts []grpc.DialOption

	if strings.HasPrefix(endpoint, "https://") || strings.HasSuffix(endpoint, ":443") {
		creds := credentials.NewTLS(&tls.Config{})
		opts = append(opts, grpc.WithTransportCredentials(creds))
		target = strings.TrimPrefix(target, "https://")
	} else {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
		target = strings.TrimPrefix(target, "http://")
	}

	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create grpc client for %s: %w", target, err)
	}
	defer func() { _ = conn.Close() }()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return "", fmt.Errorf("grpc health check failed: %w", err)
	}
	if resp.Status != healthpb.HealthCheckResponse_SERVING {
		return "", fmt.Errorf("grpc health status %s", resp.Status)
	}

	return "gRPC SERVING", nil
}
