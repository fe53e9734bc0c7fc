package auxiliary

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/vietddude/sentinel/internal/core/config"
	"github.com/vietddude/sentinel/internal/core/domain"
	"github.com/vietddude/sentinel/internal/infra/registry"
)

// CertExpiryCheck inspects the TLS leaf certificate of every HTTPS target.
type CertExpiryCheck struct {
	cfg      config.CertExpiryConfig
	registry *registry.Registry
	log      *slog.Logger
}

// NewCertExpiryCheck creates the certificate expiry check.
func NewCertExpiryCheck(cfg config.CertExpiryConfig, reg *registry.Registry) *CertExpiryCheck {
	return &CertExpiryCheck{cfg: cfg, registry: reg, log: slog.Default()}
}

func (c *CertExpiryCheck) Name() string            { return "cert-expiry" }
func (c *CertExpiryCheck) Interval() time.Duration { return c.cfg.Interval }

// Run checks each HTTPS endpoint's leaf certificate against the warn window.
func (c *CertExpiryCheck) Run(ctx context.Context) []Observation {
	var out []Observation

	for _, target := range c.registry.All() {
		if !strings.HasPrefix(target.Endpoint, "https://") {
			continue
		}

		notAfter, err := c.leafExpiry(ctx, target.Endpoint)
		if err != nil {
			c.log.Warn("Certificate check failed",
				"target", target.ID,
				"error", err,
			)
			continue
		}

		remaining := time.Until(notAfter)
		switch {
		case remaining <= 0:
			out = append(out, problem(
				target.ID,
				domain.StatusUnhealthy,
				"TLS certificate expired",
				fmt.Sprintf("certificate expired at %s", notAfter.Format(time.RFC3339)),
			))
		case remaining < c.cfg.WarnBefore:
			out = append(out, problem(
				target.ID,
				domain.StatusDegraded,
				fmt.Sprintf("TLS certificate expires in %v", remaining.Round(time.Hour)),
				"",
			))
		}
	}
	return out
}

func (c *CertExpiryCheck) leafExpiry(ctx context.Context, endpoint string) (time.Time, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid endpoint: %w", err)
	}

	host := u.Host
	if u.Port() == "" {
		host = net.JoinHostPort(u.Hostname(), "443")
	}

	dialer := &tls.Dialer{Config: &tls.Config{ServerName: u.Hostname()}}
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	conn, err := dialer.DialContext(dialCtx, "tcp", host)
	if err != nil {
		return time.Time{}, fmt.Errorf("tls dial failed: %w", err)
	}
	defer conn.Close()

	certs := conn.(*tls.Conn).ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return time.Time{}, fmt.Errorf("no peer certificates presented")
	}
	return certs[0].NotAfter, nil
}
