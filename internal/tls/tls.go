// Package tls builds the client-side TLS configuration used for the
// STARTTLS upgrade against the SMTP relay.
package tls

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// ClientConfig returns a tls.Config for connecting to the named relay.
// When caFile is non-empty its PEM certificates replace the system roots,
// which covers relays behind a private CA. The insecure flag disables
// certificate verification entirely.
func ClientConfig(serverName, caFile string, insecure bool) (*tls.Config, error) {
	cfg := &tls.Config{
		ServerName: serverName,
		MinVersion: tls.VersionTLS12,
		// #nosec G402 -- controlled by config, explicit operator choice
		InsecureSkipVerify: insecure,
	}

	if caFile == "" {
		return cfg, nil
	}

	pem, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("CA file %s contains no usable certificates", caFile)
	}
	cfg.RootCAs = pool

	return cfg, nil
}
