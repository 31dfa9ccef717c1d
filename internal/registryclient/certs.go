package registryclient

import (
	"crypto/x509"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// selectCertPool scans certDir/endpoint for PEM files and returns one pool
// holding every file that parses as a CA certificate, in place of the
// original constructor's loop of trying each file in the certs.d directory
// until one is accepted. Unlike the original, this does not make a live TLS
// probe per candidate file (RootCAs accumulate instead of requiring a
// round-trip to fail the file in or out); a directory with no acceptable
// certs yields ok=false and the client falls back to the system trust
// store.
func selectCertPool(certDir, endpoint string) (*x509.CertPool, bool) {
	if certDir == "" {
		return nil, false
	}
	dir := filepath.Join(certDir, endpoint)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, false
	}

	pool := x509.NewCertPool()
	found := false
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		pem, err := os.ReadFile(path)
		if err != nil {
			logrus.Debugf("registryclient: cert file rejected %s: %v", path, err)
			continue
		}
		if pool.AppendCertsFromPEM(pem) {
			logrus.Debugf("registryclient: trusting cert file %s", path)
			found = true
		}
	}
	return pool, found
}
