package certs

import (
	"crypto/tls"
	"crypto/x509"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Certificate(t *testing.T) {
	tests := []struct {
		setup          func(t *testing.T, certDir string)
		validateResult func(t *testing.T, cert tls.Certificate)
		name           string
		errorContains  string
		wantErr        bool
	}{
		{
			name: "creates new certificate when none exists",
			validateResult: func(t *testing.T, cert tls.Certificate) {
				t.Helper()
				require.NotNil(t, cert.Leaf)
				assert.Equal(t, []string{"fintrack"}, cert.Leaf.Subject.Organization)
				assert.Contains(t, cert.Leaf.DNSNames, "localhost")
				assert.True(t, cert.Leaf.NotAfter.After(time.Now().Add(364*24*time.Hour)), "certificate should be valid for about a year")
				assert.NoError(t, cert.Leaf.VerifyHostname("localhost"))
			},
		},
		{
			name: "regenerates invalid certificate",
			setup: func(t *testing.T, certDir string) {
				t.Helper()
				if err := os.MkdirAll(certDir, 0o700); err != nil {
					t.Fatalf("failed to create cert directory: %v", err)
				}
				if err := os.WriteFile(filepath.Join(certDir, CertFileName), []byte("invalid certificate data"), 0o600); err != nil {
					t.Fatalf("failed to write cert file: %v", err)
				}
				if err := os.WriteFile(filepath.Join(certDir, KeyFileName), []byte("invalid key data"), 0o600); err != nil {
					t.Fatalf("failed to write key file: %v", err)
				}
			},
			validateResult: func(t *testing.T, cert tls.Certificate) {
				t.Helper()
				assert.True(t, cert.Leaf.NotBefore.After(time.Now().Add(-2*time.Minute)))
			},
		},
		{
			name: "handles certificate directory that is a file",
			setup: func(t *testing.T, certDir string) {
				t.Helper()
				if err := os.MkdirAll(filepath.Dir(certDir), 0o700); err != nil {
					t.Fatalf("failed to create parent directory: %v", err)
				}
				if err := os.WriteFile(certDir, []byte("not a directory"), 0o600); err != nil {
					t.Fatalf("failed to write file: %v", err)
				}
			},
			wantErr:       true,
			errorContains: "failed to check certificate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			certDir := filepath.Join(t.TempDir(), "certs")
			if tt.setup != nil {
				tt.setup(t, certDir)
			}

			cert, err := NewStore(certDir).Certificate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			if tt.validateResult != nil {
				tt.validateResult(t, cert)
			}

			for _, name := range []string{CertFileName, KeyFileName} {
				info, err := os.Stat(filepath.Join(certDir, name))
				require.NoError(t, err)
				assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "%s should be owner-only", name)
			}
		})
	}
}

func TestStore_ReusesValidCertificate(t *testing.T) {
	dir := t.TempDir()
	first, err := NewStore(dir).Certificate()
	require.NoError(t, err)

	second, err := NewStore(dir).Certificate()
	require.NoError(t, err)
	assert.Equal(t, Fingerprint(first), Fingerprint(second))
}

func TestStore_RenewsExpiringCertificate(t *testing.T) {
	dir := t.TempDir()
	old := NewStore(dir)
	old.now = func() time.Time { return time.Now().Add(-340 * 24 * time.Hour) }
	stale, err := old.Certificate()
	require.NoError(t, err)

	// Today the stale certificate is inside the renewal window.
	fresh, err := NewStore(dir).Certificate()
	require.NoError(t, err)
	assert.NotEqual(t, Fingerprint(stale), Fingerprint(fresh))
	assert.True(t, fresh.Leaf.NotAfter.After(time.Now().Add(300*24*time.Hour)))
}

func TestStore_Exists(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  bool
	}{
		{name: "no files"},
		{name: "both files", files: []string{CertFileName, KeyFileName}, want: true},
		{name: "only certificate", files: []string{CertFileName}},
		{name: "only key", files: []string{KeyFileName}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				if err := os.WriteFile(filepath.Join(dir, f), []byte("x"), 0o600); err != nil {
					t.Fatalf("failed to write %s: %v", f, err)
				}
			}

			exists, err := NewStore(dir).Exists()
			require.NoError(t, err)
			assert.Equal(t, tt.want, exists)
		})
	}
}

func TestCertificateProperties(t *testing.T) {
	cert, err := NewStore(t.TempDir()).Certificate()
	require.NoError(t, err)
	leaf := cert.Leaf

	t.Run("key usage", func(t *testing.T) {
		assert.Equal(t, []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth}, leaf.ExtKeyUsage)
		assert.Equal(t, x509.ECDSA, leaf.PublicKeyAlgorithm)
	})

	t.Run("IP addresses", func(t *testing.T) {
		var v4, v6 bool
		for _, ip := range leaf.IPAddresses {
			v4 = v4 || ip.Equal(net.IPv4(127, 0, 0, 1))
			v6 = v6 || ip.Equal(net.IPv6loopback)
		}
		assert.True(t, v4, "certificate should include IPv4 loopback")
		assert.True(t, v6, "certificate should include IPv6 loopback")
	})

	t.Run("fingerprint", func(t *testing.T) {
		fp := Fingerprint(cert)
		assert.Len(t, strings.Split(fp, ":"), 32)
		assert.Equal(t, strings.ToUpper(fp), fp)
	})
}

func TestCertificateServesTLS(t *testing.T) {
	store := NewStore(t.TempDir())
	cert, err := store.Certificate()
	require.NoError(t, err)

	ts := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("OK"))
	}))
	ts.TLS = &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}
	ts.StartTLS()
	defer ts.Close()

	pem, err := os.ReadFile(store.CertFile())
	require.NoError(t, err)
	pool := x509.NewCertPool()
	require.True(t, pool.AppendCertsFromPEM(pem))

	client := &http.Client{Transport: &http.Transport{TLSClientConfig: &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}}}
	resp, err := client.Get(ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
