// Package certs keeps a self-signed certificate for serving the backend
// over HTTPS on localhost.
package certs

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// CertFileName and KeyFileName are the files kept in the certificate directory.
	CertFileName = "localhost.crt"
	KeyFileName  = "localhost.key"

	validity = 365 * 24 * time.Hour
	// A certificate this close to expiry is replaced.
	renewBefore = 30 * 24 * time.Hour
)

// Store manages the certificate pair in one directory.
type Store struct {
	dir      string
	certFile string
	keyFile  string
	now      func() time.Time
}

// NewStore creates a store rooted at dir. Nothing is read or written until
// Certificate is called.
func NewStore(dir string) *Store {
	return &Store{
		dir:      dir,
		certFile: filepath.Join(dir, CertFileName),
		keyFile:  filepath.Join(dir, KeyFileName),
		now:      time.Now,
	}
}

// CertFile returns the path of the PEM certificate, which clients can trust
// as their CA file.
func (s *Store) CertFile() string {
	return s.certFile
}

// Exists reports whether both files are present.
func (s *Store) Exists() (bool, error) {
	for _, path := range []string{s.certFile, s.keyFile} {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return false, nil
			}
			return false, fmt.Errorf("failed to check certificate file: %w", err)
		}
	}
	return true, nil
}

// Certificate returns the stored certificate, generating a new one when
// none exists or the stored one is unreadable, expiring or not valid for
// localhost.
func (s *Store) Certificate() (tls.Certificate, error) {
	exists, err := s.Exists()
	if err != nil {
		return tls.Certificate{}, err
	}
	if exists {
		cert, err := s.load()
		if err == nil {
			return cert, nil
		}
		slog.Warn("Replacing stored certificate", "dir", s.dir, "reason", err)
	}
	return s.generate()
}

func (s *Store) load() (tls.Certificate, error) {
	cert, err := tls.LoadX509KeyPair(s.certFile, s.keyFile)
	if err != nil {
		return tls.Certificate{}, err
	}
	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to parse certificate: %w", err)
	}

	now := s.now()
	switch {
	case now.Before(leaf.NotBefore):
		return tls.Certificate{}, errors.New("certificate not yet valid")
	case now.Add(renewBefore).After(leaf.NotAfter):
		return tls.Certificate{}, errors.New("certificate expires soon")
	}
	if err := leaf.VerifyHostname("localhost"); err != nil {
		return tls.Certificate{}, fmt.Errorf("certificate not valid for localhost: %w", err)
	}

	cert.Leaf = leaf
	return cert, nil
}

func (s *Store) generate() (tls.Certificate, error) {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to create certificate directory: %w", err)
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to generate private key: %w", err)
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to generate serial number: %w", err)
	}

	now := s.now()
	template := x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			Organization: []string{"fintrack"},
			CommonName:   "localhost",
		},
		NotBefore:             now.Add(-time.Minute),
		NotAfter:              now.Add(validity),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		IPAddresses:           []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
		DNSNames:              []string{"localhost"},
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to create certificate: %w", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to encode private key: %w", err)
	}

	if err := writePEM(s.certFile, "CERTIFICATE", der); err != nil {
		return tls.Certificate{}, err
	}
	if err := writePEM(s.keyFile, "EC PRIVATE KEY", keyDER); err != nil {
		return tls.Certificate{}, err
	}
	slog.Info("Generated localhost certificate", "cert", s.certFile, "expires", template.NotAfter.Format(time.DateOnly))

	return s.load()
}

func writePEM(path, blockType string, der []byte) error {
	data := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Fingerprint returns the SHA-256 fingerprint of the leaf certificate in the
// colon separated form browsers show.
func Fingerprint(cert tls.Certificate) string {
	if len(cert.Certificate) == 0 {
		return ""
	}
	sum := sha256.Sum256(cert.Certificate[0])
	hexSum := strings.ToUpper(hex.EncodeToString(sum[:]))

	parts := make([]string, 0, len(sum))
	for i := 0; i < len(hexSum); i += 2 {
		parts = append(parts, hexSum[i:i+2])
	}
	return strings.Join(parts, ":")
}
