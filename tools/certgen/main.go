// Package main generates a development Certificate Authority and a server
// certificate for running the LinkHub API over HTTPS. An existing CA in the
// output directory is reused so previously trusted roots stay valid.
package main

import (
	"crypto"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/atinyakov/LinkHub/internal/certgen"
	"github.com/spf13/pflag"
)

const (
	caValidity     = 10 * 365 * 24 * time.Hour
	serverValidity = 365 * 24 * time.Hour
)

func main() {
	flags := pflag.NewFlagSet("certgen", pflag.ExitOnError)
	dir := flags.StringP("out", "o", "certs", "output directory")
	hosts := flags.StringSlice("hosts", []string{"localhost", "127.0.0.1"}, "server certificate hosts")
	_ = flags.Parse(os.Args[1:])

	if err := run(os.Stdout, *dir, *hosts); err != nil {
		fmt.Fprintf(os.Stderr, "certgen: %v\n", err)
		os.Exit(1)
	}
}

// run writes ca.crt, ca.key, server.crt and server.key into dir.
func run(out io.Writer, dir string, hosts []string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	caCertPath := filepath.Join(dir, "ca.crt")
	caKeyPath := filepath.Join(dir, "ca.key")

	caCert, caKey, err := loadOrCreateCA(caCertPath, caKeyPath)
	if err != nil {
		return err
	}

	server, err := certgen.GenerateServerCertificate(hosts, caCert, caKey, serverValidity)
	if err != nil {
		return err
	}
	serverCertPath := filepath.Join(dir, "server.crt")
	serverKeyPath := filepath.Join(dir, "server.key")
	if err := writeBundle(serverCertPath, serverKeyPath, server); err != nil {
		return err
	}

	fmt.Fprintf(out, "Certificates generated into %s\n", dir)
	fmt.Fprintf(out, "tls:\n  cert: %s\n  key: %s\n", serverCertPath, serverKeyPath)
	return nil
}

func loadOrCreateCA(certPath, keyPath string) (*x509.Certificate, crypto.Signer, error) {
	caCert, caKey, err := certgen.LoadCA(certPath, keyPath)
	if err == nil {
		return caCert, caKey, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, err
	}

	ca, err := certgen.GenerateCA("LinkHub Development CA", caValidity)
	if err != nil {
		return nil, nil, err
	}
	if err := writeBundle(certPath, keyPath, ca); err != nil {
		return nil, nil, err
	}
	return certgen.ParseCA(ca)
}

// writeBundle writes the certificate world-readable and the key owner-only.
func writeBundle(certPath, keyPath string, b certgen.Bundle) error {
	if err := os.WriteFile(certPath, b.CertPEM, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", certPath, err)
	}
	if err := os.WriteFile(keyPath, b.KeyPEM, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", keyPath, err)
	}
	return nil
}
