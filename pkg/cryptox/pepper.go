package cryptox

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Pepper is a server-side secret mixed into password hashes and address
// fingerprints. It never leaves the host.
type Pepper []byte

// LoadOrCreatePepper reads the pepper at path, generating and persisting a
// fresh one when the file does not exist yet.
func LoadOrCreatePepper(path string) (Pepper, error) {
	path = filepath.Clean(path)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		p := strings.TrimSpace(string(data))
		if p == "" {
			return nil, fmt.Errorf("cryptox: pepper file %s is empty", path)
		}
		return Pepper(p), nil
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("cryptox: read pepper: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("cryptox: create pepper dir: %w", err)
	}

	buf := make([]byte, keyLength)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("cryptox: generate pepper: %w", err)
	}
	encoded := base64.RawURLEncoding.EncodeToString(buf)

	if err := os.WriteFile(path, []byte(encoded), 0o600); err != nil {
		return nil, fmt.Errorf("cryptox: write pepper: %w", err)
	}
	return Pepper(encoded), nil
}

// Fingerprint returns a keyed HMAC-SHA256 of value, base64url encoded.
// Client addresses are stored this way so attempt logs can be counted
// without keeping raw IPs.
func (p Pepper) Fingerprint(value string) string {
	mac := hmac.New(sha256.New, p)
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
