// Package auth signs outbound exchange requests with RSA signatures.
package auth

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"
	"time"
)

// Request headers carrying the authentication material.
const (
	HeaderKey       = "KALSHI-ACCESS-KEY"
	HeaderSignature = "KALSHI-ACCESS-SIGNATURE"
	HeaderTimestamp = "KALSHI-ACCESS-TIMESTAMP"
)

// AuthenticationError reports a malformed or missing signing key. It is
// fatal: startup must abort rather than retry per-request.
type AuthenticationError struct {
	Reason string
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication: %s: %v", e.Reason, e.Err)
	}
	return "authentication: " + e.Reason
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// Credentials holds the API key ID and the private signing key. It is
// immutable after construction and safe for unsynchronized concurrent use.
type Credentials struct {
	KeyID      string
	PrivateKey *rsa.PrivateKey
}

// LoadCredentials loads credentials from a key ID and a PEM key file path.
func LoadCredentials(keyID, privateKeyPath string) (*Credentials, error) {
	if keyID == "" {
		return nil, &AuthenticationError{Reason: "API key ID is required"}
	}
	if privateKeyPath == "" {
		return nil, &AuthenticationError{Reason: "private key path is required"}
	}

	privateKey, err := LoadPrivateKey(privateKeyPath)
	if err != nil {
		return nil, err
	}

	return &Credentials{KeyID: keyID, PrivateKey: privateKey}, nil
}

// LoadCredentialsBase64 builds credentials from a key ID and a
// base64-encoded PEM private key, as stored in environment variables.
func LoadCredentialsBase64(keyID, privateKeyB64 string) (*Credentials, error) {
	if keyID == "" {
		return nil, &AuthenticationError{Reason: "API key ID is required"}
	}

	pemBytes, err := base64.StdEncoding.DecodeString(privateKeyB64)
	if err != nil {
		return nil, &AuthenticationError{Reason: "decode base64 private key", Err: err}
	}

	privateKey, err := ParsePrivateKey(pemBytes)
	if err != nil {
		return nil, err
	}

	return &Credentials{KeyID: keyID, PrivateKey: privateKey}, nil
}

// LoadPrivateKey loads an RSA private key from a PEM file.
func LoadPrivateKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &AuthenticationError{Reason: "read key file", Err: err}
	}
	return ParsePrivateKey(data)
}

// ParsePrivateKey parses an RSA private key from PEM bytes, accepting
// PKCS#8 (newer) and PKCS#1 (older) encodings.
func ParsePrivateKey(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, &AuthenticationError{Reason: "no PEM block in key data"}
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, &AuthenticationError{Reason: "key is not an RSA private key"}
		}
		return rsaKey, nil
	}

	rsaKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, &AuthenticationError{Reason: "parse private key", Err: err}
	}

	return rsaKey, nil
}

// SignRequest generates authentication headers for one outbound request.
// The timestamp is taken at call time and the signature is never reused:
// the server enforces a freshness window as replay prevention.
func (c *Credentials) SignRequest(method, path string) (map[string]string, error) {
	timestampMs := time.Now().UnixMilli()

	signature, err := c.sign(timestampMs, method, path)
	if err != nil {
		return nil, err
	}

	return map[string]string{
		HeaderKey:       c.KeyID,
		HeaderSignature: signature,
		HeaderTimestamp: fmt.Sprintf("%d", timestampMs),
	}, nil
}

// sign computes the base64 RSA signature over timestamp_ms + method + path.
// PKCS#1 v1.5 padding keeps the signature deterministic for a given
// timestamp, which the exchange accepts alongside PSS.
func (c *Credentials) sign(timestampMs int64, method, path string) (string, error) {
	message := fmt.Sprintf("%d%s%s", timestampMs, method, path)
	hashed := sha256.Sum256([]byte(message))

	signature, err := rsa.SignPKCS1v15(rand.Reader, c.PrivateKey, crypto.SHA256, hashed[:])
	if err != nil {
		return "", &AuthenticationError{Reason: "sign message", Err: err}
	}

	return base64.StdEncoding.EncodeToString(signature), nil
}

// WebSocketPath is the path used for streaming signature generation.
const WebSocketPath = "/trade-api/ws/v2"

// SignWebSocket generates authentication headers for the streaming
// connection handshake.
func (c *Credentials) SignWebSocket() (map[string]string, error) {
	return c.SignRequest("GET", WebSocketPath)
}
