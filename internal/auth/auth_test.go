package auth

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate test key: %v", err)
	}
	return key
}

func TestCredentials_SignRequest(t *testing.T) {
	creds := &Credentials{
		KeyID:      "test-key-id",
		PrivateKey: testKey(t),
	}

	headers, err := creds.SignRequest("GET", "/trade-api/v2/markets")
	if err != nil {
		t.Fatalf("SignRequest failed: %v", err)
	}

	if headers[HeaderKey] != "test-key-id" {
		t.Errorf("%s = %q, want %q", HeaderKey, headers[HeaderKey], "test-key-id")
	}
	if headers[HeaderTimestamp] == "" {
		t.Errorf("%s is empty", HeaderTimestamp)
	}
	if headers[HeaderSignature] == "" {
		t.Errorf("%s is empty", HeaderSignature)
	}

	// The signature must verify against timestamp+method+path with the
	// public half of the key.
	ts, err := strconv.ParseInt(headers[HeaderTimestamp], 10, 64)
	if err != nil {
		t.Fatalf("timestamp header not numeric: %v", err)
	}

	sig, err := base64.StdEncoding.DecodeString(headers[HeaderSignature])
	if err != nil {
		t.Fatalf("signature not valid base64: %v", err)
	}

	message := fmt.Sprintf("%d%s%s", ts, "GET", "/trade-api/v2/markets")
	hashed := sha256.Sum256([]byte(message))
	if err := rsa.VerifyPKCS1v15(&creds.PrivateKey.PublicKey, crypto.SHA256, hashed[:], sig); err != nil {
		t.Errorf("signature does not verify: %v", err)
	}
}

func TestCredentials_SignWebSocket(t *testing.T) {
	creds := &Credentials{
		KeyID:      "ws-key",
		PrivateKey: testKey(t),
	}

	headers, err := creds.SignWebSocket()
	if err != nil {
		t.Fatalf("SignWebSocket failed: %v", err)
	}

	if headers[HeaderKey] != "ws-key" {
		t.Errorf("%s = %q, want %q", HeaderKey, headers[HeaderKey], "ws-key")
	}
	if headers[HeaderSignature] == "" {
		t.Errorf("%s is empty", HeaderSignature)
	}
}

func TestLoadPrivateKey_PKCS8(t *testing.T) {
	privateKey := testKey(t)

	pkcs8Bytes, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		t.Fatalf("failed to marshal PKCS#8: %v", err)
	}
	pemBlock := &pem.Block{Type: "PRIVATE KEY", Bytes: pkcs8Bytes}

	tmpFile := filepath.Join(t.TempDir(), "test-key.pem")
	if err := os.WriteFile(tmpFile, pem.EncodeToMemory(pemBlock), 0600); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	loadedKey, err := LoadPrivateKey(tmpFile)
	if err != nil {
		t.Fatalf("LoadPrivateKey failed: %v", err)
	}

	if loadedKey.N.Cmp(privateKey.N) != 0 {
		t.Error("loaded key does not match original")
	}
}

func TestLoadPrivateKey_PKCS1(t *testing.T) {
	privateKey := testKey(t)

	pkcs1Bytes := x509.MarshalPKCS1PrivateKey(privateKey)
	pemBlock := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: pkcs1Bytes}

	tmpFile := filepath.Join(t.TempDir(), "test-key.pem")
	if err := os.WriteFile(tmpFile, pem.EncodeToMemory(pemBlock), 0600); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	loadedKey, err := LoadPrivateKey(tmpFile)
	if err != nil {
		t.Fatalf("LoadPrivateKey failed: %v", err)
	}

	if loadedKey.N.Cmp(privateKey.N) != 0 {
		t.Error("loaded key does not match original")
	}
}

func TestLoadPrivateKey_FileNotFound(t *testing.T) {
	_, err := LoadPrivateKey("/nonexistent/path/to/key.pem")
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}

	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Errorf("error is %T, want *AuthenticationError", err)
	}
}

func TestLoadPrivateKey_InvalidPEM(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "invalid.pem")
	if err := os.WriteFile(tmpFile, []byte("not a pem file"), 0600); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	_, err := LoadPrivateKey(tmpFile)
	if err == nil {
		t.Fatal("expected error for invalid PEM")
	}

	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Errorf("error is %T, want *AuthenticationError", err)
	}
}

func TestLoadCredentialsBase64(t *testing.T) {
	privateKey := testKey(t)

	pkcs8Bytes, _ := x509.MarshalPKCS8PrivateKey(privateKey)
	pemData := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: pkcs8Bytes})
	encoded := base64.StdEncoding.EncodeToString(pemData)

	creds, err := LoadCredentialsBase64("env-key-id", encoded)
	if err != nil {
		t.Fatalf("LoadCredentialsBase64 failed: %v", err)
	}

	if creds.KeyID != "env-key-id" {
		t.Errorf("KeyID = %q, want %q", creds.KeyID, "env-key-id")
	}
	if creds.PrivateKey.N.Cmp(privateKey.N) != 0 {
		t.Error("loaded key does not match original")
	}
}

func TestLoadCredentialsBase64_BadEncoding(t *testing.T) {
	_, err := LoadCredentialsBase64("key-id", "%%% not base64 %%%")
	if err == nil {
		t.Fatal("expected error for invalid base64")
	}
}

func TestLoadCredentials_MissingKeyID(t *testing.T) {
	_, err := LoadCredentials("", "/some/path")
	if err == nil {
		t.Fatal("expected error for missing key ID")
	}
}

func TestLoadCredentials_MissingPath(t *testing.T) {
	_, err := LoadCredentials("key-id", "")
	if err == nil {
		t.Fatal("expected error for missing path")
	}
}
