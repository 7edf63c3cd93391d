// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"strings"
	"sync"
	"testing"
)

var (
	keyOnce sync.Once
	keyPEM  string
	keyErr  error
)

// PrivateKeyPEM returns a PKCS#8 RSA key generated once per test binary.
func PrivateKeyPEM(t *testing.T) string {
	t.Helper()
	keyOnce.Do(func() {
		var k *rsa.PrivateKey
		k, keyErr = rsa.GenerateKey(rand.Reader, 2048)
		if keyErr != nil {
			return
		}
		var der []byte
		der, keyErr = x509.MarshalPKCS8PrivateKey(k)
		if keyErr != nil {
			return
		}
		keyPEM = string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
	})
	if keyErr != nil {
		t.Fatalf("generate test key: %v", keyErr)
	}
	return keyPEM
}

// CredentialsJSON returns service-account JSON the way it usually sits in a
// .env file: the key's line breaks written as literal \n sequences.
func CredentialsJSON(t *testing.T) string {
	t.Helper()
	escaped := strings.ReplaceAll(PrivateKeyPEM(t), "\n", `\n`)
	b, err := json.Marshal(map[string]string{
		"type":         "service_account",
		"client_email": "tasklog@example.iam.gserviceaccount.com",
		"private_key":  escaped,
	})
	if err != nil {
		t.Fatalf("marshal credentials: %v", err)
	}
	return string(b)
}
