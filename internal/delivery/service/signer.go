package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strconv"

	"golang.org/x/crypto/hkdf"
)

// signingKeyInfo namespaces derived keys; the version suffix allows rotating the scheme.
const signingKeyInfo = "coursehook-webhook-signing-v1:"

// Signer derives per-course webhook signing keys from a master secret and signs payloads.
type Signer struct {
	master []byte
}

// CourseKey derives the 32-byte signing key of a course with HKDF-SHA256.
func (s *Signer) CourseKey(courseID string) ([]byte, error) {
	reader := hkdf.New(sha256.New, s.master, nil, []byte(signingKeyInfo+courseID))

	key := make([]byte, 32)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Sign returns the hex HMAC-SHA256 of "<timestamp>.<body>" under the course key.
func (s *Signer) Sign(courseID string, timestamp int64, body []byte) (string, error) {
	key, err := s.CourseKey(courseID)
	if err != nil {
		return "", err
	}
	return ComputeSignature(key, timestamp, body), nil
}

// ComputeSignature returns the hex HMAC-SHA256 of "<timestamp>.<body>" under key.
func ComputeSignature(key []byte, timestamp int64, body []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether signature matches the payload in constant time.
func VerifySignature(key []byte, timestamp int64, body []byte, signature string) bool {
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), expected)
}

// NewSigner creates a Signer for the given master secret. It returns nil when the
// secret is empty, which disables signing.
func NewSigner(secret string) *Signer {
	if secret == "" {
		return nil
	}
	return &Signer{master: []byte(secret)}
}
