package vault

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func testKey(b byte) string {
	return base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{b}, 32))
}

func TestNew_KeyValidation(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Errorf("expected error for empty key")
	}
	if _, err := New("not-base64!!"); err == nil {
		t.Errorf("expected error for invalid base64")
	}
	if _, err := New(base64.StdEncoding.EncodeToString([]byte("short"))); err == nil {
		t.Errorf("expected error for wrong key length")
	}
	if _, err := New(testKey(1)); err != nil {
		t.Errorf("unexpected error for valid key: %v", err)
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	v, err := New(testKey(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	inputs := []string{
		"access-sandbox-1234",
		"with:the:delimiter:inside",
		"unicode £€ and spaces",
		strings.Repeat("x", 4096),
	}

	for _, in := range inputs {
		env, err := v.Encrypt(in)
		if err != nil {
			t.Fatalf("Encrypt(%q): %v", in, err)
		}
		if got := strings.Count(env, ":"); got != 2 {
			t.Fatalf("envelope has %d colons, want 2: %q", got, env)
		}

		out, err := v.Decrypt(env)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if out != in {
			t.Errorf("round trip mismatch: got %q want %q", out, in)
		}
	}
}

func TestEncrypt_FreshNoncePerCall(t *testing.T) {
	v, _ := New(testKey(1))

	a, _ := v.Encrypt("same input")
	b, _ := v.Encrypt("same input")
	if a == b {
		t.Fatalf("two encryptions of the same plaintext produced identical envelopes")
	}
	if strings.Split(a, ":")[0] == strings.Split(b, ":")[0] {
		t.Errorf("nonce was reused across calls")
	}
}

func flipHexChar(s string) string {
	b := []byte(s)
	if b[0] == '0' {
		b[0] = '1'
	} else {
		b[0] = '0'
	}
	return string(b)
}

func TestDecrypt_FailsClosedOnTamper(t *testing.T) {
	v, _ := New(testKey(1))
	env, err := v.Encrypt("secret token")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	parts := strings.Split(env, ":")

	tamperedCT := parts[0] + ":" + parts[1] + ":" + flipHexChar(parts[2])
	if _, err := v.Decrypt(tamperedCT); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("tampered ciphertext: error = %v, want ErrDecryptionFailed", err)
	}

	tamperedTag := parts[0] + ":" + flipHexChar(parts[1]) + ":" + parts[2]
	if _, err := v.Decrypt(tamperedTag); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("tampered tag: error = %v, want ErrDecryptionFailed", err)
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	v1, _ := New(testKey(1))
	v2, _ := New(testKey(2))

	env, _ := v1.Encrypt("secret token")
	if _, err := v2.Decrypt(env); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("wrong key: error = %v, want ErrDecryptionFailed", err)
	}
}

func TestDecrypt_MalformedEnvelope(t *testing.T) {
	v, _ := New(testKey(1))

	cases := []string{
		"",
		"onlyonefield",
		"two:fields",
		"a:b:c:d",
		"zz:zz:zz",            // not hex
		"abcd:abcd:abcd",      // wrong iv / tag sizes
	}
	for _, c := range cases {
		if _, err := v.Decrypt(c); !errors.Is(err, ErrMalformedEnvelope) {
			t.Errorf("Decrypt(%q): error = %v, want ErrMalformedEnvelope", c, err)
		}
	}
}
