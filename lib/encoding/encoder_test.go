package encoding

import (
	"errors"
	"testing"
)

type testState struct {
	Names   []string `msgpack:"n"`
	Digests []string `msgpack:"d"`
}

func TestNewEncoder(t *testing.T) {
	// Should work with any key length (derives 32-byte key)
	_, err := NewEncoder([]byte("short"))
	if err != nil {
		t.Fatalf("NewEncoder with short key failed: %v", err)
	}

	_, err = NewEncoder([]byte("this-is-a-32-byte-key-for-aes!!!"))
	if err != nil {
		t.Fatalf("NewEncoder with 32-byte key failed: %v", err)
	}
}

func TestSignedRoundTrip(t *testing.T) {
	enc, err := NewEncoder([]byte("test-key"))
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}

	original := testState{
		Names:   []string{"Root", "Main"},
		Digests: []string{"aaaa", "bbbb"},
	}

	encoded, err := enc.Encode(original, false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(encoded) == 0 {
		t.Fatal("Encoded string is empty")
	}

	var decoded testState
	if err := enc.Decode(encoded, false, &decoded); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if len(decoded.Names) != 2 || decoded.Names[0] != "Root" || decoded.Names[1] != "Main" {
		t.Errorf("Names mismatch: got %v, want %v", decoded.Names, original.Names)
	}
	if len(decoded.Digests) != 2 || decoded.Digests[0] != "aaaa" {
		t.Errorf("Digests mismatch: got %v, want %v", decoded.Digests, original.Digests)
	}
}

func TestEncryptedRoundTrip(t *testing.T) {
	enc, err := NewEncoder([]byte("test-key"))
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}

	original := testState{Names: []string{"Shell"}, Digests: []string{"cccc"}}

	encoded, err := enc.Encode(original, true)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var decoded testState
	if err := enc.Decode(encoded, true, &decoded); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if len(decoded.Names) != 1 || decoded.Names[0] != "Shell" {
		t.Errorf("Names mismatch: got %v, want %v", decoded.Names, original.Names)
	}
}

func TestSignatureVerificationFailure(t *testing.T) {
	enc, err := NewEncoder([]byte("test-key"))
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}

	encoded, err := enc.Encode(testState{Names: []string{"Root"}}, false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	// Tamper with the encoded string
	tampered := encoded[:len(encoded)-2] + "XX"

	var decoded testState
	err = enc.Decode(tampered, false, &decoded)
	if err == nil {
		t.Error("Expected error for tampered signature, got nil")
	}
	if !errors.Is(err, ErrSignatureInvalid) && !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Expected signature/format error, got: %v", err)
	}
}

func TestDecryptionFailure(t *testing.T) {
	enc, err := NewEncoder([]byte("test-key"))
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}

	encoded, err := enc.Encode(testState{Names: []string{"Root"}}, true)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	tampered := encoded[:len(encoded)-2] + "XX"

	var decoded testState
	err = enc.Decode(tampered, true, &decoded)
	if err == nil {
		t.Error("Expected error for tampered ciphertext, got nil")
	}
}

func TestInvalidFormat(t *testing.T) {
	enc, err := NewEncoder([]byte("test-key"))
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}

	// Missing signature separator
	var decoded testState
	err = enc.Decode("invalidbase64withoutseparator", false, &decoded)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Expected ErrInvalidFormat, got: %v", err)
	}
}

func TestDifferentKeysCannotDecode(t *testing.T) {
	enc1, _ := NewEncoder([]byte("key-one"))
	enc2, _ := NewEncoder([]byte("key-two"))

	encoded, err := enc1.Encode(testState{Names: []string{"Root"}}, false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var decoded testState
	err = enc2.Decode(encoded, false, &decoded)
	if err == nil {
		t.Error("Expected error when decoding with different key")
	}
}

func TestEmptyValue(t *testing.T) {
	enc, err := NewEncoder([]byte("test-key"))
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}

	encoded, err := enc.Encode(testState{}, false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var decoded testState
	if err := enc.Decode(encoded, false, &decoded); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(decoded.Names) != 0 || len(decoded.Digests) != 0 {
		t.Error("Empty value not decoded correctly")
	}
}
