package keystore

import (
	"bytes"
	"errors"
	"testing"
)

// fastParams returns low-cost Argon2 params for fast tests.
func fastParams() EncryptionParams {
	return EncryptionParams{
		Memory:      64,
		Iterations:  1,
		Parallelism: 1,
	}
}

func TestSealUnseal_Roundtrip(t *testing.T) {
	secret := []byte("6fc3d1b067646ea749e4001e05c757c491b351424ae998339d6341d7a18e12d4")
	password := []byte("correct horse")

	sealed, err := Seal(secret, password, fastParams())
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}
	if bytes.Contains(sealed, secret) {
		t.Fatal("sealed output contains the plaintext")
	}

	opened, err := Unseal(sealed, password)
	if err != nil {
		t.Fatalf("Unseal() error: %v", err)
	}
	if !bytes.Equal(opened, secret) {
		t.Errorf("Unseal() = %q, want %q", opened, secret)
	}
}

func TestSealUnseal_Empty(t *testing.T) {
	sealed, err := Seal(nil, []byte("pw"), fastParams())
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}
	opened, err := Unseal(sealed, []byte("pw"))
	if err != nil {
		t.Fatalf("Unseal() error: %v", err)
	}
	if len(opened) != 0 {
		t.Errorf("Unseal() = %d bytes, want 0", len(opened))
	}
}

func TestUnseal_WrongPassword(t *testing.T) {
	sealed, err := Seal([]byte("data"), []byte("right"), fastParams())
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}
	if _, err := Unseal(sealed, []byte("wrong")); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("Unseal() error = %v, want ErrWrongPassword", err)
	}
}

func TestUnseal_Tampered(t *testing.T) {
	sealed, err := Seal([]byte("data"), []byte("pw"), fastParams())
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}

	// Ciphertext byte.
	c := append([]byte{}, sealed...)
	c[len(c)-1] ^= 0xFF
	if _, err := Unseal(c, []byte("pw")); err == nil {
		t.Error("Unseal() should fail on corrupted ciphertext")
	}

	// Parallelism byte in the authenticated header.
	h := append([]byte{}, sealed...)
	h[SaltSize+8] = 2
	if _, err := Unseal(h, []byte("pw")); err == nil {
		t.Error("Unseal() should fail on modified parameters")
	}
}

func TestUnseal_Truncated(t *testing.T) {
	if _, err := Unseal(make([]byte, headerSize), []byte("pw")); err == nil {
		t.Error("Unseal() should fail on truncated data")
	}
}

func TestSeal_RandomizedOutput(t *testing.T) {
	a, _ := Seal([]byte("same"), []byte("pw"), fastParams())
	b, _ := Seal([]byte("same"), []byte("pw"), fastParams())
	if bytes.Equal(a, b) {
		t.Error("two seals of the same data should differ")
	}
}

func TestSeal_InvalidParams(t *testing.T) {
	if _, err := Seal([]byte("x"), []byte("pw"), EncryptionParams{}); err == nil {
		t.Error("Seal() should reject zero parameters")
	}
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	if p.Memory != 64*1024 || p.Iterations != 3 || p.Parallelism != 4 {
		t.Errorf("DefaultParams() = %+v", p)
	}
}
