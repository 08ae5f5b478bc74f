package wallet

import (
	"encoding/hex"
	"testing"
)

func TestGenerateMasterSecret(t *testing.T) {
	secret, err := GenerateMasterSecret()
	if err != nil {
		t.Fatalf("GenerateMasterSecret() error: %v", err)
	}
	b, err := hex.DecodeString(secret)
	if err != nil {
		t.Fatalf("secret is not hex: %v", err)
	}
	if len(b) != MasterSecretSize {
		t.Errorf("secret length = %d, want %d", len(b), MasterSecretSize)
	}
}

func TestGenerateMasterSecret_Unique(t *testing.T) {
	s1, err := GenerateMasterSecret()
	if err != nil {
		t.Fatalf("GenerateMasterSecret() error: %v", err)
	}
	s2, err := GenerateMasterSecret()
	if err != nil {
		t.Fatalf("GenerateMasterSecret() error: %v", err)
	}
	if s1 == s2 {
		t.Error("two generated secrets should not be identical")
	}
}
