package wallet

import (
	"strings"
	"testing"
)

const abandonArt = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon art"

func TestMnemonicFromMasterSecret(t *testing.T) {
	mnemonic, err := MnemonicFromMasterSecret(strings.Repeat("00", 32))
	if err != nil {
		t.Fatalf("MnemonicFromMasterSecret() error: %v", err)
	}
	if mnemonic != abandonArt {
		t.Errorf("mnemonic = %q, want %q", mnemonic, abandonArt)
	}
}

func TestMnemonic_RoundTrip(t *testing.T) {
	secret, err := GenerateMasterSecret()
	if err != nil {
		t.Fatalf("GenerateMasterSecret() error: %v", err)
	}

	mnemonic, err := MnemonicFromMasterSecret(secret)
	if err != nil {
		t.Fatalf("MnemonicFromMasterSecret() error: %v", err)
	}
	if words := strings.Fields(mnemonic); len(words) != MnemonicWords {
		t.Errorf("word count = %d, want %d", len(words), MnemonicWords)
	}

	restored, err := MasterSecretFromMnemonic(mnemonic)
	if err != nil {
		t.Fatalf("MasterSecretFromMnemonic() error: %v", err)
	}
	if restored != secret {
		t.Errorf("restored = %s, want %s", restored, secret)
	}
}

func TestMasterSecretFromMnemonic_Normalizes(t *testing.T) {
	got, err := MasterSecretFromMnemonic("  " + strings.ToUpper(abandonArt) + "\n")
	if err != nil {
		t.Fatalf("MasterSecretFromMnemonic() error: %v", err)
	}
	if got != strings.Repeat("00", 32) {
		t.Errorf("secret = %s, want all zeros", got)
	}
}

func TestMasterSecretFromMnemonic_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		mnemonic string
	}{
		{"empty", ""},
		{"12 words", "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"},
		{"wrong checksum", strings.Repeat("abandon ", 24)},
		{"random words", "not a valid mnemonic phrase at all"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := MasterSecretFromMnemonic(tt.mnemonic); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestMnemonicFromMasterSecret_BadInput(t *testing.T) {
	if _, err := MnemonicFromMasterSecret("zz"); err == nil {
		t.Error("expected error for non-hex secret")
	}
	if _, err := MnemonicFromMasterSecret(strings.Repeat("ab", 33)); err == nil {
		t.Error("expected error for oversized secret")
	}
}

func TestMnemonic_ShortMasterSecret(t *testing.T) {
	// 16-byte secrets as written by older wallets.
	const short = "0123456789abcdef0123456789abcdef"

	mnemonic, err := MnemonicFromMasterSecret(short)
	if err != nil {
		t.Fatalf("MnemonicFromMasterSecret() error: %v", err)
	}
	restored, err := MasterSecretFromMnemonic(mnemonic)
	if err != nil {
		t.Fatalf("MasterSecretFromMnemonic() error: %v", err)
	}
	if want := strings.Repeat("00", 16) + short; restored != want {
		t.Errorf("restored = %s, want %s", restored, want)
	}

	for _, chain := range []ChainCode{ChainReceive, ChainPay, ChainChange, ChainMining} {
		for depth := uint64(0); depth < 3; depth++ {
			want, err := DeriveSecret(short, chain, depth)
			if err != nil {
				t.Fatalf("DeriveSecret(short) error: %v", err)
			}
			got, err := DeriveSecret(restored, chain, depth)
			if err != nil {
				t.Fatalf("DeriveSecret(restored) error: %v", err)
			}
			if got != want {
				t.Errorf("%s/%d: restored derives %s, want %s", chain, depth, got, want)
			}
		}
	}
}

func TestValidateMnemonic(t *testing.T) {
	tests := []struct {
		name     string
		mnemonic string
		valid    bool
	}{
		{"valid 24-word", abandonArt, true},
		{"valid 12-word", "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about", true},
		{"empty string", "", false},
		{"single word", "abandon", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateMnemonic(tt.mnemonic); got != tt.valid {
				t.Errorf("ValidateMnemonic() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestWallet_MnemonicShortMasterSecret(t *testing.T) {
	w, err := NewWithMasterSecret("0123456789abcdef0123456789abcdef", nil)
	if err != nil {
		t.Fatalf("NewWithMasterSecret() error: %v", err)
	}
	mnemonic, err := w.Mnemonic()
	if err != nil {
		t.Fatalf("Mnemonic() error: %v", err)
	}
	if words := strings.Fields(mnemonic); len(words) != MnemonicWords {
		t.Errorf("word count = %d, want %d", len(words), MnemonicWords)
	}
}
