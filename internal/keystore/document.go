package keystore

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Klingon-tech/webcash-wallet/internal/wallet"
	"github.com/Klingon-tech/webcash-wallet/pkg/webcash"
)

// ErrPasswordRequired is returned when loading an encrypted wallet without
// a password.
var ErrPasswordRequired = errors.New("wallet is encrypted, password required")

// document is the stored wallet. With encryption enabled the master secret
// is replaced by encrypted_master_secret; everything else stays readable.
type document struct {
	Version               string            `json:"version"`
	Legalese              webcash.Legalese  `json:"legalese"`
	Webcash               []string          `json:"webcash"`
	Unconfirmed           []string          `json:"unconfirmed"`
	Log                   []wallet.Record   `json:"log"`
	MasterSecret          string            `json:"master_secret,omitempty"`
	EncryptedMasterSecret []byte            `json:"encrypted_master_secret,omitempty"`
	WalletDepths          map[string]uint64 `json:"walletdepths"`
}

// codec turns wallet contents into stored bytes and back. A nil password
// stores the master secret in the clear.
type codec struct {
	password []byte
	params   EncryptionParams
}

func (c *codec) encode(contents *wallet.Contents) ([]byte, error) {
	doc := document{
		Version:      contents.Version,
		Legalese:     contents.Legalese,
		Webcash:      contents.Webcash,
		Unconfirmed:  contents.Unconfirmed,
		Log:          contents.Log,
		MasterSecret: contents.MasterSecret,
		WalletDepths: contents.WalletDepths,
	}
	if doc.Webcash == nil {
		doc.Webcash = []string{}
	}
	if doc.Unconfirmed == nil {
		doc.Unconfirmed = []string{}
	}
	if doc.Log == nil {
		doc.Log = []wallet.Record{}
	}

	if c.password != nil {
		sealed, err := Seal([]byte(contents.MasterSecret), c.password, c.params)
		if err != nil {
			return nil, fmt.Errorf("encrypt master secret: %w", err)
		}
		doc.MasterSecret = ""
		doc.EncryptedMasterSecret = sealed
	}

	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal wallet: %w", err)
	}
	return data, nil
}

func (c *codec) decode(data []byte) (*wallet.Contents, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse wallet: %w", err)
	}
	if doc.Version != "" && doc.Version != wallet.Version {
		return nil, fmt.Errorf("unsupported wallet version: %s", doc.Version)
	}

	secret := doc.MasterSecret
	if len(doc.EncryptedMasterSecret) > 0 {
		if c.password == nil {
			return nil, ErrPasswordRequired
		}
		plain, err := Unseal(doc.EncryptedMasterSecret, c.password)
		if err != nil {
			return nil, fmt.Errorf("decrypt master secret: %w", err)
		}
		secret = string(plain)
	}

	return &wallet.Contents{
		Version:      doc.Version,
		Legalese:     doc.Legalese,
		Webcash:      doc.Webcash,
		Unconfirmed:  doc.Unconfirmed,
		Log:          doc.Log,
		MasterSecret: secret,
		WalletDepths: doc.WalletDepths,
	}, nil
}
