package wallet

import (
	"strconv"
	"time"

	"github.com/Klingon-tech/webcash-wallet/pkg/types"
)

// Record types.
const (
	RecordInsert  = "insert"
	RecordChange  = "change"
	RecordPayment = "payment"
)

// Record is one entry of the wallet operation log.
type Record struct {
	Type       string       `json:"type"`
	Amount     types.Amount `json:"amount"`
	Webcash    string       `json:"webcash"`
	NewWebcash string       `json:"new_webcash,omitempty"`
	Memo       string       `json:"memo,omitempty"`
	Timestamp  string       `json:"timestamp"`
}

// Time parses the record timestamp (unix seconds).
func (r Record) Time() (time.Time, error) {
	secs, err := strconv.ParseInt(r.Timestamp, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(secs, 0), nil
}

func (w *Wallet) appendRecord(r Record) {
	r.Timestamp = strconv.FormatInt(w.now().Unix(), 10)
	w.log = append(w.log, r)
}
