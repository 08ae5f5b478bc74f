package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Klingon-tech/webcash-wallet/internal/log"
	"github.com/Klingon-tech/webcash-wallet/pkg/types"
	"github.com/Klingon-tech/webcash-wallet/pkg/webcash"
)

var errServerDown = errors.New("server down")

type ledgerEntry struct {
	amount types.Amount
	spent  bool
}

// fakeServer is an in-memory Server keyed by public hash.
type fakeServer struct {
	ledger   map[string]*ledgerEntry
	replaces []*webcash.ReplaceRequest
	checks   [][]string
	failNext error
	// override lets a test script the health check response.
	override func(publics []string) map[string]webcash.HealthStatus
}

func newFakeServer() *fakeServer {
	return &fakeServer{ledger: make(map[string]*ledgerEntry)}
}

func (s *fakeServer) mint(wc webcash.SecretWebcash) {
	s.ledger[wc.PublicHash()] = &ledgerEntry{amount: wc.Amount}
}

func (s *fakeServer) Replace(_ context.Context, req *webcash.ReplaceRequest) error {
	s.replaces = append(s.replaces, req)
	if err := s.failNext; err != nil {
		s.failNext = nil
		return err
	}
	if !req.Legalese.Accepted() {
		return errors.New("terms not accepted")
	}
	for _, in := range req.Webcashes {
		wc, err := webcash.DeserializeSecret(in)
		if err != nil {
			return err
		}
		if e, ok := s.ledger[wc.PublicHash()]; ok && e.spent {
			return errors.New("input already spent")
		}
	}
	for _, in := range req.Webcashes {
		wc, _ := webcash.DeserializeSecret(in)
		if e, ok := s.ledger[wc.PublicHash()]; ok {
			e.spent = true
		} else {
			s.ledger[wc.PublicHash()] = &ledgerEntry{amount: wc.Amount, spent: true}
		}
	}
	for _, out := range req.NewWebcashes {
		wc, err := webcash.DeserializeSecret(out)
		if err != nil {
			return err
		}
		s.mint(wc)
	}
	return nil
}

func (s *fakeServer) HealthCheck(_ context.Context, publics []string) (map[string]webcash.HealthStatus, error) {
	s.checks = append(s.checks, append([]string(nil), publics...))
	if err := s.failNext; err != nil {
		s.failNext = nil
		return nil, err
	}
	if s.override != nil {
		return s.override(publics), nil
	}
	results := make(map[string]webcash.HealthStatus, len(publics))
	for _, p := range publics {
		pub, err := webcash.DeserializePublic(p)
		if err != nil {
			return nil, err
		}
		e, ok := s.ledger[pub.Hash]
		if !ok {
			results[p] = webcash.HealthStatus{}
			continue
		}
		spent := e.spent
		var amount *types.Amount
		if !spent {
			a := e.amount
			amount = &a
		}
		results[p] = webcash.HealthStatus{Spent: &spent, Amount: amount}
	}
	return results, nil
}

func newTestWallet(t *testing.T, server Server) *Wallet {
	t.Helper()
	w, err := NewWithMasterSecret(testMaster, server)
	if err != nil {
		t.Fatalf("NewWithMasterSecret: %v", err)
	}
	w.SetLogger(log.Nop())
	w.now = func() time.Time { return time.Unix(1700000000, 0) }
	if err := w.AcceptTerms(); err != nil {
		t.Fatalf("AcceptTerms: %v", err)
	}
	return w
}

// fund inserts tokens of the given amounts through the fake server.
func fund(t *testing.T, w *Wallet, s *fakeServer, amounts ...string) {
	t.Helper()
	for _, a := range amounts {
		wc, err := webcash.NewRandomSecret(types.MustAmount(a))
		if err != nil {
			t.Fatalf("NewRandomSecret: %v", err)
		}
		s.mint(wc)
		if _, err := w.Insert(context.Background(), wc, ""); err != nil {
			t.Fatalf("Insert(%s): %v", a, err)
		}
	}
}

func amounts(ws []webcash.SecretWebcash) []string {
	out := make([]string, len(ws))
	for i, wc := range ws {
		out[i] = wc.Amount.String()
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
