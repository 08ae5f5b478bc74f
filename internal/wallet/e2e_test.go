package wallet_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Klingon-tech/webcash-wallet/internal/apiclient"
	"github.com/Klingon-tech/webcash-wallet/internal/log"
	"github.com/Klingon-tech/webcash-wallet/internal/testserver"
	"github.com/Klingon-tech/webcash-wallet/internal/wallet"
	"github.com/Klingon-tech/webcash-wallet/pkg/types"
	"github.com/Klingon-tech/webcash-wallet/pkg/webcash"
)

const master = "6fc3d1b067646ea749e4001e05c757c491b351424ae998339d6341d7a18e12d4"

func newEnv(t *testing.T) (*wallet.Wallet, *testserver.Server) {
	t.Helper()
	srv := testserver.New(log.Nop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	w, err := wallet.NewWithMasterSecret(master, apiclient.New(ts.URL))
	require.NoError(t, err)
	w.SetLogger(log.Nop())
	require.NoError(t, w.AcceptTerms())
	return w, srv
}

func TestEndToEnd_InsertPayCheck(t *testing.T) {
	w, srv := newEnv(t)
	ctx := context.Background()

	gift, err := webcash.NewRandomSecret(types.MustAmount("100"))
	require.NoError(t, err)
	srv.Mint(gift)

	_, err = w.Insert(ctx, gift, "gift")
	require.NoError(t, err)
	assert.Equal(t, "100", w.Balance().String())

	entry, ok := srv.Lookup(gift.PublicHash())
	require.True(t, ok)
	assert.True(t, entry.Spent, "inserted token must be consumed")

	payment, err := w.Pay(ctx, types.MustAmount("30.25"), "rent")
	require.NoError(t, err)
	assert.Equal(t, "69.75", w.Balance().String())

	paid, err := webcash.DeserializeSecret(payment)
	require.NoError(t, err)
	entry, ok = srv.Lookup(paid.PublicHash())
	require.True(t, ok)
	assert.False(t, entry.Spent)

	require.NoError(t, w.Check(ctx))
	assert.Equal(t, "69.75", w.Balance().String())
	assert.Empty(t, w.Pending())

	records := w.Records()
	require.Len(t, records, 3)
	assert.Equal(t, wallet.RecordInsert, records[0].Type)
	assert.Equal(t, wallet.RecordChange, records[1].Type)
	assert.Equal(t, wallet.RecordPayment, records[2].Type)
}

func TestEndToEnd_ReplaceFailureThenRecover(t *testing.T) {
	w, srv := newEnv(t)
	ctx := context.Background()

	gift := webcash.NewSecret(types.MustAmount("5"), "feedbeef")
	srv.Mint(gift)
	srv.FailNextReplace(http.StatusInternalServerError, "boom")

	_, err := w.Insert(ctx, gift, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, wallet.ErrTransport))
	var apiErr *apiclient.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Len(t, w.Pending(), 1)

	// The server was down, so retry with the original token.
	_, err = w.Insert(ctx, gift, "")
	require.NoError(t, err)
	assert.Equal(t, "5", w.Balance().String())
	assert.Len(t, w.Pending(), 1, "the token staged by the failed call stays pending")
	assert.Equal(t, uint64(2), w.Depth(wallet.ChainReceive))
}

func TestEndToEnd_RecoverFromSeed(t *testing.T) {
	w, srv := newEnv(t)
	ctx := context.Background()

	// A token previously received at RECEIVE/0.
	secret, err := wallet.DeriveSecret(master, wallet.ChainReceive, 0)
	require.NoError(t, err)
	srv.Mint(webcash.NewSecret(types.MustAmount("42"), secret))

	report, err := w.Recover(ctx, wallet.RecoverOptions{})
	require.NoError(t, err)

	confirmed := w.Confirmed()
	require.Len(t, confirmed, 1)
	assert.Equal(t, secret, confirmed[0].Secret)
	assert.Equal(t, "42", confirmed[0].Amount.String())
	assert.Equal(t, uint64(1), w.Depth(wallet.ChainReceive))
	assert.Equal(t, "42", report.Recovered().String())

	// A second wallet from the same seed ends up in the same place.
	restored, err := wallet.NewWithMasterSecret(master, nil)
	require.NoError(t, err)
	restored.SetServer(testServerClient(t, srv))
	_, err = restored.Recover(ctx, wallet.RecoverOptions{})
	require.NoError(t, err)
	assert.Equal(t, w.Balance().String(), restored.Balance().String())
}

func TestEndToEnd_RecoverAfterPayments(t *testing.T) {
	w, srv := newEnv(t)
	ctx := context.Background()

	for _, a := range []string{"3", "4"} {
		wc, err := webcash.NewRandomSecret(types.MustAmount(a))
		require.NoError(t, err)
		srv.Mint(wc)
		_, err = w.Insert(ctx, wc, "")
		require.NoError(t, err)
	}
	_, err := w.Pay(ctx, types.MustAmount("1"), "")
	require.NoError(t, err)

	restored, err := wallet.NewWithMasterSecret(master, testServerClient(t, srv))
	require.NoError(t, err)
	report, err := restored.Recover(ctx, wallet.RecoverOptions{})
	require.NoError(t, err)

	assert.Equal(t, "6", restored.Balance().String())
	assert.Equal(t, w.Depth(wallet.ChainReceive), restored.Depth(wallet.ChainReceive))
	assert.Equal(t, w.Depth(wallet.ChainChange), restored.Depth(wallet.ChainChange))
	assert.Equal(t, w.Depth(wallet.ChainPay), restored.Depth(wallet.ChainPay))
	assert.Equal(t, "1", report.Chains[1].Unswept.String())
}

func testServerClient(t *testing.T, srv *testserver.Server) *apiclient.Client {
	t.Helper()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return apiclient.New(ts.URL)
}
