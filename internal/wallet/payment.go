package wallet

import (
	"context"

	"github.com/Klingon-tech/webcash-wallet/pkg/types"
	"github.com/Klingon-tech/webcash-wallet/pkg/webcash"
)

// InsertString parses a serialized token and inserts it.
func (w *Wallet) InsertString(ctx context.Context, token, memo string) (string, error) {
	wc, err := webcash.Deserialize(token)
	if err != nil {
		return "", err
	}
	return w.Insert(ctx, wc, memo)
}

// Insert takes custody of a received secret token by replacing it with a
// fresh secret from the RECEIVE chain. The new token is staged as
// unconfirmed before the server call, so a failed call loses nothing.
// It returns the serialized new token.
func (w *Wallet) Insert(ctx context.Context, token webcash.Webcash, memo string) (string, error) {
	received, ok := token.(webcash.SecretWebcash)
	if !ok {
		return "", webcash.ErrNotSecret
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.legalese.Accepted() {
		return "", ErrTermsNotAccepted
	}
	if w.server == nil {
		return "", ErrNoServer
	}

	secret, err := w.nextSecret(ChainReceive)
	if err != nil {
		return "", err
	}
	fresh := webcash.NewSecret(received.Amount, secret)

	w.pending = append(w.pending, fresh.String())
	if err := w.save(); err != nil {
		return "", err
	}

	if err := w.replace(ctx, []webcash.SecretWebcash{received}, []webcash.SecretWebcash{fresh}); err != nil {
		return "", err
	}

	w.removeConfirmed(hashSet(received))
	w.removePending(hashSet(fresh))
	w.confirmed = append(w.confirmed, fresh)
	w.appendRecord(Record{
		Type:       RecordInsert,
		Amount:     fresh.Amount,
		Webcash:    received.String(),
		NewWebcash: fresh.String(),
		Memo:       memo,
	})

	w.logger.Info().
		Str("amount", fresh.Amount.String()).
		Uint64("depth", w.depths[ChainReceive]-1).
		Msg("Webcash inserted")

	return fresh.String(), w.save()
}

// Pay creates a token worth amount for a third party. Inputs are chosen by
// SelectCoins; change, if any, goes to a fresh CHANGE secret. It returns
// the serialized payment token.
func (w *Wallet) Pay(ctx context.Context, amount types.Amount, memo string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.legalese.Accepted() {
		return "", ErrTermsNotAccepted
	}
	if !amount.IsPositive() {
		return "", ErrInvalidAmount
	}
	if w.server == nil {
		return "", ErrNoServer
	}

	sel, err := SelectCoins(w.confirmed, amount)
	if err != nil {
		return "", err
	}

	var outputs []webcash.SecretWebcash
	var change *webcash.SecretWebcash
	if sel.Change.IsPositive() {
		secret, err := w.nextSecret(ChainChange)
		if err != nil {
			return "", err
		}
		c := webcash.NewSecret(sel.Change, secret)
		change = &c
		outputs = append(outputs, c)
	}
	secret, err := w.nextSecret(ChainPay)
	if err != nil {
		return "", err
	}
	payment := webcash.NewSecret(amount, secret)
	outputs = append(outputs, payment)

	w.pending = append(w.pending, payment.String())
	if change != nil {
		w.pending = append(w.pending, change.String())
	}
	if err := w.save(); err != nil {
		return "", err
	}

	if err := w.replace(ctx, sel.Inputs, outputs); err != nil {
		return "", err
	}

	spent := make(map[string]struct{}, len(sel.Inputs))
	for _, in := range sel.Inputs {
		spent[in.PublicHash()] = struct{}{}
	}
	w.removeConfirmed(spent)
	w.removePending(hashSet(payment))
	if change != nil {
		w.removePending(hashSet(*change))
		w.confirmed = append(w.confirmed, *change)
		w.appendRecord(Record{
			Type:    RecordChange,
			Amount:  change.Amount,
			Webcash: change.String(),
		})
	}
	w.appendRecord(Record{
		Type:    RecordPayment,
		Amount:  payment.Amount,
		Webcash: payment.String(),
		Memo:    memo,
	})

	w.logger.Info().
		Str("amount", amount.String()).
		Int("inputs", len(sel.Inputs)).
		Str("change", sel.Change.String()).
		Msg("Payment created")

	return payment.String(), w.save()
}

// replace asks the server to swap inputs for outputs.
func (w *Wallet) replace(ctx context.Context, inputs, outputs []webcash.SecretWebcash) error {
	req := &webcash.ReplaceRequest{
		Webcashes:    make([]string, len(inputs)),
		NewWebcashes: make([]string, len(outputs)),
		Legalese:     w.legalese,
	}
	for i, in := range inputs {
		req.Webcashes[i] = in.String()
	}
	for i, out := range outputs {
		req.NewWebcashes[i] = out.String()
	}

	if err := w.server.Replace(ctx, req); err != nil {
		w.logger.Error().Err(err).
			Int("inputs", len(inputs)).
			Int("outputs", len(outputs)).
			Msg("Could not successfully call the replace API")
		return &TransportError{Op: "replace", Err: err}
	}
	return nil
}
