package wallet

import (
	"context"
	"sort"

	"github.com/Klingon-tech/webcash-wallet/pkg/types"
	"github.com/Klingon-tech/webcash-wallet/pkg/webcash"
)

// HealthCheckBatchSize is the number of public tokens sent per health check.
const HealthCheckBatchSize = 25

// Check asks the server about every confirmed token. Unspent tokens get
// their amount corrected to the server's value; spent or unknown tokens are
// moved to the unconfirmed list for review. Duplicate confirmed entries are
// collapsed first.
func (w *Wallet) Check(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.check(ctx); err != nil {
		return err
	}
	return w.save()
}

func (w *Wallet) check(ctx context.Context) error {
	if w.server == nil {
		return ErrNoServer
	}

	index, err := w.dedupe()
	if err != nil {
		return err
	}

	batch := make([]string, 0, HealthCheckBatchSize)
	snapshot := append([]webcash.SecretWebcash(nil), w.confirmed...)
	for i, wc := range snapshot {
		batch = append(batch, wc.ToPublic().String())
		if len(batch) < HealthCheckBatchSize && i < len(snapshot)-1 {
			continue
		}

		results, err := w.server.HealthCheck(ctx, batch)
		if err != nil {
			w.logger.Error().Err(err).Int("batch", len(batch)).
				Msg("Could not successfully call the health check API")
			return &TransportError{Op: "health_check", Err: err}
		}
		w.reconcile(results, index)
		batch = batch[:0]
	}
	return nil
}

// dedupe collapses confirmed entries that share a public hash, keeping the
// first occurrence and moving the others to the unconfirmed list. It
// returns an index from public hash to the kept token.
func (w *Wallet) dedupe() (map[string]webcash.SecretWebcash, error) {
	index := make(map[string]webcash.SecretWebcash, len(w.confirmed))
	kept := make([]webcash.SecretWebcash, 0, len(w.confirmed))
	duplicates := 0

	for _, wc := range w.confirmed {
		hash := wc.PublicHash()
		if _, seen := index[hash]; seen {
			w.pending = append(w.pending, wc.String())
			duplicates++
			continue
		}
		index[hash] = wc
		kept = append(kept, wc)
	}

	if duplicates == 0 {
		return index, nil
	}
	w.confirmed = kept
	w.logger.Warn().Int("count", duplicates).
		Msg("Duplicate webcash detected in wallet, moving it to unconfirmed")
	return index, w.save()
}

// reconcile applies health check results to the confirmed set. index maps
// public hashes to the wallet's tokens. Results are applied in key order.
func (w *Wallet) reconcile(results map[string]webcash.HealthStatus, index map[string]webcash.SecretWebcash) {
	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		status := results[key]

		pub, err := webcash.DeserializePublic(key)
		if err != nil {
			w.logger.Warn().Err(err).Str("token", key).Msg("Ignoring unparsable health check result")
			continue
		}
		stored, ok := index[pub.Hash]
		if !ok {
			w.logger.Warn().Str("hash", pub.Hash).Msg("Ignoring health check result for unknown webcash")
			continue
		}

		pos := w.indexOfHash(pub.Hash)
		if pos < 0 {
			continue
		}

		if status.Unspent() {
			if status.Amount != nil && !status.Amount.Equal(w.confirmed[pos].Amount) {
				w.logger.Warn().
					Str("stored", w.confirmed[pos].Amount.String()).
					Str("server", status.Amount.String()).
					Msg("Wallet was mistaken about amount stored by a certain webcash. Updating")
				w.confirmed[pos] = w.confirmed[pos].WithAmount(*status.Amount)
			}
			continue
		}

		// Spent, or unknown to the server.
		w.logger.Warn().Str("hash", pub.Hash).Bool("known", status.Known()).
			Str("server_amount", types.FormatAmount(status.Amount)).
			Msg("Removing webcash from wallet")
		w.confirmed = append(w.confirmed[:pos], w.confirmed[pos+1:]...)
		w.pending = append(w.pending, stored.String())
	}
}
