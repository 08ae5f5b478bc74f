package wallet

import (
	"context"
	"sort"

	"github.com/Klingon-tech/webcash-wallet/pkg/types"
	"github.com/Klingon-tech/webcash-wallet/pkg/webcash"
)

// DefaultGapLimit is the number of consecutive unused depths scanned before
// a chain is considered exhausted.
const DefaultGapLimit = 20

// RecoverOptions controls a recovery scan.
type RecoverOptions struct {
	// GapLimit is the scan window per round. Zero means DefaultGapLimit.
	GapLimit uint64
	// SweepPayments adds unspent PAY-chain tokens back to the wallet. They
	// are normally only reported, since they were handed to someone else.
	SweepPayments bool
}

// ChainReport summarizes the scan of one chain.
type ChainReport struct {
	Chain         ChainCode
	Rounds        int
	Found         bool         // the server knew at least one derived token
	LastUsedDepth uint64       // highest depth the server knew (valid if Found)
	Recovered     int          // tokens added to the wallet
	Amount        types.Amount // value of recovered tokens
	Unswept       types.Amount // unspent PAY tokens left alone
	ReportedDepth uint64       // depth before the scan
	Depth         uint64       // depth after the scan
}

// RecoveryReport is the result of Recover.
type RecoveryReport struct {
	Chains []ChainReport
}

// Recovered returns the total value added to the wallet.
func (r *RecoveryReport) Recovered() types.Amount {
	var total types.Amount
	for _, c := range r.Chains {
		total = total.Add(c.Amount)
	}
	return total
}

// Recover rebuilds wallet contents from the master secret. It checks the
// existing tokens, then scans every chain in windows of GapLimit derived
// secrets until a window has no token known to the server and the scan has
// passed the recorded depth. Depths only ever move forward.
func (w *Wallet) Recover(ctx context.Context, opts RecoverOptions) (*RecoveryReport, error) {
	if opts.GapLimit == 0 {
		opts.GapLimit = DefaultGapLimit
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.check(ctx); err != nil {
		return nil, err
	}

	report := &RecoveryReport{}
	for _, chain := range ChainCodes() {
		cr, err := w.recoverChain(ctx, chain, opts)
		if err != nil {
			return nil, err
		}
		report.Chains = append(report.Chains, cr)
	}

	return report, w.save()
}

type candidate struct {
	depth uint64
	token webcash.SecretWebcash
}

func (w *Wallet) recoverChain(ctx context.Context, chain ChainCode, opts RecoverOptions) (ChainReport, error) {
	logger := w.logger.With().Str("component", "recovery").Str("chain", chain.String()).Logger()
	gap := opts.GapLimit
	reported := w.depths[chain]
	cr := ChainReport{Chain: chain, ReportedDepth: reported}

	var cursor, lastUsed uint64
	for {
		logger.Debug().Uint64("gap_limit", gap).Int("round", cr.Rounds).
			Msg("Checking derived secrets")
		cr.Rounds++

		candidates := make(map[string]candidate, gap)
		publics := make([]string, 0, gap)
		for depth := cursor; depth < cursor+gap; depth++ {
			secret, err := DeriveSecret(w.masterSecret, chain, depth)
			if err != nil {
				return cr, err
			}
			tok := webcash.NewSecret(types.AmountFromInt(1), secret)
			pub := tok.ToPublic()
			candidates[pub.Hash] = candidate{depth: depth, token: tok}
			publics = append(publics, pub.String())
		}

		results, err := w.server.HealthCheck(ctx, publics)
		if err != nil {
			logger.Error().Err(err).Msg("Could not successfully call the health check API")
			return cr, &TransportError{Op: "health_check", Err: err}
		}

		hit := false
		keys := make([]string, 0, len(results))
		for k := range results {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, key := range keys {
			status := results[key]
			pub, err := webcash.DeserializePublic(key)
			if err != nil {
				logger.Warn().Err(err).Str("token", key).Msg("Ignoring unparsable health check result")
				continue
			}
			cand, ok := candidates[pub.Hash]
			if !ok {
				logger.Warn().Str("hash", pub.Hash).Msg("Ignoring health check result for unrequested webcash")
				continue
			}
			if !status.Known() {
				continue
			}

			hit = true
			cr.Found = true
			if cand.depth > lastUsed {
				lastUsed = cand.depth
			}

			if !status.Unspent() {
				continue
			}
			if status.Amount == nil {
				logger.Warn().Uint64("depth", cand.depth).Msg("Server reported unspent webcash without an amount")
				continue
			}
			tok := cand.token.WithAmount(*status.Amount)

			if chain == ChainPay && !opts.SweepPayments {
				cr.Unswept = cr.Unswept.Add(tok.Amount)
				logger.Info().Str("amount", tok.Amount.String()).Uint64("depth", cand.depth).
					Msg("Found known webcash")
				continue
			}

			if w.indexOfHash(pub.Hash) < 0 {
				w.confirmed = append(w.confirmed, tok)
				cr.Recovered++
				cr.Amount = cr.Amount.Add(tok.Amount)
				logger.Info().Str("amount", tok.Amount.String()).Uint64("depth", cand.depth).
					Msg("Recovered webcash")
			}
			w.removePending(hashSet(tok))
		}

		forced := cursor < reported
		if !hit && !forced {
			break
		}
		cursor += gap
	}

	var next uint64
	if cr.Found {
		next = lastUsed + 1
		cr.LastUsedDepth = lastUsed
	}
	if reported > next+gap {
		logger.Warn().Uint64("reported", reported).Uint64("found", next).
			Msg("Something may have gone wrong: recorded depth is beyond the last used depth")
	}
	if cr.Found && reported < next {
		w.depths[chain] = next
	}
	cr.Depth = w.depths[chain]
	return cr, nil
}
