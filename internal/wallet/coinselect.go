package wallet

import (
	"fmt"

	"github.com/Klingon-tech/webcash-wallet/pkg/types"
	"github.com/Klingon-tech/webcash-wallet/pkg/webcash"
)

// CoinSelection holds the result of coin selection.
type CoinSelection struct {
	Inputs []webcash.SecretWebcash // Selected webcash to replace, in wallet order.
	Total  types.Amount            // Sum of selected input amounts.
	Change types.Amount            // Change = Total - target.
}

// SelectCoins chooses webcash to fund a payment of target. The policy is
// order dependent and does not minimise change:
//  1. Single token: the first token (in wallet order) whose amount covers the target.
//  2. Prefix: the shortest prefix of the wallet whose running sum covers the target.
func SelectCoins(confirmed []webcash.SecretWebcash, target types.Amount) (*CoinSelection, error) {
	if len(confirmed) == 0 {
		return nil, ErrNoWebcash
	}
	if !target.IsPositive() {
		return nil, ErrInvalidAmount
	}

	for _, wc := range confirmed {
		if wc.Amount.Cmp(target) >= 0 {
			return &CoinSelection{
				Inputs: []webcash.SecretWebcash{wc},
				Total:  wc.Amount,
				Change: wc.Amount.Sub(target),
			}, nil
		}
	}

	var running types.Amount
	for i, wc := range confirmed {
		running = running.Add(wc.Amount)
		if running.Cmp(target) >= 0 {
			inputs := make([]webcash.SecretWebcash, i+1)
			copy(inputs, confirmed[:i+1])
			return &CoinSelection{
				Inputs: inputs,
				Total:  running,
				Change: running.Sub(target),
			}, nil
		}
	}

	return nil, fmt.Errorf("%w: have %s, need %s", ErrInsufficientFunds, running, target)
}
