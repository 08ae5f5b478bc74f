package main

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Klingon-tech/webcash-wallet/internal/wallet"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func printInfo(w io.Writer, s *session, wlt *wallet.Wallet) {
	t := newTable(w)
	t.SetTitle("Wallet " + s.walletName())
	t.AppendRows([]table.Row{
		{"Balance", wlt.Balance().String()},
		{"Tokens", len(wlt.Confirmed())},
		{"Unconfirmed", len(wlt.Pending())},
		{"Terms accepted", wlt.TermsAccepted()},
		{"Server", s.client.BaseURL()},
		{"Backend", string(s.cfg.Wallet.Backend)},
	})
	t.AppendSeparator()
	for _, chain := range wallet.ChainCodes() {
		t.AppendRow(table.Row{chain.String() + " depth", wlt.Depth(chain)})
	}
	t.Render()
}

func printRecords(w io.Writer, records []wallet.Record) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Time", "Type", "Amount", "Memo"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
	})
	for _, r := range records {
		when := r.Timestamp
		if ts, err := r.Time(); err == nil {
			when = ts.Local().Format(time.DateTime)
		}
		t.AppendRow(table.Row{when, r.Type, r.Amount.String(), r.Memo})
	}
	t.Render()
}

func printRecovery(w io.Writer, report *wallet.RecoveryReport) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Chain", "Rounds", "Recovered", "Amount", "Unswept", "Depth"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	for _, c := range report.Chains {
		unswept := ""
		if !c.Unswept.IsZero() {
			unswept = c.Unswept.String()
		}
		t.AppendRow(table.Row{c.Chain.String(), c.Rounds, c.Recovered, c.Amount.String(), unswept, c.Depth})
	}
	t.Render()
}
