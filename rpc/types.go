// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package rpc

import (
	"github.com/hashpy-labs/vulcan-spock/common/amount"
	"github.com/hashpy-labs/vulcan-spock/ledger"
)

// The JSON messages of the HTTP interface. Amounts are decimal strings in
// base units, except for the amount of a transfer request which is given in
// whole tokens.

type BalanceResponse struct {
	Account string         `json:"account"`
	Balance amount.Decimal `json:"balance"`
}

type SupplyResponse struct {
	CirculatingSupply amount.Decimal `json:"circulatingSupply"`
}

type TransferRequest struct {
	From   string         `json:"from"`
	To     string         `json:"to"`
	Amount amount.Decimal `json:"amount"`
}

type TransferResponse struct {
	Balances []BalanceResponse `json:"balances"`
	Taxes    []BalanceResponse `json:"taxes,omitempty"`
}

type ReportResponse struct {
	Epoch             uint64         `json:"epoch"`
	State             string         `json:"state"`
	CirculatingSupply amount.Decimal `json:"circulatingSupply"`
	FragmentsPerUnit  amount.Decimal `json:"fragmentsPerUnit"`
	FirePitBalance    amount.Decimal `json:"firePitBalance"`
	Burned            amount.Decimal `json:"burned"`
	Grown             amount.Decimal `json:"grown"`
}

type StatusResponse struct {
	Epoch             uint64             `json:"epoch"`
	State             string             `json:"state"`
	CirculatingSupply amount.Decimal     `json:"circulatingSupply"`
	MaxSupply         amount.Decimal     `json:"maxSupply"`
	FragmentsPerUnit  amount.Decimal     `json:"fragmentsPerUnit"`
	BurnPending       bool               `json:"burnPending"`
	Accounts          int                `json:"accounts"`
	Parameters        ParametersResponse `json:"parameters"`
}

type ParametersResponse struct {
	Decimals             uint8          `json:"decimals"`
	InitialSupply        amount.Decimal `json:"initialSupply"`
	MaxSupply            amount.Decimal `json:"maxSupply"`
	RebaseRate           uint64         `json:"rebaseRate"`
	RebaseDivisor        uint64         `json:"rebaseDivisor"`
	BurnInterval         uint64         `json:"burnInterval"`
	BurnThresholdPercent uint64         `json:"burnThresholdPercent"`
	BurnTargetPercent    uint64         `json:"burnTargetPercent"`
	TaxDivisor           uint64         `json:"taxDivisor"`
	EpochDuration        string         `json:"epochDuration"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func toBalanceResponse(balance ledger.Balance) BalanceResponse {
	return BalanceResponse{Account: balance.Account, Balance: amount.NewDecimal(balance.Amount)}
}

func toTransferResponse(res ledger.TransferResult) TransferResponse {
	out := TransferResponse{
		Balances: []BalanceResponse{
			toBalanceResponse(res.Balances[0]),
			toBalanceResponse(res.Balances[1]),
		},
	}
	for _, tax := range res.Taxes {
		out.Taxes = append(out.Taxes, BalanceResponse{Account: tax.Account, Balance: amount.NewDecimal(tax.Amount)})
	}
	return out
}

// ToReportResponse converts a report into its JSON representation.
func ToReportResponse(report ledger.Report) ReportResponse {
	return ReportResponse{
		Epoch:             report.Epoch,
		State:             report.State.String(),
		CirculatingSupply: amount.NewDecimal(report.CirculatingSupply),
		FragmentsPerUnit:  amount.NewDecimal(report.FragmentsPerUnit),
		FirePitBalance:    amount.NewDecimal(report.FirePitBalance),
		Burned:            amount.NewDecimal(report.Burned),
		Grown:             amount.NewDecimal(report.Grown),
	}
}

func toStatusResponse(status ledger.Status) StatusResponse {
	p := status.Parameters
	return StatusResponse{
		Epoch:             status.Epoch,
		State:             status.State.String(),
		CirculatingSupply: amount.NewDecimal(status.CirculatingSupply),
		MaxSupply:         amount.NewDecimal(status.MaxSupply),
		FragmentsPerUnit:  amount.NewDecimal(status.FragmentsPerUnit),
		BurnPending:       status.BurnPending,
		Accounts:          status.Accounts,
		Parameters: ParametersResponse{
			Decimals:             p.Decimals,
			InitialSupply:        amount.NewDecimal(p.InitialSupply),
			MaxSupply:            amount.NewDecimal(p.MaxSupply),
			RebaseRate:           p.RebaseRate,
			RebaseDivisor:        p.RebaseDivisor,
			BurnInterval:         p.BurnInterval,
			BurnThresholdPercent: p.BurnThresholdPercent,
			BurnTargetPercent:    p.BurnTargetPercent,
			TaxDivisor:           p.TaxDivisor,
			EpochDuration:        p.EpochDuration.String(),
		},
	}
}
