// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package config loads the protocol configuration of a ledger from a JSON
// file, optionally overridden by environment variables.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashpy-labs/vulcan-spock/common/amount"
	"github.com/hashpy-labs/vulcan-spock/ledger"
	"github.com/holiman/uint256"
	"github.com/joho/godotenv"
)

// Environment variables overriding the content of a configuration file.
const (
	EnvTreasuryAccount = "VULCAN_TREASURY_ACCOUNT"
	EnvFlexAccount     = "VULCAN_FLEX_ACCOUNT"
	EnvFirePitAccount  = "VULCAN_FIRE_PIT_ACCOUNT"
	EnvRpcAddress      = "VULCAN_RPC_ADDRESS"
	EnvEpochInterval   = "VULCAN_EPOCH_INTERVAL"
)

const DefaultRpcAddress = "localhost:50051"

var ErrInvalidFile = errors.New("invalid configuration file")

// File is the content of a configuration file.
type File struct {
	TreasuryAccount      string `json:"treasuryAccount"`
	FlexAccount          string `json:"flexAccount"`
	FirePitAccount       string `json:"firePitAccount,omitempty"`
	InsuranceFundAccount string `json:"insuranceFundAccount,omitempty"`

	TreasuryTaxRate      uint64 `json:"treasuryTaxRate"`
	FlexTaxRate          uint64 `json:"flexTaxRate"`
	FirePitTaxRate       uint64 `json:"firePitTaxRate"`
	InsuranceFundTaxRate uint64 `json:"insuranceFundTaxRate,omitempty"`
	TaxDivisor           uint64 `json:"taxDivisor,omitempty"`

	Exempt          []string                  `json:"exempt,omitempty"`
	GenesisAccounts map[string]amount.Decimal `json:"genesisAccounts"`

	Parameters *Parameters `json:"parameters,omitempty"`

	// Runtime settings of the server.
	RpcAddress    string    `json:"rpcAddress,omitempty"`
	EpochInterval Duration  `json:"epochInterval,omitempty"`
	GenesisTime   time.Time `json:"genesisTime,omitempty"`
}

// Parameters overrides the default protocol parameters. Omitted fields keep
// their default value.
type Parameters struct {
	Decimals             *uint8          `json:"decimals,omitempty"`
	InitialSupply        *amount.Decimal `json:"initialSupply,omitempty"`
	MaxSupply            *amount.Decimal `json:"maxSupply,omitempty"`
	RebaseRate           *uint64         `json:"rebaseRate,omitempty"`
	RebaseDivisor        *uint64         `json:"rebaseDivisor,omitempty"`
	BurnInterval         *uint64         `json:"burnInterval,omitempty"`
	BurnThresholdPercent *uint64         `json:"burnThresholdPercent,omitempty"`
	BurnTargetPercent    *uint64         `json:"burnTargetPercent,omitempty"`
	EpochDuration        *Duration       `json:"epochDuration,omitempty"`
}

// Load reads the configuration file at the given path. If envPath is not
// empty, the variables of that .env file are applied on top; variables of the
// process environment take precedence over both.
func Load(path, envPath string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read configuration: %w", err)
	}
	res, err := Parse(data)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}

	env := map[string]string{}
	if envPath != "" {
		if env, err = godotenv.Read(envPath); err != nil {
			return File{}, fmt.Errorf("failed to read environment file: %w", err)
		}
	}
	for _, key := range []string{EnvTreasuryAccount, EnvFlexAccount, EnvFirePitAccount, EnvRpcAddress, EnvEpochInterval} {
		if value, found := os.LookupEnv(key); found {
			env[key] = value
		}
	}
	if err := res.applyEnv(env); err != nil {
		return File{}, err
	}
	return res, res.validate()
}

// Parse decodes the content of a configuration file. Unknown fields are
// rejected.
func Parse(data []byte) (File, error) {
	var res File
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&res); err != nil {
		return File{}, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	return res, nil
}

func (f *File) applyEnv(env map[string]string) error {
	if value, found := env[EnvTreasuryAccount]; found {
		f.TreasuryAccount = value
	}
	if value, found := env[EnvFlexAccount]; found {
		f.FlexAccount = value
	}
	if value, found := env[EnvFirePitAccount]; found {
		f.FirePitAccount = value
	}
	if value, found := env[EnvRpcAddress]; found {
		f.RpcAddress = value
	}
	if value, found := env[EnvEpochInterval]; found {
		interval, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidFile, EnvEpochInterval, err)
		}
		f.EpochInterval = Duration(interval)
	}
	return nil
}

func (f *File) validate() error {
	if f.TreasuryAccount == "" {
		return fmt.Errorf("%w: missing treasuryAccount", ErrInvalidFile)
	}
	if f.FlexAccount == "" {
		return fmt.Errorf("%w: missing flexAccount", ErrInvalidFile)
	}
	if f.EpochInterval < 0 {
		return fmt.Errorf("%w: negative epochInterval", ErrInvalidFile)
	}
	return nil
}

// Address returns the address the RPC server should listen on.
func (f *File) Address() string {
	if f.RpcAddress == "" {
		return DefaultRpcAddress
	}
	return f.RpcAddress
}

// Interval returns the wall-clock time between two ticks. It defaults to the
// epoch duration of the protocol parameters.
func (f *File) Interval() time.Duration {
	if f.EpochInterval > 0 {
		return time.Duration(f.EpochInterval)
	}
	return f.params().EpochDuration
}

func (f *File) params() ledger.Parameters {
	res := ledger.DefaultParameters()
	if f.TaxDivisor != 0 {
		res.TaxDivisor = f.TaxDivisor
	}
	p := f.Parameters
	if p == nil {
		return res
	}
	if p.Decimals != nil {
		res.Decimals = *p.Decimals
	}
	if p.InitialSupply != nil {
		res.InitialSupply = p.InitialSupply.Int()
	}
	if p.MaxSupply != nil {
		res.MaxSupply = p.MaxSupply.Int()
	}
	if p.RebaseRate != nil {
		res.RebaseRate = *p.RebaseRate
	}
	if p.RebaseDivisor != nil {
		res.RebaseDivisor = *p.RebaseDivisor
	}
	if p.BurnInterval != nil {
		res.BurnInterval = *p.BurnInterval
	}
	if p.BurnThresholdPercent != nil {
		res.BurnThresholdPercent = *p.BurnThresholdPercent
	}
	if p.BurnTargetPercent != nil {
		res.BurnTargetPercent = *p.BurnTargetPercent
	}
	if p.EpochDuration != nil {
		res.EpochDuration = time.Duration(*p.EpochDuration)
	}
	return res
}

// LedgerConfig converts the file into the configuration of a ledger. Tax
// destinations are charged in the order treasury, flex, fire pit, insurance
// fund; destinations with a zero rate are omitted.
func (f *File) LedgerConfig() ledger.Config {
	res := ledger.Config{
		Params:               f.params(),
		TreasuryAccount:      f.TreasuryAccount,
		FlexAccount:          f.FlexAccount,
		FirePitAccount:       f.FirePitAccount,
		InsuranceFundAccount: f.InsuranceFundAccount,
		Exempt:               f.Exempt,
		Genesis:              make(map[string]*uint256.Int, len(f.GenesisAccounts)),
	}
	rates := []ledger.TaxRate{
		{Account: f.TreasuryAccount, Rate: f.TreasuryTaxRate},
		{Account: f.FlexAccount, Rate: f.FlexTaxRate},
		{Account: res.FirePit(), Rate: f.FirePitTaxRate},
		{Account: f.InsuranceFundAccount, Rate: f.InsuranceFundTaxRate},
	}
	for _, rate := range rates {
		if rate.Rate > 0 {
			res.TaxRates = append(res.TaxRates, rate)
		}
	}
	for account, tokens := range f.GenesisAccounts {
		res.Genesis[account] = tokens.Int()
	}
	return res
}

// Duration is a time.Duration encoded as a string such as "15m".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("durations must be strings like \"15m\": %w", err)
	}
	value, err := time.ParseDuration(text)
	if err != nil {
		return err
	}
	*d = Duration(value)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
