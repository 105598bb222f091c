// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashpy-labs/vulcan-spock/ledger"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

const exampleFile = `{
	"treasuryAccount": "0xTreasury",
	"flexAccount": "0xFlex",
	"insuranceFundAccount": "0xInsuranceFund",
	"treasuryTaxRate": 2,
	"flexTaxRate": 1,
	"firePitTaxRate": 2,
	"genesisAccounts": {
		"0xDemo1": "100,000,000",
		"0xDemo2": 5000000
	},
	"parameters": {
		"decimals": 6,
		"epochDuration": "1m"
	},
	"rpcAddress": "localhost:9000",
	"genesisTime": "2024-01-01T00:00:00Z"
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ReadsConfigurationFile(t *testing.T) {
	require := require.New(t)
	file, err := Load(writeFile(t, "config.json", exampleFile), "")
	require.NoError(err)

	require.Equal("0xTreasury", file.TreasuryAccount)
	require.Equal("0xFlex", file.FlexAccount)
	require.Equal("0xInsuranceFund", file.InsuranceFundAccount)
	require.Equal("localhost:9000", file.Address())
	require.Equal(time.Minute, file.Interval())
	require.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), file.GenesisTime)
	require.Equal(uint256.NewInt(100_000_000), file.GenesisAccounts["0xDemo1"].Int())
	require.Equal(uint256.NewInt(5_000_000), file.GenesisAccounts["0xDemo2"].Int())
}

func TestLedgerConfig_ConvertsToLedgerConfiguration(t *testing.T) {
	require := require.New(t)
	file, err := Parse([]byte(exampleFile))
	require.NoError(err)

	cfg := file.LedgerConfig()
	params := ledger.DefaultParameters()
	params.Decimals = 6
	params.EpochDuration = time.Minute
	require.Equal(params, cfg.Params)
	require.Equal([]ledger.TaxRate{
		{Account: "0xTreasury", Rate: 2},
		{Account: "0xFlex", Rate: 1},
		{Account: ledger.DefaultFirePitAccount, Rate: 2},
	}, cfg.TaxRates)
	require.Equal(map[string]*uint256.Int{
		"0xDemo1": uint256.NewInt(100_000_000),
		"0xDemo2": uint256.NewInt(5_000_000),
	}, cfg.Genesis)

	l, err := ledger.New(cfg)
	require.NoError(err)
	unit := uint256.NewInt(1_000_000)
	require.Equal(new(uint256.Int).Mul(uint256.NewInt(100_000_000), unit), l.GetBalance("0xDemo1").Amount)
}

func TestLedgerConfig_ParametersCanBeOverridden(t *testing.T) {
	file, err := Parse([]byte(`{
		"treasuryAccount": "t",
		"flexAccount": "f",
		"taxDivisor": 1000000,
		"insuranceFundTaxRate": 500,
		"insuranceFundAccount": "i",
		"parameters": {
			"initialSupply": "1_000",
			"maxSupply": "2000",
			"rebaseRate": 5,
			"rebaseDivisor": 1000,
			"burnInterval": 10,
			"burnThresholdPercent": 60,
			"burnTargetPercent": 40
		}
	}`))
	require.NoError(t, err)

	cfg := file.LedgerConfig()
	require.Equal(t, uint256.NewInt(1000), cfg.Params.InitialSupply)
	require.Equal(t, uint256.NewInt(2000), cfg.Params.MaxSupply)
	require.Equal(t, uint64(5), cfg.Params.RebaseRate)
	require.Equal(t, uint64(1000), cfg.Params.RebaseDivisor)
	require.Equal(t, uint64(10), cfg.Params.BurnInterval)
	require.Equal(t, uint64(60), cfg.Params.BurnThresholdPercent)
	require.Equal(t, uint64(40), cfg.Params.BurnTargetPercent)
	require.Equal(t, uint64(1_000_000), cfg.Params.TaxDivisor)
	require.Equal(t, []ledger.TaxRate{{Account: "i", Rate: 500}}, cfg.TaxRates)
	require.NoError(t, cfg.Params.Validate())
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, "config.json", exampleFile)
	env := writeFile(t, ".env", "VULCAN_TREASURY_ACCOUNT=0xOther\nVULCAN_EPOCH_INTERVAL=5s\nVULCAN_RPC_ADDRESS=localhost:1\n")

	file, err := Load(path, env)
	require.NoError(t, err)
	require.Equal(t, "0xOther", file.TreasuryAccount)
	require.Equal(t, 5*time.Second, file.Interval())
	require.Equal(t, "localhost:1", file.Address())

	// The process environment takes precedence over the .env file.
	t.Setenv(EnvRpcAddress, "localhost:2")
	t.Setenv(EnvFirePitAccount, "0xPit")
	file, err = Load(path, env)
	require.NoError(t, err)
	require.Equal(t, "localhost:2", file.Address())
	require.Equal(t, "0xPit", file.LedgerConfig().FirePitAccount)
	require.Equal(t, "0xPit", file.LedgerConfig().TaxRates[2].Account)
}

func TestLoad_Defaults(t *testing.T) {
	file, err := Parse([]byte(`{"treasuryAccount": "t", "flexAccount": "f"}`))
	require.NoError(t, err)
	require.NoError(t, file.validate())
	require.Equal(t, DefaultRpcAddress, file.Address())
	require.Equal(t, 15*time.Minute, file.Interval())
	require.Equal(t, ledger.DefaultParameters(), file.LedgerConfig().Params)
	require.Empty(t, file.LedgerConfig().TaxRates)
}

func TestLoad_InvalidFilesAreRejected(t *testing.T) {
	tests := map[string]string{
		"not json":          `treasuryAccount: x`,
		"unknown field":     `{"treasuryAccount": "t", "flexAccount": "f", "color": "red"}`,
		"missing treasury":  `{"flexAccount": "f"}`,
		"missing flex":      `{"treasuryAccount": "t"}`,
		"malformed amount":  `{"treasuryAccount": "t", "flexAccount": "f", "genesisAccounts": {"a": "12x"}}`,
		"negative amount":   `{"treasuryAccount": "t", "flexAccount": "f", "genesisAccounts": {"a": -1}}`,
		"numeric duration":  `{"treasuryAccount": "t", "flexAccount": "f", "epochInterval": 15}`,
		"invalid duration":  `{"treasuryAccount": "t", "flexAccount": "f", "epochInterval": "soon"}`,
		"negative interval": `{"treasuryAccount": "t", "flexAccount": "f", "epochInterval": "-1s"}`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "config.json", content), "")
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingFilesAreReported(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"), "")
	require.ErrorContains(t, err, "failed to read configuration")

	path := writeFile(t, "config.json", exampleFile)
	_, err = Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.ErrorContains(t, err, "failed to read environment file")
}

func TestLoad_InvalidEnvironmentIntervalIsRejected(t *testing.T) {
	t.Setenv(EnvEpochInterval, "later")
	_, err := Load(writeFile(t, "config.json", exampleFile), "")
	require.ErrorIs(t, err, ErrInvalidFile)
}

func TestDuration_IsEncodedAsString(t *testing.T) {
	data, err := json.Marshal(Duration(90 * time.Second))
	require.NoError(t, err)
	require.Equal(t, `"1m30s"`, string(data))
}
