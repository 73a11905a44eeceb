package starknet_test

import (
	"encoding/json"
	"testing"

	"github.com/NethermindEth/deploy-gateway/core/felt"
	"github.com/NethermindEth/deploy-gateway/starknet"
	"github.com/NethermindEth/deploy-gateway/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionType(t *testing.T) {
	var txnType starknet.TransactionType
	require.NoError(t, json.Unmarshal([]byte(`"DEPLOY"`), &txnType))
	assert.Equal(t, starknet.TxnDeploy, txnType)

	require.Error(t, json.Unmarshal([]byte(`"INVOKE"`), &txnType))
	require.Error(t, json.Unmarshal([]byte(`"deploy"`), &txnType))

	_, err := json.Marshal(starknet.Invalid)
	require.Error(t, err)
}

func TestDeployTransactionMarshal(t *testing.T) {
	txn := starknet.DeployTransaction{
		Type:                starknet.TxnDeploy,
		ContractAddressSalt: utils.HexToFelt(t, "0x1234"),
		ContractDefinition: &starknet.ContractDefinition{
			EntryPoints: starknet.EntryPoints{
				Constructor: []starknet.EntryPoint{},
				External: []starknet.EntryPoint{{
					Selector: utils.HexToFelt(t, "0x1"),
					Offset:   utils.HexToFelt(t, "0x2a"),
				}},
				L1Handler: []starknet.EntryPoint{},
			},
			Program: "H4sIAAAAAAAA/6uuBQBDv6ajAgAAAA==",
		},
		ConstructorCallData: []*felt.Felt{utils.HexToFelt(t, "0x5")},
		Version:             &felt.Zero,
	}

	got, err := json.Marshal(txn)
	require.NoError(t, err)

	want := `{"type":"DEPLOY","contract_address_salt":"0x1234","contract_definition":{` +
		`"entry_points_by_type":{"CONSTRUCTOR":[],"EXTERNAL":[{"selector":"0x1","offset":"0x2a"}],"L1_HANDLER":[]},` +
		`"program":"H4sIAAAAAAAA/6uuBQBDv6ajAgAAAA=="},"constructor_calldata":["0x5"],"version":"0x0"}`
	assert.JSONEq(t, want, string(got))
}
