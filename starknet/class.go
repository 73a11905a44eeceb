package starknet

import (
	"encoding/json"

	"github.com/NethermindEth/deploy-gateway/core/felt"
)

type EntryPoint struct {
	Selector *felt.Felt `json:"selector"`
	Offset   *felt.Felt `json:"offset"`
}

type EntryPoints struct {
	Constructor []EntryPoint `json:"CONSTRUCTOR"`
	External    []EntryPoint `json:"EXTERNAL"`
	L1Handler   []EntryPoint `json:"L1_HANDLER"`
}

// ContractDefinition is a Cairo 0 class in the shape the gateway expects in
// add_transaction requests. Program stays base64 encoded gzipped JSON.
type ContractDefinition struct {
	Abi         json.RawMessage `json:"abi,omitempty"`
	EntryPoints EntryPoints     `json:"entry_points_by_type"`
	Program     string          `json:"program"`
}

// DefinitionError reports a contract class which could not be turned into a
// ContractDefinition. It never comes from the gateway.
type DefinitionError struct {
	Err error
}

func (e *DefinitionError) Error() string {
	return "invalid contract definition: " + e.Err.Error()
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}
