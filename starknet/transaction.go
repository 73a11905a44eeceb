package starknet

import (
	"fmt"

	"github.com/NethermindEth/deploy-gateway/core/felt"
)

type TransactionType uint8

const (
	Invalid TransactionType = iota
	TxnDeploy
)

func (t TransactionType) String() string {
	switch t {
	case TxnDeploy:
		return "DEPLOY"
	default:
		return "<unknown>"
	}
}

func (t TransactionType) MarshalText() ([]byte, error) {
	if t == Invalid {
		return nil, fmt.Errorf("unknown TransactionType %d", t)
	}
	return []byte(t.String()), nil
}

func (t *TransactionType) UnmarshalText(data []byte) error {
	switch str := string(data); str {
	case "DEPLOY":
		*t = TxnDeploy
	default:
		return fmt.Errorf("unknown TransactionType %q", str)
	}
	return nil
}

// DeployTransaction is the add_transaction payload for a DEPLOY transaction.
type DeployTransaction struct {
	Type                TransactionType     `json:"type"`
	ContractAddressSalt *felt.Felt          `json:"contract_address_salt"`
	ContractDefinition  *ContractDefinition `json:"contract_definition"`
	ConstructorCallData []*felt.Felt        `json:"constructor_calldata"`
	Version             *felt.Felt          `json:"version"`
}

type DeployTransactionResponse struct {
	Code            string     `json:"code"`
	TransactionHash *felt.Felt `json:"transaction_hash"`
	Address         *felt.Felt `json:"address"`
}
