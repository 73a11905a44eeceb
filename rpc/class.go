package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/NethermindEth/deploy-gateway/core/felt"
	"github.com/NethermindEth/deploy-gateway/starknet"
	"github.com/NethermindEth/deploy-gateway/utils"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

type EntryPoint struct {
	Offset   *felt.Felt `json:"offset"`
	Selector *felt.Felt `json:"selector"`
}

type EntryPoints struct {
	Constructor []EntryPoint `json:"CONSTRUCTOR"`
	External    []EntryPoint `json:"EXTERNAL"`
	L1Handler   []EntryPoint `json:"L1_HANDLER"`
}

// ContractClass is a Cairo 0 class as clients submit it. Program is base64
// encoded gzipped JSON.
type ContractClass struct {
	Program     string          `json:"program"`
	EntryPoints EntryPoints     `json:"entry_points_by_type"`
	Abi         json.RawMessage `json:"abi,omitempty"`
}

// AdaptContractClass converts class into the definition sent to the gateway.
// Every failure is a *starknet.DefinitionError.
func AdaptContractClass(class *ContractClass) (*starknet.ContractDefinition, error) {
	if class == nil {
		return nil, &starknet.DefinitionError{Err: errors.New("missing contract class")}
	}

	program, err := adaptProgram(class.Program)
	if err != nil {
		return nil, &starknet.DefinitionError{Err: err}
	}

	var entryPoints starknet.EntryPoints
	if err = copier.Copy(&entryPoints, &class.EntryPoints); err != nil {
		return nil, &starknet.DefinitionError{Err: errors.Wrap(err, "copy entry points")}
	}
	if err = checkEntryPoints(&entryPoints); err != nil {
		return nil, &starknet.DefinitionError{Err: err}
	}
	// the gateway expects every group to be present
	for _, group := range []*[]starknet.EntryPoint{&entryPoints.Constructor, &entryPoints.External, &entryPoints.L1Handler} {
		if *group == nil {
			*group = []starknet.EntryPoint{}
		}
	}

	var abi json.RawMessage
	if len(class.Abi) > 0 && !bytes.Equal(class.Abi, []byte("null")) {
		if !json.Valid(class.Abi) {
			return nil, &starknet.DefinitionError{Err: errors.New("abi is not valid JSON")}
		}
		abi = class.Abi
	}

	return &starknet.ContractDefinition{
		Abi:         abi,
		EntryPoints: entryPoints,
		Program:     program,
	}, nil
}

// adaptProgram checks that the program decodes to a JSON object and
// re-encodes it in compact form.
func adaptProgram(encoded string) (string, error) {
	decoded, err := utils.Gzip64Decode(encoded)
	if err != nil {
		return "", errors.Wrap(err, "decode program")
	}

	var program map[string]json.RawMessage
	if err = json.Unmarshal(decoded, &program); err != nil {
		return "", errors.Wrap(err, "parse program")
	}
	if program == nil {
		return "", errors.New("parse program: program is null")
	}

	var compacted bytes.Buffer
	if err = json.Compact(&compacted, decoded); err != nil {
		return "", errors.Wrap(err, "compact program")
	}
	reencoded, err := utils.Gzip64Encode(compacted.Bytes())
	if err != nil {
		return "", errors.Wrap(err, "encode program")
	}
	return reencoded, nil
}

func checkEntryPoints(entryPoints *starknet.EntryPoints) error {
	groups := []struct {
		name   string
		points []starknet.EntryPoint
	}{
		{"CONSTRUCTOR", entryPoints.Constructor},
		{"EXTERNAL", entryPoints.External},
		{"L1_HANDLER", entryPoints.L1Handler},
	}
	for _, group := range groups {
		for i, ep := range group.points {
			if ep.Selector == nil || ep.Offset == nil {
				return fmt.Errorf("entry point %s[%d]: selector and offset are required", group.name, i)
			}
		}
	}
	return nil
}
