package rpc_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/NethermindEth/deploy-gateway/clients/sequencer"
	"github.com/NethermindEth/deploy-gateway/core/felt"
	"github.com/NethermindEth/deploy-gateway/jsonrpc"
	"github.com/NethermindEth/deploy-gateway/mocks"
	"github.com/NethermindEth/deploy-gateway/rpc"
	"github.com/NethermindEth/deploy-gateway/rpc/rpccore"
	"github.com/NethermindEth/deploy-gateway/starknet"
	"github.com/NethermindEth/deploy-gateway/utils"
	"github.com/NethermindEth/deploy-gateway/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testDeployTransaction(t *testing.T) rpc.BroadcastedDeployTransaction {
	t.Helper()
	return rpc.BroadcastedDeployTransaction{
		Type:                starknet.TxnDeploy,
		Version:             &felt.Zero,
		ConstructorCallData: []*felt.Felt{new(felt.Felt).SetUint64(1), new(felt.Felt).SetUint64(2)},
		ContractAddressSalt: utils.HexToFelt(t, "0x1234"),
		ContractClass:       testContractClass(t),
	}
}

func TestAddDeployTransaction(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	t.Cleanup(mockCtrl.Finish)

	mockSequencer := mocks.NewMockSequencer(mockCtrl)
	handler := rpc.New(mockSequencer, "", utils.NewNopZapLogger())

	t.Run("success echoes the gateway response", func(t *testing.T) {
		tx := testDeployTransaction(t)
		token := "token"
		txHash := utils.HexToFelt(t, sequencer.TestTransactionHash)
		address := utils.HexToFelt(t, sequencer.TestContractAddress)

		mockSequencer.EXPECT().
			AddDeployTransaction(gomock.Any(), tx.Version, tx.ContractAddressSalt, tx.ConstructorCallData, gomock.Any(), &token).
			DoAndReturn(func(_ context.Context, _, _ *felt.Felt, _ []*felt.Felt,
				definition *starknet.ContractDefinition, _ *string,
			) (*starknet.DeployTransactionResponse, error) {
				expected, err := rpc.AdaptContractClass(&tx.ContractClass)
				require.NoError(t, err)
				assert.Equal(t, expected, definition)
				return &starknet.DeployTransactionResponse{
					Code:            "TRANSACTION_RECEIVED",
					TransactionHash: txHash,
					Address:         address,
				}, nil
			})

		resp, rpcErr := handler.AddDeployTransaction(t.Context(), tx, &token)
		require.Nil(t, rpcErr)
		assert.Equal(t, &rpc.AddDeployTxResponse{
			TransactionHash: txHash,
			ContractAddress: address,
		}, resp)
	})

	t.Run("conversion failure makes no gateway call", func(t *testing.T) {
		tx := testDeployTransaction(t)
		tx.ContractClass.Program = ""

		resp, rpcErr := handler.AddDeployTransaction(t.Context(), tx, nil)
		assert.Nil(t, resp)
		require.NotNil(t, rpcErr)
		assert.Equal(t, jsonrpc.InternalError, rpcErr.Code)
		assert.Equal(t, "Failed to convert contract definition", rpcErr.Data)
	})

	t.Run("gateway rejecting the program is an invalid contract class", func(t *testing.T) {
		tx := testDeployTransaction(t)
		mockSequencer.EXPECT().
			AddDeployTransaction(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), nil).
			Return(nil, &sequencer.Error{Code: sequencer.InvalidProgram, Message: "Invalid program."})

		resp, rpcErr := handler.AddDeployTransaction(t.Context(), tx, nil)
		assert.Nil(t, resp)
		assert.Equal(t, rpccore.ErrInvalidContractClass, rpcErr)
	})

	internalCauses := map[string]error{
		"classified outside the method": &sequencer.Error{
			Code:    sequencer.UninitializedContract,
			Message: "Requested contract address 0x1 is not deployed.",
		},
		"unclassified gateway error": &sequencer.Error{
			Code:    sequencer.TransactionLimitExceeded,
			Message: "Transaction limit exceeded.",
		},
		"transport failure": &sequencer.TransportError{Err: errors.New("connection refused")},
		"decode failure":    &sequencer.DecodeError{Err: sequencer.ErrInvalidErrorVariant},
	}
	for desc, cause := range internalCauses {
		t.Run(desc, func(t *testing.T) {
			tx := testDeployTransaction(t)
			mockSequencer.EXPECT().
				AddDeployTransaction(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), nil).
				Return(nil, cause)

			resp, rpcErr := handler.AddDeployTransaction(t.Context(), tx, nil)
			assert.Nil(t, resp)
			require.NotNil(t, rpcErr)
			assert.Equal(t, jsonrpc.InternalError, rpcErr.Code)
			assert.Equal(t, "Internal error", rpcErr.Message)
			assert.NotContains(t, fmt.Sprint(rpcErr.Data), cause.Error())
		})
	}
}

func TestAddDeployTransactionWithGateway(t *testing.T) {
	handler := rpc.New(sequencer.NewTestClient(t), "", utils.NewNopZapLogger())

	t.Run("success", func(t *testing.T) {
		resp, rpcErr := handler.AddDeployTransaction(t.Context(), testDeployTransaction(t), nil)
		require.Nil(t, rpcErr)
		assert.Equal(t, sequencer.TestTransactionHash, resp.TransactionHash.String())
		assert.Equal(t, sequencer.TestContractAddress, resp.ContractAddress.String())
	})

	t.Run("invalid program", func(t *testing.T) {
		tx := testDeployTransaction(t)
		tx.ContractAddressSalt = utils.HexToFelt(t, sequencer.TestInvalidProgramSalt)

		_, rpcErr := handler.AddDeployTransaction(t.Context(), tx, nil)
		assert.Equal(t, rpccore.ErrInvalidContractClass, rpcErr)
	})

	t.Run("forbidden token", func(t *testing.T) {
		token := sequencer.TestForbiddenToken
		_, rpcErr := handler.AddDeployTransaction(t.Context(), testDeployTransaction(t), &token)
		require.NotNil(t, rpcErr)
		assert.Equal(t, jsonrpc.InternalError, rpcErr.Code)
	})

	t.Run("unknown error code", func(t *testing.T) {
		tx := testDeployTransaction(t)
		tx.ContractAddressSalt = utils.HexToFelt(t, sequencer.TestUnknownCodeSalt)

		_, rpcErr := handler.AddDeployTransaction(t.Context(), tx, nil)
		require.NotNil(t, rpcErr)
		assert.Equal(t, jsonrpc.InternalError, rpcErr.Code)
	})

	t.Run("unreachable gateway", func(t *testing.T) {
		client := sequencer.NewClient("http://127.0.0.1:0", utils.NewNopZapLogger())
		handler := rpc.New(client, "", utils.NewNopZapLogger())

		_, rpcErr := handler.AddDeployTransaction(t.Context(), testDeployTransaction(t), nil)
		require.NotNil(t, rpcErr)
		assert.Equal(t, jsonrpc.InternalError, rpcErr.Code)
	})
}

type deployCall struct {
	version, salt *felt.Felt
	calldata      []*felt.Felt
	definition    *starknet.ContractDefinition
	token         *string
}

func TestAddDeployTransactionParams(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	t.Cleanup(mockCtrl.Finish)

	mockSequencer := mocks.NewMockSequencer(mockCtrl)
	handler := rpc.New(mockSequencer, "", utils.NewNopZapLogger())

	server := jsonrpc.NewServer(1, utils.NewNopZapLogger()).WithValidator(validator.Validator())
	methods, _ := handler.Methods()
	for _, method := range methods {
		require.NoError(t, server.RegisterMethod(method))
	}

	var calls []deployCall
	mockSequencer.EXPECT().
		AddDeployTransaction(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, version, salt *felt.Felt, calldata []*felt.Felt,
			definition *starknet.ContractDefinition, token *string,
		) (*starknet.DeployTransactionResponse, error) {
			calls = append(calls, deployCall{version, salt, calldata, definition, token})
			return &starknet.DeployTransactionResponse{
				TransactionHash: utils.HexToFelt(t, sequencer.TestTransactionHash),
				Address:         utils.HexToFelt(t, sequencer.TestContractAddress),
			}, nil
		}).
		AnyTimes()

	classJSON, err := json.Marshal(testContractClass(t))
	require.NoError(t, err)
	txJSON := fmt.Sprintf(`{
		"type": "DEPLOY",
		"version": "0x0",
		"constructor_calldata": ["0x1", "0x2"],
		"contract_address_salt": "0x1234",
		"contract_class": %s
	}`, classJSON)

	call := func(t *testing.T, params string) string {
		t.Helper()
		req := `{"jsonrpc":"2.0","method":"starknet_addDeployTransaction","params":` + params + `,"id":1}`
		res, err := server.Handle(t.Context(), []byte(req))
		require.NoError(t, err)
		return string(res)
	}
	success := fmt.Sprintf(`{"jsonrpc":"2.0","result":{"transaction_hash":%q,"contract_address":%q},"id":1}`,
		sequencer.TestTransactionHash, sequencer.TestContractAddress)

	t.Run("positional and named forms are equivalent", func(t *testing.T) {
		calls = nil
		assert.Equal(t, success, call(t, `[`+txJSON+`, "token"]`))
		assert.Equal(t, success, call(t, `{"deploy_transaction": `+txJSON+`, "token": "token"}`))
		require.Len(t, calls, 2)
		assert.Equal(t, calls[0], calls[1])
		require.NotNil(t, calls[0].token)
		assert.Equal(t, "token", *calls[0].token)
		assert.Equal(t, []*felt.Felt{new(felt.Felt).SetUint64(1), new(felt.Felt).SetUint64(2)}, calls[0].calldata)
	})

	t.Run("token defaults to absent", func(t *testing.T) {
		calls = nil
		assert.Equal(t, success, call(t, `[`+txJSON+`]`))
		assert.Equal(t, success, call(t, `{"deploy_transaction": `+txJSON+`}`))
		require.Len(t, calls, 2)
		assert.Nil(t, calls[0].token)
		assert.Nil(t, calls[1].token)
		assert.Equal(t, calls[0], calls[1])
	})

	t.Run("empty token is forwarded", func(t *testing.T) {
		calls = nil
		assert.Equal(t, success, call(t, `[`+txJSON+`, ""]`))
		require.Len(t, calls, 1)
		require.NotNil(t, calls[0].token)
		assert.Empty(t, *calls[0].token)
	})

	t.Run("unknown transaction type", func(t *testing.T) {
		calls = nil
		declare := `{"type": "DECLARE", "version": "0x0", "contract_address_salt": "0x1", "contract_class": ` +
			string(classJSON) + `}`
		res := call(t, `[`+declare+`]`)
		assert.Contains(t, res, `"code":-32602`)
		assert.Empty(t, calls)
	})

	t.Run("missing salt", func(t *testing.T) {
		calls = nil
		missingSalt := `{"type": "DEPLOY", "version": "0x0", "constructor_calldata": [], "contract_class": ` +
			string(classJSON) + `}`
		res := call(t, `[`+missingSalt+`]`)
		assert.Contains(t, res, `"code":-32602`)
		assert.Empty(t, calls)
	})

	t.Run("missing transaction", func(t *testing.T) {
		calls = nil
		res := call(t, `{"token": "token"}`)
		assert.Contains(t, res, `"code":-32602`)
		assert.Empty(t, calls)
	})

	t.Run("empty program", func(t *testing.T) {
		calls = nil
		class := testContractClass(t)
		class.Program = ""
		emptyJSON, err := json.Marshal(class)
		require.NoError(t, err)
		tx := `{"type": "DEPLOY", "version": "0x0", "constructor_calldata": [], "contract_address_salt": "0x1",` +
			` "contract_class": ` + string(emptyJSON) + `}`

		res := call(t, `[`+tx+`]`)
		assert.Contains(t, res, `"code":-32603`)
		assert.Contains(t, res, `"data":"Failed to convert contract definition"}`)
		assert.Empty(t, calls)
	})
}
