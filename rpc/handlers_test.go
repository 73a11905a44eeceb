package rpc_test

import (
	"testing"

	"github.com/NethermindEth/deploy-gateway/jsonrpc"
	"github.com/NethermindEth/deploy-gateway/rpc"
	"github.com/NethermindEth/deploy-gateway/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecVersion(t *testing.T) {
	handler := rpc.New(nil, "", nil)
	version, rpcErr := handler.SpecVersion()
	require.Nil(t, rpcErr)
	require.Equal(t, "0.2.1", version)
}

func TestVersion(t *testing.T) {
	handler := rpc.New(nil, "v1.2.3", nil)
	version, rpcErr := handler.Version()
	require.Nil(t, rpcErr)
	require.Equal(t, "v1.2.3", version)
}

func TestMethods(t *testing.T) {
	handler := rpc.New(nil, "v1.2.3", utils.NewNopZapLogger())
	methods, path := handler.Methods()
	assert.Equal(t, rpc.PathV0_2, path)

	server := jsonrpc.NewServer(1, utils.NewNopZapLogger())
	names := make([]string, 0, len(methods))
	for _, method := range methods {
		require.NoError(t, server.RegisterMethod(method), method.Name)
		names = append(names, method.Name)
	}
	assert.ElementsMatch(t, []string{"starknet_specVersion", "starknet_addDeployTransaction", "gateway_version"}, names)

	res, err := server.Handle(t.Context(), []byte(`{"jsonrpc":"2.0","method":"starknet_specVersion","id":1}`))
	require.NoError(t, err)
	assert.Equal(t, `{"jsonrpc":"2.0","result":"0.2.1","id":1}`, string(res))
}
