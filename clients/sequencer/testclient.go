package sequencer

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NethermindEth/deploy-gateway/starknet"
	"github.com/NethermindEth/deploy-gateway/utils"
)

const (
	TestTransactionHash = "0x3de4caad951e30581554b92ed5dfc29732dca360740598105d6b7cee7afd94f"
	TestContractAddress = "0x159519a16ee4370a05009e584855a29f4f1914326283201356f7650290f7789"

	// Salts and tokens the test server treats specially.
	TestUnknownCodeSalt    = "0xdead"
	TestBadGatewaySalt     = "0xbad"
	TestInvalidProgramSalt = "0xbadc0de"
	TestForbiddenToken     = "forbidden"
)

// NewTestClient returns a client connected to a test server which mimics the
// gateway's add_transaction endpoint.
func NewTestClient(t testing.TB) *Client {
	t.Helper()
	srv := newTestServer()
	t.Cleanup(srv.Close)

	return NewClient(srv.URL, utils.NewNopZapLogger())
}

func newTestServer() *httptest.Server {
	writeError := func(w http.ResponseWriter, status int, code, message string) {
		w.WriteHeader(status)
		//nolint:errcheck
		fmt.Fprintf(w, `{"code": %q, "message": %q}`, code, message)
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != addTransactionPath {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		b, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		var txn starknet.DeployTransaction
		if err = json.Unmarshal(b, &txn); err != nil {
			writeError(w, http.StatusBadRequest, "StarkErrorCode.MALFORMED_REQUEST", err.Error())
			return
		}

		switch {
		case r.URL.Query().Get("token") == TestForbiddenToken:
			writeError(w, http.StatusForbidden, "StarknetErrorCode.NON_PERMITTED_CONTRACT",
				"The deploy token is not valid.")
		case txn.ContractAddressSalt != nil && txn.ContractAddressSalt.String() == TestUnknownCodeSalt:
			writeError(w, http.StatusInternalServerError, "StarknetErrorCode.SOMETHING_NEW", "unknown code")
		case txn.ContractAddressSalt != nil && txn.ContractAddressSalt.String() == TestBadGatewaySalt:
			w.WriteHeader(http.StatusBadGateway)
			//nolint:errcheck
			w.Write([]byte("Bad Gateway"))
		case txn.ContractDefinition == nil || txn.ContractDefinition.Program == "",
			txn.ContractAddressSalt != nil && txn.ContractAddressSalt.String() == TestInvalidProgramSalt:
			writeError(w, http.StatusInternalServerError, "StarknetErrorCode.INVALID_PROGRAM",
				"Invalid program: program must be non-empty.")
		default:
			//nolint:errcheck
			fmt.Fprintf(w, `{"code": "TRANSACTION_RECEIVED", "transaction_hash": %q, "address": %q}`,
				TestTransactionHash, TestContractAddress)
		}
	}))
}
