package sequencer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NethermindEth/deploy-gateway/core/felt"
	"github.com/NethermindEth/deploy-gateway/starknet"
	"github.com/NethermindEth/deploy-gateway/utils"
)

const addTransactionPath = "/add_transaction"

// Client talks to the gateway write API. It is read-only after construction and
// may be shared between concurrent requests.
type Client struct {
	url       string
	client    *http.Client
	timeout   time.Duration
	log       utils.SimpleLogger
	userAgent string
	apiKey    string
	listener  EventListener
}

func NewClient(gatewayURL string, log utils.SimpleLogger) *Client {
	return &Client{
		url:      strings.TrimSuffix(gatewayURL, "/"),
		client:   http.DefaultClient,
		timeout:  10 * time.Second,
		log:      log,
		listener: &SelectiveListener{},
	}
}

func (c *Client) WithUserAgent(ua string) *Client {
	c.userAgent = ua
	return c
}

func (c *Client) WithTimeout(t time.Duration) *Client {
	c.timeout = t
	return c
}

func (c *Client) WithAPIKey(key string) *Client {
	c.apiKey = key
	return c
}

func (c *Client) WithListener(l EventListener) *Client {
	c.listener = l
	return c
}

func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.client = client
	return c
}

// AddDeployTransaction submits a DEPLOY transaction. The token is sent as a query
// parameter only when it is not nil. Exactly one request is made.
func (c *Client) AddDeployTransaction(ctx context.Context, version, salt *felt.Felt, calldata []*felt.Felt,
	definition *starknet.ContractDefinition, token *string,
) (*starknet.DeployTransactionResponse, error) {
	if calldata == nil {
		calldata = []*felt.Felt{}
	}
	txn := &starknet.DeployTransaction{
		Type:                starknet.TxnDeploy,
		ContractAddressSalt: salt,
		ContractDefinition:  definition,
		ConstructorCallData: calldata,
		Version:             version,
	}

	queryURL := c.url + addTransactionPath
	if token != nil {
		queryURL += "?" + url.Values{"token": []string{*token}}.Encode()
	}

	body, err := c.post(ctx, queryURL, txn)
	if err != nil {
		return nil, err
	}

	resp := new(starknet.DeployTransactionResponse)
	if err = json.Unmarshal(body, resp); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return resp, nil
}

// post performs additional utility function over doPost method
func (c *Client) post(ctx context.Context, queryURL string, data any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqTimer := time.Now()
	resp, err := c.doPost(ctx, queryURL, data)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()
	c.listener.OnResponse(addTransactionPath, resp.StatusCode, time.Since(reqTimer))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		err = parseError(resp.StatusCode, body)
		if gatewayErr, ok := err.(*Error); ok {
			c.listener.OnGatewayError(gatewayErr.Code)
		}
		c.log.Debugw("Gateway rejected request", "status", resp.StatusCode, "err", err)
		return nil, err
	}
	return body, nil
}

// doPost performs a "POST" http request with the given URL and a JSON payload derived from the provided data
// it returns response without additional error handling
func (c *Client) doPost(ctx context.Context, queryURL string, data any) (*http.Response, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, queryURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.apiKey != "" {
		req.Header.Set("X-Throttling-Bypass", c.apiKey)
	}
	return c.client.Do(req)
}
