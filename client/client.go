package client

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/app"
	"github.com/swapvault/swapd/commands/server"
	"github.com/swapvault/swapd/crypto"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/x/sigs"
)

// DefaultTimeout bounds every request made by a client created with
// NewClient.
const DefaultTimeout = 30 * time.Second

// Client talks to the HTTP API of a swapd daemon.
type Client struct {
	remote string
	http   *http.Client
}

// NewClient returns a client for the daemon listening at remote, for
// example "http://localhost:8080".
func NewClient(remote string) *Client {
	return NewClientWith(remote, &http.Client{Timeout: DefaultTimeout})
}

// NewClientWith uses the given http client for all requests.
func NewClientWith(remote string, hc *http.Client) *Client {
	return &Client{remote: strings.TrimSuffix(remote, "/"), http: hc}
}

// ChainID returns the chain id the daemon runs.
func (c *Client) ChainID(ctx context.Context) (string, error) {
	var status server.StatusResponse
	if err := c.get(ctx, "/status", &status); err != nil {
		return "", err
	}
	return status.ChainID, nil
}

// SubmitTx delivers a transaction. A transaction that was processed but
// failed is returned as an error wrapping the registered error reported
// by the daemon.
func (c *Client) SubmitTx(ctx context.Context, tx swapd.Tx) (*server.TxResponse, error) {
	return c.postTx(ctx, "/tx", tx)
}

// CheckTx verifies a transaction without executing it.
func (c *Client) CheckTx(ctx context.Context, tx swapd.Tx) (*server.TxResponse, error) {
	return c.postTx(ctx, "/tx/check", tx)
}

// SimulateTx executes a transaction and discards the result.
func (c *Client) SimulateTx(ctx context.Context, tx swapd.Tx) (*server.TxResponse, error) {
	return c.postTx(ctx, "/tx/simulate", tx)
}

// Query runs a query against the committed state. If prefix is set, all
// models with a key starting with key are returned.
func (c *Client) Query(ctx context.Context, path string, key []byte, prefix bool) ([]swapd.Model, error) {
	q := url.Values{}
	if len(key) > 0 {
		q.Set("key", hex.EncodeToString(key))
	}
	if prefix {
		q.Set("mod", swapd.PrefixQueryMod)
	}
	endpoint := "/query/" + strings.TrimPrefix(path, "/")
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	var rs app.ResultSet
	if err := c.get(ctx, endpoint, &rs); err != nil {
		return nil, err
	}
	return rs.Models()
}

// NextNonce returns the sequence the next signature of addr must carry.
func (c *Client) NextNonce(ctx context.Context, addr swapd.Address) (int64, error) {
	models, err := c.Query(ctx, "/auth", addr, false)
	if err != nil {
		return 0, err
	}
	var user sigs.UserData
	switch err := app.UnmarshalOneResult(models, &user); {
	case err == nil:
		return user.Sequence, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// SignAndSubmit wraps msg into a transaction signed by all keys, using the
// current sequence of each signer, and delivers it.
func (c *Client) SignAndSubmit(ctx context.Context, msg swapd.Msg, keys ...*crypto.PrivateKey) (*server.TxResponse, error) {
	chainID, err := c.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	tx := app.NewTx(msg)
	for _, k := range keys {
		seq, err := c.NextNonce(ctx, k.PublicKey().Address())
		if err != nil {
			return nil, errors.Wrap(err, "nonce")
		}
		if err := tx.Sign(k, chainID, seq); err != nil {
			return nil, err
		}
	}
	return c.SubmitTx(ctx, tx)
}

func (c *Client) postTx(ctx context.Context, path string, tx swapd.Tx) (*server.TxResponse, error) {
	raw, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal tx")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.remote+path, bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	var res server.TxResponse
	if err := c.do(req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) get(ctx context.Context, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.remote+path, nil)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return c.do(req, dest)
}

// do runs the request and decodes the JSON body into dest. Failures the
// daemon reports are restored into registered errors.
func (c *Client) do(req *http.Request, dest interface{}) error {
	if id, ok := swapd.GetRequestID(req.Context()); ok {
		req.Header.Set(server.RequestIDHeader, id)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(errors.ErrNetwork, "%s %s: %s", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(errors.ErrNetwork, "read response: %s", err)
	}
	if resp.StatusCode != http.StatusOK {
		var failure server.TxResponse
		if err := json.Unmarshal(body, &failure); err != nil || failure.Code == 0 {
			return errors.Wrapf(errors.ErrNetwork, "%s %s: %s", req.Method, req.URL.Path, resp.Status)
		}
		return remoteError(failure.Code, failure.Log)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return errors.Wrapf(errors.ErrInput, "decode response: %s", err)
	}
	return nil
}

func remoteError(code uint32, log string) error {
	if root, ok := errors.Lookup(code); ok {
		return errors.Wrap(root, log)
	}
	return errors.Wrapf(errors.ErrNetwork, "remote error %d: %s", code, log)
}
