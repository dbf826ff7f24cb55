package client

import (
	"context"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
)

// Client wraps a tendermint connection to provide
// simple access to the basic data structures of the ledger.
//
// Basic accessors are declared here. The escrow specific API is
// built on top of them in escrow.go.
type Client struct {
	conn rpcclient.ABCIClient
}

// NewClient wraps a Client around an existing tendermint connection.
func NewClient(conn rpcclient.ABCIClient) *Client {
	return &Client{conn: conn}
}

// NewHTTPConnection takes a URL and sends all requests to the remote node
func NewHTTPConnection(remote string) rpcclient.Client {
	return rpcclient.NewHTTP(remote, "/websocket")
}

// Height returns the height of the last committed block.
func (c *Client) Height(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, errors.Wrap(errors.ErrTimeout, err.Error())
	}
	info, err := c.conn.ABCIInfo()
	if err != nil {
		return 0, errors.Wrapf(errors.ErrNetwork, "abci info: %s", err)
	}
	return info.Response.LastBlockHeight, nil
}

// Query returns the models stored under path for data, read from the last
// committed state. A missing key results in an empty list.
func (c *Client) Query(ctx context.Context, path string, data []byte) ([]custody.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrTimeout, err.Error())
	}
	res, err := c.conn.ABCIQuery(path, data)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "query %s: %s", path, err)
	}
	resp := res.Response
	if resp.IsErr() {
		return nil, errors.ABCIError(resp.Code, resp.Log)
	}
	if len(resp.Key) == 0 {
		return nil, nil
	}

	var keys, values app.ResultSet
	if err := keys.Unmarshal(resp.Key); err != nil {
		return nil, errors.Wrap(err, "keys")
	}
	if err := values.Unmarshal(resp.Value); err != nil {
		return nil, errors.Wrap(err, "values")
	}
	return app.JoinResults(&keys, &values)
}

// SubmitTx will submit the tx to the mempool and return once CheckTx
// passed. The transaction is not yet part of a block.
func (c *Client) SubmitTx(ctx context.Context, tx custody.Tx) (TransactionID, error) {
	bz, err := marshalTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	res, err := c.conn.BroadcastTxSync(bz)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "submit tx: %s", err)
	}

	// a checktx error is handled like any other error... didn't make it into mempool... will not make it into block
	if res.Code != abci.CodeTypeOK {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return res.Hash, nil
}

// CommitTx will block on both Check and Deliver, returning when it is in a block
func (c *Client) CommitTx(ctx context.Context, tx custody.Tx) (*CommitResult, error) {
	bz, err := marshalTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	res, err := c.conn.BroadcastTxCommit(bz)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "commit tx: %s", err)
	}
	if res.CheckTx.IsErr() {
		return nil, errors.ABCIError(res.CheckTx.Code, res.CheckTx.Log)
	}
	return commitResult(res), nil
}

func marshalTx(ctx context.Context, tx custody.Tx) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrTimeout, err.Error())
	}
	bz, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "marshaling: %s", err)
	}
	return bz, nil
}

func commitResult(res *ctypes.ResultBroadcastTxCommit) *CommitResult {
	out := &CommitResult{
		ID:     res.Hash,
		Height: res.Height,
	}
	if res.DeliverTx.IsErr() {
		out.Err = errors.ABCIError(res.DeliverTx.Code, res.DeliverTx.Log)
		return out
	}
	out.Result = &custody.DeliverResult{
		Data:    res.DeliverTx.Data,
		Log:     res.DeliverTx.Log,
		Tags:    res.DeliverTx.Tags,
		GasUsed: res.DeliverTx.GasUsed,
	}
	return out
}
