package client

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/x/escrow"
	cmn "github.com/tendermint/tendermint/libs/common"
)

// TransactionID is the hash used to identify the transaction
type TransactionID = cmn.HexBytes

// CommitResult is returned from the block (DeliverTx)
// Result is only set on success codes, Err is set if it was a failure code
type CommitResult struct {
	ID     TransactionID
	Height int64
	Result *custody.DeliverResult
	Err    error
}

// Escrow is an escrow together with the custody address it is stored at.
type Escrow struct {
	Holding custody.Address
	*escrow.EscrowAccount
}
