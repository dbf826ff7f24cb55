package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x"
)

const (
	// pay escrow cost up-front
	initializeCost      int64 = 300
	payerCancelCost     int64 = 50
	receiverConfirmCost int64 = 50
	payerConfirmCost    int64 = 50
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r custody.Registry, auth x.Authenticator, ledger Ledger) {
	r.Handle(&InitializeMsg{}, InitializeHandler{auth: auth, ledger: ledger})
	r.Handle(&PayerCancelMsg{}, PayerCancelHandler{auth: auth, ledger: ledger})
	r.Handle(&ReceiverConfirmMsg{}, ReceiverConfirmHandler{auth: auth, ledger: ledger})
	r.Handle(&PayerConfirmMsg{}, PayerConfirmHandler{auth: auth, ledger: ledger})
}

// RegisterQuery will register this bucket as "/escrows", together with
// the "/escrows/payer" and "/escrows/receiver" indexes
func RegisterQuery(qr custody.QueryRouter) {
	NewBucket().Register("escrows", qr)
}

// InitializeHandler opens a new escrow.
type InitializeHandler struct {
	auth   x.Authenticator
	ledger Ledger
}

var _ custody.Handler = InitializeHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h InitializeHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: initializeCost}, nil
}

// Deliver allocates the custody account and deposits the amount together
// with the account reserve.
func (h InitializeHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, bump, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	reserve, err := h.ledger.Reserve(db)
	if err != nil {
		return nil, err
	}
	deposit := msg.Amount + reserve
	if deposit < msg.Amount {
		return nil, errors.Wrap(errors.ErrOverflow, "amount with reserve")
	}

	escrow := &EscrowAccount{
		Payer:    msg.Payer,
		Receiver: msg.Receiver,
		Amount:   msg.Amount,
		Bump:     uint32(bump),
		State:    StateInitialized,
	}
	if err := h.ledger.CreateAccount(db, msg.HoldingAccount, deposit, escrow); err != nil {
		return nil, err
	}

	custody.GetLogger(ctx).Info("escrow initialized",
		"escrow", msg.HoldingAccount,
		"payer", msg.Payer,
		"receiver", msg.Receiver,
		"amount", msg.Amount,
		"reserve", reserve)
	return &custody.DeliverResult{Data: msg.HoldingAccount}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h InitializeHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*InitializeMsg, uint8, error) {
	var msg InitializeMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, 0, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Payer) {
		return nil, 0, errors.Wrap(errors.ErrUnauthorized, "payer signature missing")
	}

	program, err := h.ledger.Program(db)
	if err != nil {
		return nil, 0, err
	}
	addr, bump, err := DeriveAddress(msg.Receiver, msg.Payer, program)
	if err != nil {
		return nil, 0, errors.Wrap(err, "derive custody address")
	}
	if !addr.Equals(msg.HoldingAccount) {
		return nil, 0, errors.Wrapf(ErrAddressMismatch, "expected %s, got %s", addr, msg.HoldingAccount)
	}

	existing, err := h.ledger.Load(db, msg.HoldingAccount)
	if err != nil {
		return nil, 0, err
	}
	if existing != nil {
		return nil, 0, errors.Wrapf(ErrAlreadyInitialized, "escrow %s is %s", msg.HoldingAccount, existing.State)
	}
	return &msg, bump, nil
}

// PayerCancelHandler refunds an escrow the receiver did not confirm yet.
type PayerCancelHandler struct {
	auth   x.Authenticator
	ledger Ledger
}

var _ custody.Handler = PayerCancelHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h PayerCancelHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: payerCancelCost}, nil
}

// Deliver returns the whole custody balance to the payer and closes the
// account.
func (h PayerCancelHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	refund, err := h.ledger.CloseAccount(db, msg.HoldingAccount, escrow.Payer)
	if err != nil {
		return nil, err
	}
	custody.GetLogger(ctx).Info("escrow cancelled",
		"escrow", msg.HoldingAccount,
		"payer", escrow.Payer,
		"refund", refund)
	return &custody.DeliverResult{}, nil
}

func (h PayerCancelHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*PayerCancelMsg, *EscrowAccount, error) {
	var msg PayerCancelMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	escrow, err := loadReferenced(db, h.ledger, (*reference)(&msg))
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, escrow.Payer) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "payer signature missing")
	}
	switch escrow.State {
	case StateInitialized:
		return &msg, escrow, nil
	case StateReceiverConfirmed:
		return nil, nil, errors.Wrap(errors.ErrState, "receiver has already confirmed their side of the process")
	default:
		return nil, nil, errors.Wrapf(errors.ErrState, "escrow is %s", escrow.State)
	}
}

// ReceiverConfirmHandler records the receiver's consent.
type ReceiverConfirmHandler struct {
	auth   x.Authenticator
	ledger Ledger
}

var _ custody.Handler = ReceiverConfirmHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h ReceiverConfirmHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: receiverConfirmCost}, nil
}

// Deliver advances the escrow state. No funds are moved.
func (h ReceiverConfirmHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	escrow.State = StateReceiverConfirmed
	if err := h.ledger.Save(db, msg.HoldingAccount, escrow); err != nil {
		return nil, err
	}
	custody.GetLogger(ctx).Info("escrow confirmed by receiver",
		"escrow", msg.HoldingAccount,
		"receiver", escrow.Receiver,
		"state", escrow.State)
	return &custody.DeliverResult{}, nil
}

func (h ReceiverConfirmHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*ReceiverConfirmMsg, *EscrowAccount, error) {
	var msg ReceiverConfirmMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	escrow, err := loadReferenced(db, h.ledger, (*reference)(&msg))
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, escrow.Receiver) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "receiver signature missing")
	}
	switch escrow.State {
	case StateInitialized:
		return &msg, escrow, nil
	case StateReceiverConfirmed:
		return nil, nil, errors.Wrap(errors.ErrState, "awaiting payer confirmation")
	default:
		return nil, nil, errors.Wrapf(errors.ErrState, "escrow is %s", escrow.State)
	}
}

// PayerConfirmHandler settles a confirmed escrow.
type PayerConfirmHandler struct {
	auth   x.Authenticator
	ledger Ledger
}

var _ custody.Handler = PayerConfirmHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h PayerConfirmHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: payerConfirmCost}, nil
}

// Deliver pays the amount to the receiver, returns the reserve to the
// payer and closes the account.
func (h PayerConfirmHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ledger.Transfer(db, msg.HoldingAccount, escrow.Receiver, escrow.Amount); err != nil {
		return nil, errors.Wrap(err, "pay receiver")
	}
	rest, err := h.ledger.CloseAccount(db, msg.HoldingAccount, escrow.Payer)
	if err != nil {
		return nil, err
	}
	custody.GetLogger(ctx).Info("escrow settled",
		"escrow", msg.HoldingAccount,
		"receiver", escrow.Receiver,
		"amount", escrow.Amount,
		"payer", escrow.Payer,
		"returned", rest)
	return &custody.DeliverResult{}, nil
}

func (h PayerConfirmHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*PayerConfirmMsg, *EscrowAccount, error) {
	var msg PayerConfirmMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	escrow, err := loadReferenced(db, h.ledger, (*reference)(&msg))
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, escrow.Payer) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "payer signature missing")
	}
	switch escrow.State {
	case StateReceiverConfirmed:
		return &msg, escrow, nil
	case StateInitialized:
		return nil, nil, errors.Wrap(errors.ErrState, "receiver has not yet confirmed their side of the escrow")
	default:
		return nil, nil, errors.Wrapf(errors.ErrState, "escrow is %s", escrow.State)
	}
}

// loadReferenced re-derives the custody address from the message and
// returns the escrow stored there.
func loadReferenced(db custody.ReadOnlyKVStore, ledger Ledger, ref *reference) (*EscrowAccount, error) {
	program, err := ledger.Program(db)
	if err != nil {
		return nil, err
	}
	if err := VerifyAddress(ref.Receiver, ref.Payer, program, uint8(ref.Bump), ref.HoldingAccount); err != nil {
		return nil, err
	}
	escrow, err := ledger.Load(db, ref.HoldingAccount)
	if err != nil {
		return nil, err
	}
	if escrow == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "escrow %s", ref.HoldingAccount)
	}
	if escrow.Bump != ref.Bump {
		return nil, errors.Wrapf(ErrAddressMismatch, "stored bump %d, got %d", escrow.Bump, ref.Bump)
	}
	if !escrow.Payer.Equals(ref.Payer) || !escrow.Receiver.Equals(ref.Receiver) {
		return nil, errors.Wrap(ErrAddressMismatch, "parties differ from the stored escrow")
	}
	return escrow, nil
}
