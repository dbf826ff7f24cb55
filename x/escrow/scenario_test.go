package escrow

import (
	"context"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	. "github.com/smartystreets/goconvey/convey"
)

// unit is one whole coin in the smallest denomination.
const unit = 1000000000

func TestEscrowLifecycle(t *testing.T) {
	Convey("Given a funded payer and an empty receiver", t, func() {
		payer := custodytest.NewAddress()
		receiver := custodytest.NewAddress()

		db, bank, ledger := setupLedger(t, map[string]uint64{string(payer): 2 * unit})
		auth := &custodytest.CtxAuth{Key: "signers"}
		r := routes{}
		RegisterRoutes(r, auth, ledger)

		deliver := func(signer custody.Address, msg custody.Msg) error {
			ctx := auth.SetSigners(context.Background(), signer)
			cache := db.CacheWrap()
			if _, err := r.handler(t, msg).Deliver(ctx, cache, &custodytest.Tx{Msg: msg}); err != nil {
				cache.Discard()
				return err
			}
			return cache.Write()
		}

		holding, bump, err := DeriveAddress(receiver, payer, DefaultProgramID)
		So(err, ShouldBeNil)
		ref := reference{Payer: payer, Receiver: receiver, HoldingAccount: holding, Bump: uint32(bump)}

		initMsg := &InitializeMsg{Payer: payer, Receiver: receiver, HoldingAccount: holding, Amount: unit / 2}
		So(deliver(payer, initMsg), ShouldBeNil)

		escrow, err := ledger.Load(db, holding)
		So(err, ShouldBeNil)
		So(escrow, ShouldNotBeNil)
		So(escrow.State, ShouldEqual, StateInitialized)
		So(balanceOf(t, bank, db, holding), ShouldEqual, uint64(unit/2+testReserve))

		Convey("the payer may cancel and get everything back", func() {
			m := PayerCancelMsg(ref)
			So(deliver(payer, &m), ShouldBeNil)

			So(balanceOf(t, bank, db, holding), ShouldEqual, uint64(0))
			So(balanceOf(t, bank, db, payer), ShouldEqual, uint64(2*unit))
			escrow, err := ledger.Load(db, holding)
			So(err, ShouldBeNil)
			So(escrow, ShouldBeNil)
		})

		Convey("the receiver confirms", func() {
			rc := ReceiverConfirmMsg(ref)
			So(deliver(receiver, &rc), ShouldBeNil)

			escrow, err := ledger.Load(db, holding)
			So(err, ShouldBeNil)
			So(escrow.State, ShouldEqual, StateReceiverConfirmed)

			Convey("and the payer settles", func() {
				pc := PayerConfirmMsg(ref)
				So(deliver(payer, &pc), ShouldBeNil)

				So(balanceOf(t, bank, db, receiver), ShouldBeGreaterThanOrEqualTo, uint64(unit/2))
				So(balanceOf(t, bank, db, holding), ShouldEqual, uint64(0))
				So(balanceOf(t, bank, db, payer), ShouldEqual, uint64(2*unit-unit/2))
				escrow, err := ledger.Load(db, holding)
				So(err, ShouldBeNil)
				So(escrow, ShouldBeNil)
			})

			Convey("the payer can no longer cancel", func() {
				m := PayerCancelMsg(ref)
				err := deliver(payer, &m)
				So(errors.ErrState.Is(err), ShouldBeTrue)

				escrow, err := ledger.Load(db, holding)
				So(err, ShouldBeNil)
				So(escrow.State, ShouldEqual, StateReceiverConfirmed)
				So(balanceOf(t, bank, db, holding), ShouldEqual, uint64(unit/2+testReserve))
			})
		})
	})
}
