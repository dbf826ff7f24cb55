/*
Package escrow implements a two party escrow.

A payer deposits a fixed amount of native currency into a custody account
earmarked for a receiver. The custody account lives at an address derived
from both parties and the program identity, no private key exists for it and
only this program may move funds out of it.

The lifecycle of a custody account is

	initialize         payer deposits, state is Initialized
	payer_cancel       only while Initialized, everything returns to the payer
	receiver_confirm   Initialized becomes ReceiverConfirmed
	payer_confirm      only once ReceiverConfirmed, the amount goes to the
	                   receiver and the reserve back to the payer

Both terminal operations close the account, after which the same pair may
initialize a new escrow at the same address.
*/
package escrow
