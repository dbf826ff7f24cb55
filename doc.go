/*
Package custody defines the interfaces shared by every part of the escrow
ledger: storage, transactions, handlers, decorators, addresses and the
context helpers that carry block information and the logger.

Context values follow one pattern. For every value T kept in the context
there are two functions:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ panics if the value was previously set, so lower level code cannot
overwrite what the block set up (eg. height, chain id).

Extensions live under x/ and are wired together by an application in cmd/.
*/
package custody
