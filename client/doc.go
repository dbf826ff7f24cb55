/*
Package client talks to an escrowd node over the tendermint RPC. It
submits signed transactions and reads wallets and escrows from the
committed state.
*/
package client
