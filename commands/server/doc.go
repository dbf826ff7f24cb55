/*
Package server contains the commands every custody daemon shares: writing
the genesis app_state, validating a genesis file and running the ABCI
socket server tendermint connects to.
*/
package server
