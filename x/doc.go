/*
Package x contains the building blocks shared by the extensions living
below it. Extensions never read signatures themselves, they receive an
Authenticator and ask it who signed the current transaction.
*/
package x
