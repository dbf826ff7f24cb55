/*
Package cash keeps the native currency balance of every account.

There is no logic in the currency, except that a balance may never go below
zero or overflow. Thus, this implementation is referred to as cash. Simple
and safe.

An account is either controlled by the key its address was made of, or owned
by a program. Only the owning program may move funds out of a program owned
account, and closing such an account is the only way to remove it.
*/
package cash
