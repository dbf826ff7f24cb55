/*
Package gconf keeps the configuration of every extension in the database,
one singleton per package name stored under the "_c:<package>" key.

A configuration is loaded from the "conf" section of the genesis file and
read back on every transaction. Not being able to load a configuration is a
critical condition: the chain was not set up correctly and there is nothing
a client can do about it.
*/
package gconf
