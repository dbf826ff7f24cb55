/*
Package utils contains decorators shared by every application: panic
recovery, logging of each transaction, savepoints and result tagging.
*/
package utils
