/*
Package swapd defines the common interfaces that tie the swap daemon
together: addresses and conditions, key-value stores, messages and
transactions, handlers and decorators, genesis options and queries.

Context is passed through context.Context between the executor, the
decorators and the handlers. Every value that we want to support in the
context has a pair of functions:

	WithXYZ(Context, T) Context
	GetXYZ(Context) (val T, ok bool)

WithXYZ panics if the value was previously set, so that lower level modules
can never overwrite what the executor decided (eg. chain id, block time).
*/
package swapd
