/*
Package ledger keeps the balances of every account.

A wallet is stored per address and holds a normalized set of coins. Only
registered assets can be moved. Moving funds out of an address requires
that address to be authenticated in the context, whether by a signature or
by a derived authority granted by another extension.
*/
package ledger
