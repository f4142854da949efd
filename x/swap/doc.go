/*
Package swap implements a two party, asset for asset escrow.

A maker opens a trade by locking an amount of one asset in a vault and
stating the amount of a second asset wanted in return. Any taker can fulfill
the trade by paying the requested amount to the maker, which releases the
vault to the taker. Until then the maker can cancel and get the deposit back.

The trade record and its vault are created together and destroyed together.
Both live at addresses derived from the program identity, the maker and a
maker chosen nonce. Only this package can move funds out of a vault: the
ledger accepts the outbound transfer because the vault condition, bound to
the specific trade address, is granted in the context for the duration of
the release.

A closed trade leaves a tombstone at its address. Every later operation on
that address, including opening it again with the same nonce, fails with
ErrAlreadyClosed.
*/
package swap
