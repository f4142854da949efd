/*
Package rent charges an allocation fee for every account an extension
creates and refunds it when the account is closed.

The fee is base + per_byte * size, paid in a single configured asset and
held at a reserve address derived from the payer. The reserve can only be
drained by this package, back to the payer that funded it.
*/
package rent
