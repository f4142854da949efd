/*
Package errors implements the coded errors used across swapd.

Every error returned by a handler should wrap one of the root errors declared
in this package. The code of the root error is what the HTTP API reports to
clients, the message is what gets logged.

Register a custom root error with Register(code, description). Reuse an
existing one with ErrXyz.New and ErrXyz.Newf, or Wrap/Wrapf an error returned
by a lower layer.

A stacktrace is attached on the first wrap only. Format with %+v to print it.
*/
package errors
