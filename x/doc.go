/*
Package x contains the pieces shared by all extensions: the Authenticator
abstraction, the condition helpers built on it and the amino helpers used to
persist models.

Each extension lives in its own subpackage and exposes handlers, queries and
an initializer that the application wires together.
*/
package x
