/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension keeps a single configuration object under the "_c:<package>"
key. The object is written once from the "conf" section of the genesis file
and is only read afterwards.

Not being able to get a configuration value is a critical condition for the
application and there is no recovery path for the client. Callers that run
at startup should fail hard.
*/
package gconf
