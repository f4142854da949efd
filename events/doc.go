/*
Package events fans swap events out to the world after their unit of work
was committed.

A Publisher is handed the events of every committed delivery. It queues
them and a single dispatcher goroutine (Run) forwards each batch to all
configured sinks. Sinks that talk to external systems are wrapped with a
circuit breaker so that an unavailable Redis or Postgres does not slow down
the dispatcher. A failing sink never affects the state of the store, the
events were already committed when they reached the publisher.
*/
package events
