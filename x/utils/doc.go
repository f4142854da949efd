/*
Package utils contains decorators that are not tied to any single
extension: panic recovery, logging, savepoints and action tagging of
emitted events.
*/
package utils
