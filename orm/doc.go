/*
Package orm provides typed buckets over a KVStore.

A ModelBucket stores one kind of Model under its own key prefix. Secondary
indexes are kept in the same store and updated in the same unit of work as
the entity, so an index can never point at an entity that does not exist.
*/
package orm
