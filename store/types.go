package store

import "github.com/swapvault/swapd"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = swapd.ReadOnlyKVStore
	SetDeleter       = swapd.SetDeleter
	KVStore          = swapd.KVStore
	Batch            = swapd.Batch
	Iterator         = swapd.Iterator
	CacheableKVStore = swapd.CacheableKVStore
	KVCacheWrap      = swapd.KVCacheWrap
	CommitKVStore    = swapd.CommitKVStore
	Model            = swapd.Model
)
