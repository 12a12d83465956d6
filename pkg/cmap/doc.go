// Package cmap provides a concurrent map sharded by key hash.
//
// Keys are spread over a fixed set of shards with seeded murmur3, each
// guarded by its own RWMutex. respkv uses it for the RESP connection
// registry and the per-client rate limiters.
//
//	conns := cmap.New[string, *Conn]()
//	conns.Set(id, conn)
//	defer conns.Delete(id)
package cmap
