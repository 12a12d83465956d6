// Package memory provides the in-memory key-value store for respkv.
//
// Store keeps every key in a single map guarded by one mutex, next to an
// expiration index ordered by (deadline, key). A background reaper removes
// keys as their deadlines pass. It sleeps until the earliest deadline and
// is woken early whenever Set registers a deadline that is sooner than
// anything already indexed.
//
// Reads check the deadline as well, so an expired key is never returned
// even if the reaper has not run yet.
//
// Thread Safety:
//
// All Store methods are safe for concurrent use. No method blocks while
// holding the store lock.
package memory
