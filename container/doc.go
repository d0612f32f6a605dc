// Package container provides the capacity-bounded associative containers
// the memo adapter stores results in.
//
// Every container maps keys to values under a fixed capacity and differs
// only in which entry it evicts when it must make room: FIFO, LFU, LRU,
// MRU, RR (random replacement), and TTL (LRU ordering plus per-entry
// expiry). Containers are not safe for concurrent use; callers serialize
// access.
package container
