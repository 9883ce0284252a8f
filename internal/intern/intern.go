// Package intern canonicalizes byte sequences to stable IDs backed by a bump
// arena, grounded on yecc's arena.c/string_intern.c: an FNV-1a hash keyed by
// (bytes, length), a chained hash table, and an arena that never moves or
// frees a block once carved, so returned IDs stay valid for the Interner's
// whole lifetime.
package intern

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"
)

// FNV-1a 64-bit constants (https://en.wikipedia.org/wiki/Fowler%E2%80%93Noll%E2%80%93Vo_hash_function).
const (
	offsetBasis uint64 = 0xcbf29ce484222325
	prime       uint64 = 0x100000001b3
)

func fnv1a(b []byte) uint64 {
	h := offsetBasis
	for _, c := range b {
		h ^= uint64(c)
		h *= prime
	}
	return h
}

// ID identifies an interned byte sequence. The zero ID always denotes "".
type ID uint32

// NoID is the ID of the empty string, reserved at construction.
const NoID ID = 0

const blockSize = 4096

// arena is a bump allocator of fixed-size blocks. Once a slice has been
// carved out of a block it is never resized or reused, so every ID the
// Interner hands out stays valid until the Interner itself is dropped.
type arena struct {
	cur []byte
}

func (a *arena) alloc(n int) []byte {
	if n == 0 {
		return nil
	}
	if n > blockSize {
		return make([]byte, n)
	}
	if cap(a.cur)-len(a.cur) < n {
		a.cur = make([]byte, 0, blockSize)
	}
	start := len(a.cur)
	a.cur = a.cur[:start+n]
	return a.cur[start : start+n : start+n]
}

type entry struct {
	hash uint64
	data []byte
}

const (
	initialBuckets = 64
	maxLoadFactor  = 0.75
)

// Interner canonicalizes byte sequences to IDs: Intern(x) == Intern(y)
// whenever x and y are byte-equal. Not safe for concurrent use — callers
// that lex multiple files concurrently give each lexer its own Interner
// (§5), matching the reference's non-singleton escape hatch.
type Interner struct {
	arena   arena
	entries []entry
	buckets [][]ID
}

// New returns an Interner with ID 0 reserved for the empty string.
func New() *Interner {
	in := &Interner{
		entries: []entry{{hash: fnv1a(nil), data: nil}},
		buckets: make([][]ID, initialBuckets),
	}
	in.insert(NoID)
	return in
}

func (in *Interner) bucketIndex(h uint64, n int) int {
	return int(h & uint64(n-1))
}

func (in *Interner) lookup(h uint64, b []byte) (ID, bool) {
	for _, id := range in.buckets[in.bucketIndex(h, len(in.buckets))] {
		if e := in.entries[id]; e.hash == h && bytes.Equal(e.data, b) {
			return id, true
		}
	}
	return 0, false
}

func (in *Interner) insert(id ID) {
	idx := in.bucketIndex(in.entries[id].hash, len(in.buckets))
	in.buckets[idx] = append(in.buckets[idx], id)
}

func (in *Interner) rehash(newSize int) {
	newBuckets := make([][]ID, newSize)
	for _, bucket := range in.buckets {
		for _, id := range bucket {
			idx := in.bucketIndex(in.entries[id].hash, newSize)
			newBuckets[idx] = append(newBuckets[idx], id)
		}
	}
	in.buckets = newBuckets
}

// Intern returns the stable ID for b, copying it into the arena on first
// sight. Equal byte sequences always return the same ID.
func (in *Interner) Intern(b []byte) ID {
	h := fnv1a(b)
	if id, ok := in.lookup(h, b); ok {
		return id
	}

	stored := in.arena.alloc(len(b))
	copy(stored, b)

	next, err := safecast.Conv[uint32](len(in.entries))
	if err != nil {
		panic(fmt.Errorf("intern: too many distinct strings: %w", err))
	}
	id := ID(next)
	in.entries = append(in.entries, entry{hash: h, data: stored})

	if float64(len(in.entries)) > maxLoadFactor*float64(len(in.buckets)) {
		in.rehash(len(in.buckets) * 2)
	}
	in.insert(id)
	return id
}

// InternString is Intern over the UTF-8 bytes of s.
func (in *Interner) InternString(s string) ID {
	return in.Intern([]byte(s))
}

// Bytes returns the interned bytes for id. Panics on an unknown ID: IDs are
// only ever handed out by this Interner, so an unknown one is a caller bug.
func (in *Interner) Bytes(id ID) []byte {
	return in.entries[id].data
}

// String is Bytes as a string (a copy; the arena's backing bytes stay owned
// by the Interner).
func (in *Interner) String(id ID) string {
	return string(in.entries[id].data)
}

// Len returns the number of distinct interned sequences, including the
// reserved empty string.
func (in *Interner) Len() int {
	return len(in.entries)
}
