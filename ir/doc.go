// Package ir holds the in-memory representation of a SPIR-V module:
// an id-keyed entity registry with category bookkeeping, capability and
// extension accounting, debug metadata, and the binary/textual codecs
// layered on top of it.
//
// A Module is built either programmatically (type and constant
// factories deduplicate on structural identity, ids are allocated from
// a monotonic counter) or by decoding an existing binary. Serialization
// emits the sections in the order the format mandates and
// topologically sorts the type/constant/variable graph so every
// definition precedes its uses.
package ir
