// Package spirv defines the wire-level vocabulary of the SPIR-V binary
// format: the magic number and header layout, opcode and enum tables,
// capability and extension requirements, instruction word packing, and the
// translation policy (maximum version, extension allow-list).
//
// The in-memory module container built on top of this vocabulary lives in
// the ir package; the textual codec lives in the asm package.
//
// A SPIR-V binary is a stream of 32-bit little-endian words. It opens with
// a five word header (magic, version, generator, id bound, schema) followed
// by instructions, each framed as a (word-count:16 | opcode:16) word and
// that many payload words:
//
//	words, err := spirv.DecodeWords(data)
//	if err != nil {
//		log.Fatal(err)
//	}
//	inst := spirv.Instruction{Opcode: spirv.OpCapability}
//
// Identifiers are unsigned 32-bit values; 0 is reserved as the invalid id.
package spirv
