package spirv

import (
	"fmt"

	"fortio.org/safecast"
)

// MaxWordCount is the largest instruction word count the 16-bit frame
// field can express.
const MaxWordCount = 0xFFFF

// Instruction is one framed SPIR-V instruction: an opcode and its payload
// words (result type id, result id, operands — per-opcode layout).
type Instruction struct {
	Opcode Op
	Words  []uint32
}

// Encode returns the instruction's wire words, starting with the packed
// (word-count | opcode) frame word.
func (i Instruction) Encode() ([]uint32, error) {
	wc, err := safecast.Conv[uint16](len(i.Words) + 1)
	if err != nil {
		return nil, fmt.Errorf("spirv: %s payload of %d words overflows the frame: %w", i.Opcode, len(i.Words), err)
	}
	out := make([]uint32, 0, len(i.Words)+1)
	out = append(out, uint32(wc)<<16|uint32(i.Opcode))
	return append(out, i.Words...), nil
}

// WordCount returns the framed length of the instruction in words.
func (i Instruction) WordCount() int { return len(i.Words) + 1 }

// InstructionBuilder accumulates payload words for one instruction.
type InstructionBuilder struct {
	words []uint32
}

// NewInstructionBuilder creates an empty builder.
func NewInstructionBuilder() *InstructionBuilder {
	return &InstructionBuilder{words: make([]uint32, 0, 8)}
}

// AddWord appends a literal word.
func (b *InstructionBuilder) AddWord(word uint32) {
	b.words = append(b.words, word)
}

// AddID appends an id operand.
func (b *InstructionBuilder) AddID(id ID) {
	b.words = append(b.words, uint32(id))
}

// AddString appends a nul-terminated UTF-8 string padded to a word
// boundary.
func (b *InstructionBuilder) AddString(s string) {
	b.words = append(b.words, EncodeString(s)...)
}

// Build finishes the instruction with the given opcode.
func (b *InstructionBuilder) Build(opcode Op) Instruction {
	return Instruction{Opcode: opcode, Words: b.words}
}

// EncodeString packs a string into nul-terminated, zero-padded words.
func EncodeString(s string) []uint32 {
	raw := append([]byte(s), 0)
	for len(raw)%WordSize != 0 {
		raw = append(raw, 0)
	}
	words := make([]uint32, 0, len(raw)/WordSize)
	for i := 0; i < len(raw); i += WordSize {
		words = append(words, uint32(raw[i])|uint32(raw[i+1])<<8|uint32(raw[i+2])<<16|uint32(raw[i+3])<<24)
	}
	return words
}

// DecodeString reads a nul-terminated string from the front of words and
// returns it with the number of words consumed.
func DecodeString(words []uint32) (string, int) {
	var raw []byte
	for n, w := range words {
		for shift := 0; shift < 32; shift += 8 {
			b := byte(w >> shift)
			if b == 0 {
				return string(raw), n + 1
			}
			raw = append(raw, b)
		}
	}
	return string(raw), len(words)
}
