package spirv

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
)

// MagicNumber identifies a SPIR-V binary module. Its byte order tells a
// consumer the endianness the module was written with.
const MagicNumber uint32 = 0x07230203

// GeneratorID is the generator magic for modules produced by this package,
// in the high half of header word 2.
const GeneratorID uint32 = 0x00070000

// WordSize is the size of a SPIR-V word in bytes.
const WordSize = 4

// HeaderWords is the fixed length of the module header.
const HeaderWords = 5

// ID names an entity within a module. 0 is reserved as invalid/unassigned.
type ID uint32

// InvalidID is the reserved null identifier.
const InvalidID ID = 0

// Valid reports whether the id names an entity.
func (id ID) Valid() bool { return id != InvalidID }

// Word is a single 32-bit unit of the SPIR-V stream.
type Word = uint32

// Version represents a SPIR-V version.
type Version struct {
	Major uint8
	Minor uint8
}

// Known SPIR-V versions.
var (
	Version1_0 = Version{1, 0}
	Version1_1 = Version{1, 1}
	Version1_2 = Version{1, 2}
	Version1_3 = Version{1, 3}
	Version1_4 = Version{1, 4}
	Version1_5 = Version{1, 5}
	Version1_6 = Version{1, 6}
)

// Word returns the header encoding of the version.
func (v Version) Word() uint32 {
	return uint32(v.Major)<<16 | uint32(v.Minor)<<8
}

// VersionFromWord decodes a header version word.
func VersionFromWord(w uint32) Version {
	return Version{Major: uint8(w >> 16), Minor: uint8(w >> 8)}
}

// String formats the version as "major.minor".
func (v Version) String() string {
	return strconv.Itoa(int(v.Major)) + "." + strconv.Itoa(int(v.Minor))
}

// Known reports whether the version is within the supported range.
func (v Version) Known() bool {
	return v.Word() >= Version1_0.Word() && v.Word() <= Version1_6.Word()
}

// AtMost reports whether v does not exceed the given maximum.
func (v Version) AtMost(max Version) bool {
	return v.Word() <= max.Word()
}

// InstructionSchema tags the instruction encoding used by the module body.
// Only the default schema is defined by the specification.
type InstructionSchema uint32

// SchemaDefault is the only instruction schema currently defined.
const SchemaDefault InstructionSchema = 0

// IsBinary reports whether the buffer starts with the SPIR-V magic number.
func IsBinary(data []byte) bool {
	if len(data) < WordSize {
		return false
	}
	return binary.LittleEndian.Uint32(data) == MagicNumber
}

// IsText reports whether the buffer starts with the magic number spelled as
// a decimal token, the leading word of the textual format.
func IsText(data []byte) bool {
	fields := bytes.Fields(data)
	if len(fields) == 0 {
		return false
	}
	w, err := strconv.ParseUint(string(fields[0]), 10, 32)
	if err != nil {
		return false
	}
	return uint32(w) == MagicNumber
}

// DecodeWords converts a byte buffer into a word stream, little-endian.
func DecodeWords(data []byte) ([]uint32, error) {
	if len(data)%WordSize != 0 {
		return nil, fmt.Errorf("spirv: buffer length %d is not word aligned", len(data))
	}
	words := make([]uint32, len(data)/WordSize)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*WordSize:])
	}
	return words, nil
}

// EncodeWords converts a word stream into a little-endian byte buffer.
func EncodeWords(words []uint32) []byte {
	data := make([]byte, len(words)*WordSize)
	for i, w := range words {
		binary.LittleEndian.PutUint32(data[i*WordSize:], w)
	}
	return data
}
