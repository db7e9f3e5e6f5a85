package asm

import (
	"fmt"

	spirv "github.com/gogpu/spirv"
	"github.com/gogpu/spirv/ir"
)

// Convert transforms a buffer between binary and textual form, round
// tripping through an in-memory module under an everything-allowed
// policy. toText selects the output form; a buffer already in the
// requested form is re-serialized, which normalizes section ordering.
func Convert(data []byte, toText bool) ([]byte, error) {
	m, err := load(data)
	if err != nil {
		return nil, err
	}
	if toText {
		text, err := Text(m)
		if err != nil {
			return nil, err
		}
		return []byte(text), nil
	}
	return m.Bytes()
}

// load sniffs the buffer form and parses it permissively. A module
// that parsed with recorded errors is rejected outright.
func load(data []byte) (*ir.Module, error) {
	var (
		m   *ir.Module
		err error
	)
	switch {
	case spirv.IsBinary(data):
		m, err = ir.DecodeWithPolicy(data, spirv.PermissivePolicy())
	case spirv.IsText(data):
		m, err = Parse(string(data), spirv.PermissivePolicy())
	default:
		return nil, fmt.Errorf("asm: buffer is neither a binary nor a textual module")
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}
