// Package asm is the textual codec for SPIR-V modules. The text form
// mirrors the binary structure token for token: the five header words
// as decimal, then one instruction per line as a word count, a
// mnemonic, and the payload words. Because the writer renders from the
// serialized word stream, the text form follows the exact section
// ordering of the binary form.
//
// The package also carries a human-oriented disassembler and the
// buffer conversion entry points used by tooling.
package asm
