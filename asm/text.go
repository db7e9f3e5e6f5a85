package asm

import (
	"fmt"
	"strconv"
	"strings"

	spirv "github.com/gogpu/spirv"
	"github.com/gogpu/spirv/ir"
)

// Text serializes a module to its textual form.
func Text(m *ir.Module) (string, error) {
	words, err := m.Words()
	if err != nil {
		return "", err
	}
	return TextFromWords(words)
}

// TextFromWords renders an already serialized word stream as text. The
// first line carries the five header words; every following line is one
// instruction: word count, mnemonic (or decimal opcode when the
// mnemonic is unknown), payload words.
func TextFromWords(words []uint32) (string, error) {
	if len(words) < spirv.HeaderWords {
		return "", fmt.Errorf("asm: stream of %d words has no header", len(words))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d %d %d %d %d\n",
		words[0], words[1], words[2], words[3], words[4])
	i := spirv.HeaderWords
	for i < len(words) {
		frame := words[i]
		wc := int(frame >> 16)
		op := spirv.Op(frame & 0xFFFF)
		if wc == 0 || i+wc > len(words) {
			return "", fmt.Errorf("asm: bad frame at word %d", i)
		}
		fmt.Fprintf(&b, "%d ", wc)
		if op.Known() {
			b.WriteString(op.String())
		} else {
			b.WriteString(strconv.Itoa(int(op)))
		}
		for _, w := range words[i+1 : i+wc] {
			fmt.Fprintf(&b, " %d", w)
		}
		b.WriteByte('\n')
		i += wc
	}
	return b.String(), nil
}

// ParseWords tokenizes the textual form back into the binary word
// stream. Semicolons start comments that run to end of line. Opcodes
// may be spelled as mnemonics or decimal numbers.
func ParseWords(text string) ([]uint32, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return nil, err
	}
	if len(tokens) < spirv.HeaderWords {
		return nil, fmt.Errorf("asm: %d header tokens, want %d", len(tokens), spirv.HeaderWords)
	}
	words := make([]uint32, 0, len(tokens))
	for _, t := range tokens[:spirv.HeaderWords] {
		w, err := parseWord(t)
		if err != nil {
			return nil, fmt.Errorf("asm: header: %w", err)
		}
		words = append(words, w)
	}
	if words[0] != spirv.MagicNumber {
		return nil, fmt.Errorf("asm: bad magic number %d", words[0])
	}
	rest := tokens[spirv.HeaderWords:]
	for len(rest) > 0 {
		wc, err := parseWord(rest[0])
		if err != nil {
			return nil, fmt.Errorf("asm: word count: %w", err)
		}
		if wc == 0 {
			return nil, fmt.Errorf("asm: zero word count")
		}
		// A wc-word instruction spans wc+1 tokens: the frame word is
		// spelled as a count token plus a mnemonic token.
		if int(wc)+1 > len(rest) {
			return nil, fmt.Errorf("asm: instruction of %d words truncated at %d tokens", wc, len(rest))
		}
		op, err := parseOpcode(rest[1])
		if err != nil {
			return nil, err
		}
		words = append(words, uint32(wc)<<16|uint32(op))
		for _, t := range rest[2 : wc+1] {
			w, err := parseWord(t)
			if err != nil {
				return nil, fmt.Errorf("asm: %s operand: %w", op, err)
			}
			words = append(words, w)
		}
		rest = rest[wc+1:]
	}
	return words, nil
}

// Parse reads the textual form into a module under a policy.
func Parse(text string, policy spirv.Policy) (*ir.Module, error) {
	words, err := ParseWords(text)
	if err != nil {
		return nil, err
	}
	return ir.DecodeWithPolicy(spirv.EncodeWords(words), policy)
}

func tokenize(text string) ([]string, error) {
	var tokens []string
	for _, line := range strings.Split(text, "\n") {
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = line[:i]
		}
		tokens = append(tokens, strings.Fields(line)...)
	}
	return tokens, nil
}

func parseWord(tok string) (uint32, error) {
	w, err := strconv.ParseUint(tok, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("token %q is not a word", tok)
	}
	return uint32(w), nil
}

func parseOpcode(tok string) (spirv.Op, error) {
	if op, ok := spirv.OpFromName(tok); ok {
		return op, nil
	}
	n, err := strconv.ParseUint(tok, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("asm: unknown opcode %q", tok)
	}
	return spirv.Op(n), nil
}
