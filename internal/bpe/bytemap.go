// Package bpe implements a byte-level BPE merge tracer: it pre-tokenizes an
// input string the way GPT-2 does, maps every byte to a printable stand-in
// rune, then repeatedly merges the most frequent adjacent symbol pair,
// recording one replayable Step per merge.
package bpe

import "unicode/utf8"

// byteToRune maps each raw byte 0..255 to a printable stand-in rune.
// runeToByte is the exact inverse.
//
// GPT-2 rules: visible ASCII ('!'..'~') and the two visible Latin-1 ranges
// ('¡'..'¬', '®'..'ÿ') map to their own code points; the remaining bytes
// (controls, space, the Latin-1 gaps) take consecutive code points from
// U+0100 in increasing byte order. The mapping is a bijection over 0..255.
var (
	byteToRune [256]rune
	runeToByte map[rune]byte
)

func init() {
	runeToByte = make(map[rune]byte, 256)

	self := func(lo, hi byte) {
		for b := lo; ; b++ {
			byteToRune[b] = rune(b)
			runeToByte[rune(b)] = b
			if b == hi {
				return
			}
		}
	}
	self('!', '~')
	self(0xA1, 0xAC) // ¡..¬
	self(0xAE, 0xFF) // ®..ÿ

	// The self-mapped ranges all land on nonzero runes, so a zero entry
	// still means "unassigned" here (byte 0 is itself unassigned).
	next := rune(0x100)
	for b := 0; b < 256; b++ {
		if byteToRune[b] == 0 {
			byteToRune[b] = next
			runeToByte[next] = byte(b)
			next++
		}
	}
}

// SymbolForByte returns the stand-in rune for a raw byte as a one-rune string.
func SymbolForByte(b byte) string {
	return string(byteToRune[b])
}

// DecodeSymbol restores the raw bytes a symbol stands for. Each rune that is
// a byte stand-in decodes to its original byte; any other rune (which cannot
// be produced by this engine, but may appear in caller-supplied strings)
// contributes its literal UTF-8 bytes.
func DecodeSymbol(sym string) []byte {
	out := make([]byte, 0, len(sym))
	for _, r := range sym {
		if b, ok := runeToByte[r]; ok {
			out = append(out, b)
			continue
		}
		var tmp [utf8.UTFMax]byte
		n := utf8.EncodeRune(tmp[:], r)
		out = append(out, tmp[:n]...)
	}
	return out
}
