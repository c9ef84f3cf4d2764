// Package shortcode generates the public redirect codes for blinks and
// allocates them against the global uniqueness constraint.
package shortcode

import (
	"crypto/rand"
	"fmt"
)

const (
	// 62-char alphabet keeps codes copy-paste and URL safe.
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// CodeLength is the fixed length of generated redirect codes.
	// 62^8 is about 2.18e14 ids, plenty of headroom before collisions matter.
	CodeLength = 8
)

type Generator struct {
	alphabet string
	mask     byte
	length   int
}

func NewGenerator() *Generator {
	return &Generator{
		alphabet: alphabet,
		mask:     mask(len(alphabet)),
		length:   CodeLength,
	}
}

// mask returns the smallest all-ones bit mask covering alphabetLen-1.
func mask(alphabetLen int) byte {
	m := 1
	for m < alphabetLen-1 {
		m = m<<1 | 1
	}
	return byte(m)
}

// Generate produces one random fixed-length code. Random bytes are mapped
// onto the alphabet by rejection sampling so every character stays uniformly
// distributed.
func (g *Generator) Generate() (string, error) {
	id := make([]byte, g.length)
	buf := make([]byte, g.length*2)

	for pos := 0; pos < g.length; {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}

		for _, b := range buf {
			idx := b & g.mask
			if int(idx) >= len(g.alphabet) {
				continue
			}
			id[pos] = g.alphabet[idx]
			pos++
			if pos == g.length {
				break
			}
		}
	}

	return string(id), nil
}
