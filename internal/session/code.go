package session

import (
	"math/rand/v2"
	"strings"
)

// Session codes are short display labels for sharing out loud or over a
// photo of the screen, so the alphabet omits glyphs that read ambiguously
// in print: 0/O and 1/I are excluded, leaving 32 symbols.
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 4
)

// CodeGenerator produces session codes. No uniqueness check is made across
// sessions; the code is a display convenience, not a distributed key.
type CodeGenerator struct {
	intn func(n int) int
}

// NewCodeGenerator returns a generator backed by the shared random source.
func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{intn: rand.IntN}
}

// NewSeededCodeGenerator returns a deterministic generator for tests.
func NewSeededCodeGenerator(seed uint64) *CodeGenerator {
	r := rand.New(rand.NewPCG(seed, seed))
	return &CodeGenerator{intn: r.IntN}
}

// Code draws a fixed-length code uniformly from the restricted alphabet.
func (g *CodeGenerator) Code() string {
	var b strings.Builder
	b.Grow(codeLength)
	for range codeLength {
		b.WriteByte(codeAlphabet[g.intn(len(codeAlphabet))])
	}
	return b.String()
}
