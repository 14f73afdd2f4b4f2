// Package prng implements the deterministic pseudo-random stream used for
// terrain generation and AI decision-making. Identical seeds must produce
// identical sequences bit-for-bit on every platform; the state update below
// uses only fixed-width integer XOR/add/rotate so that holds by construction.
package prng

import (
	"fmt"
	"strconv"

	"github.com/freeserf/freeserf-sub004/freeserferr"
)

// Stream is the 48-bit generator state: three 16-bit words advanced as a
// cyclic XOR/add shift register.
type Stream struct {
	s0, s1, s2 uint16
}

// NewStream builds a Stream directly from its three state words.
func NewStream(s0, s1, s2 uint16) *Stream {
	return &Stream{s0: s0, s1: s1, s2: s2}
}

// NewStreamFromSeedString parses a decimal-digit seed (e.g.
// "8667715887436237") into three state words by splitting the digit string
// into three roughly equal runs and parsing each modulo 2^16. Empty or
// non-digit input is rejected.
func NewStreamFromSeedString(seed string) (*Stream, error) {
	if len(seed) == 0 {
		return nil, fmt.Errorf("%w: empty random seed string", freeserferr.ErrInvalidArgument)
	}
	for _, r := range seed {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("%w: random seed %q contains non-digit characters", freeserferr.ErrInvalidArgument, seed)
		}
	}
	n := len(seed)
	third := (n + 2) / 3
	parts := make([]string, 0, 3)
	for i := 0; i < n; i += third {
		end := i + third
		if end > n {
			end = n
		}
		parts = append(parts, seed[i:end])
	}
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	words := make([]uint16, 3)
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(parts[i], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: random seed segment %q: %v", freeserferr.ErrInvalidArgument, parts[i], err)
		}
		words[i] = uint16(v % 65536)
	}
	return NewStream(words[0], words[1], words[2]), nil
}

// Next advances the state by one step and returns the new 16-bit draw. The
// update XORs the two oldest words, folds in the newest, and rotates the
// three words through the register.
func (s *Stream) Next() uint16 {
	r := s.s0 ^ s.s1
	r += s.s2
	s.s0 = s.s1
	s.s1 = s.s2
	s.s2 = r
	return r
}

// NextSeed draws two consecutive 16-bit values and packs them into a 32-bit
// word, high word first. Terrain generation does not use it: its
// preserve-bugs height leak takes the upper byte of a single 16-bit Next
// draw.
func (s *Stream) NextSeed() uint32 {
	hi := s.Next()
	lo := s.Next()
	return uint32(hi)<<16 | uint32(lo)
}

// Xor returns a new Stream whose state is the word-wise XOR of s and other,
// used to mix a constant salt into a derived seed without consuming either
// source stream.
func (s *Stream) Xor(other *Stream) *Stream {
	return NewStream(s.s0^other.s0, s.s1^other.s1, s.s2^other.s2)
}

// String renders the state as three zero-padded decimal words, colon
// separated; this is the canonical serialization round-tripped by
// ParseStream.
func (s *Stream) String() string {
	return fmt.Sprintf("%05d:%05d:%05d", s.s0, s.s1, s.s2)
}

// ParseStream parses the String() form back into a Stream.
func ParseStream(str string) (*Stream, error) {
	var a, b, c uint16
	n, err := fmt.Sscanf(str, "%d:%d:%d", &a, &b, &c)
	if err != nil || n != 3 {
		return nil, fmt.Errorf("%w: malformed random stream %q", freeserferr.ErrInvalidArgument, str)
	}
	return NewStream(a, b, c), nil
}
