// Package stark provides the proving backend for the Brainfuck zkVM:
// the Fiat-Shamir transcript channel, evaluation domains, the
// commitment session, and the low-level prove/verify operations that
// the protocol driver orchestrates.
package stark

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
)

// Channel represents a Fiat-Shamir transcript channel.
//
// The channel is deterministic: mixing the same values in the same
// order always produces the same subsequent draws, which is what lets
// the verifier replay the prover's transcript. Every mix and draw
// advances the internal state, so the order of operations is part of
// the protocol.
type Channel struct {
	state    []byte
	log      []string
	hashFunc string
}

// NewChannel creates a new Fiat-Shamir channel
func NewChannel(hashFunc string) *Channel {
	if hashFunc == "" {
		hashFunc = "sha3"
	}
	return &Channel{
		state:    []byte{0},
		log:      make([]string, 0, 64),
		hashFunc: hashFunc,
	}
}

// MixBytes absorbs raw bytes into the channel state
func (c *Channel) MixBytes(data []byte) {
	c.log = append(c.log, fmt.Sprintf("mix:%s", hex.EncodeToString(data)))
	c.state = c.hash(append(c.state, data...))
}

// MixU64 absorbs an unsigned integer into the channel state
func (c *Channel) MixU64(value uint64) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, value)
	c.MixBytes(buf)
}

// MixFelt absorbs a single field element into the channel state
func (c *Channel) MixFelt(element field.Element) {
	c.MixU64(element.Value())
}

// MixFelts absorbs a sequence of field elements into the channel state
func (c *Channel) MixFelts(elements []field.Element) {
	buf := make([]byte, 8*len(elements))
	for i, element := range elements {
		binary.LittleEndian.PutUint64(buf[i*8:], element.Value())
	}
	c.MixBytes(buf)
}

// MixDigest absorbs a Tip5 digest (e.g. a Merkle root) into the channel state
func (c *Channel) MixDigest(digest hash.Digest) {
	buf := make([]byte, 8*len(digest))
	for i, element := range digest {
		binary.LittleEndian.PutUint64(buf[i*8:], element.Value())
	}
	c.MixBytes(buf)
}

// DrawFelt draws one pseudorandom field element from the channel
func (c *Channel) DrawFelt() field.Element {
	max := new(big.Int).SetUint64(field.P - 1)
	random := c.drawInt(big.NewInt(0), max)
	return field.New(random.Uint64())
}

// DrawFelts draws n pseudorandom field elements from the channel
func (c *Channel) DrawFelts(n int) []field.Element {
	elements := make([]field.Element, n)
	for i := range elements {
		elements[i] = c.DrawFelt()
	}
	return elements
}

// DrawIndex draws a pseudorandom index in [0, bound)
func (c *Channel) DrawIndex(bound int) (int, error) {
	if bound <= 0 {
		return 0, fmt.Errorf("index bound must be positive, got %d", bound)
	}
	random := c.drawInt(big.NewInt(0), big.NewInt(int64(bound-1)))
	return int(random.Int64()), nil
}

// drawInt generates a pseudorandom integer in the range [min, max]
func (c *Channel) drawInt(min, max *big.Int) *big.Int {
	stateAsInt := new(big.Int).SetBytes(c.state)

	rangeSize := new(big.Int).Sub(max, min)
	rangeSize.Add(rangeSize, big.NewInt(1))

	random := new(big.Int).Mod(stateAsInt, rangeSize)
	random.Add(random, min)

	c.log = append(c.log, fmt.Sprintf("draw:%s", random.String()))
	c.state = c.hash(c.state)

	return random
}

// State returns a copy of the current channel state
func (c *Channel) State() []byte {
	return append([]byte(nil), c.state...)
}

// hash computes the hash of the input using the configured hash function
func (c *Channel) hash(data []byte) []byte {
	switch c.hashFunc {
	case "sha256":
		h := sha256.Sum256(data)
		return h[:]
	default:
		h := sha3.Sum256(data)
		return h[:]
	}
}

// String returns the transcript operation log
func (c *Channel) String() string {
	return strings.Join(c.log, " ")
}
