package rsacore

import (
	"crypto/rand"
	"fmt"
	"io"

	rsamath "github.com/bastionzero/rsacore/math"
	"github.com/cronokirby/saferith"
	"golang.org/x/crypto/chacha20"
)

// SeededSource is a deterministic stream of uniform bytes: the ChaCha20 keystream under a 32-byte seed and an
// all-zero nonce. Two sources built from the same seed produce the same bytes, which makes randomized signatures
// reproducible in tests.
//
// A SeededSource is not safe for concurrent use; each goroutine signing in parallel needs its own.
// The stream ends after 256 GiB, at which point Read reports io.EOF.
type SeededSource struct {
	cipher *chacha20.Cipher
	spent  uint64
}

// chacha20 with a 32-bit block counter can produce 2^32 blocks of 64 bytes
const seededSourceLimit = 1 << 38

// NewSeededSource returns a randomness source seeded with seed
func NewSeededSource(seed [32]byte) *SeededSource {
	var nonce [chacha20.NonceSize]byte
	cipher, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce[:])
	if err != nil {
		// only reachable with a malformed key or nonce size
		panic(fmt.Sprintf("failed to initialize chacha20: %s", err))
	}
	return &SeededSource{cipher: cipher}
}

// Read fills p with the next len(p) bytes of the stream
func (s *SeededSource) Read(p []byte) (int, error) {
	remaining := uint64(seededSourceLimit) - s.spent
	if remaining == 0 {
		return 0, io.EOF
	}
	if uint64(len(p)) > remaining {
		p = p[:remaining]
	}

	for i := range p {
		p[i] = 0
	}
	s.cipher.XORKeyStream(p, p)
	s.spent += uint64(len(p))
	return len(p), nil
}

// a nil source means the operating system's CSPRNG
func randomOrDefault(random io.Reader) io.Reader {
	if random == nil {
		return rand.Reader
	}
	return random
}

// readRandom fills buf completely or reports ErrRngExhausted
func readRandom(random io.Reader, buf []byte) error {
	if _, err := io.ReadFull(random, buf); err != nil {
		return fmt.Errorf("%w: %s", ErrRngExhausted, err)
	}
	return nil
}

// nonZeroRandomBytes fills the given slice with non-zero random octets.
func nonZeroRandomBytes(s []byte, random io.Reader) error {
	if err := readRandom(random, s); err != nil {
		return err
	}

	for i := 0; i < len(s); i++ {
		for s[i] == 0 {
			if err := readRandom(random, s[i:i+1]); err != nil {
				return err
			}
		}
	}
	return nil
}

// randomUnit draws r uniformly from [1, n) such that r is invertible mod n, and returns r along with r^-1 (mod n)
func randomUnit(random io.Reader, n *saferith.Modulus) (r *saferith.Nat, rInv *saferith.Nat, err error) {
	bitLen := n.BitLen()
	buf := make([]byte, (bitLen+7)/8)

	for {
		if err = readRandom(random, buf); err != nil {
			return nil, nil, err
		}
		// clear the bits above bitLen so that each draw lands below n with probability at least 1/2
		buf[0] &= byte(0xff) >> uint(8*len(buf)-bitLen)

		r = new(saferith.Nat).SetBytes(buf)
		if _, _, lt := r.CmpMod(n); lt != 1 || r.EqZero() == 1 {
			continue
		}

		rInv, err = rsamath.ModInverse(r, n)
		if err != nil {
			// r shares a factor with n, which is as hard to hit as factoring n
			continue
		}
		return r, rInv, nil
	}
}
