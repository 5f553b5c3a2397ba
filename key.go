package rsacore

import (
	"crypto"
	"crypto/rsa"
	"fmt"
	"math"
	"math/big"

	rsamath "github.com/bastionzero/rsacore/math"
	"github.com/cronokirby/saferith"
)

var (
	bigOne   = big.NewInt(1)
	bigThree = big.NewInt(3)
)

// A PublicKey represents the public part of an RSA key. It is immutable once constructed
type PublicKey struct {
	n    *saferith.Modulus // modulus
	e    *big.Int          // public exponent
	eNat *saferith.Nat     // public exponent, announced at its true length since it is public
}

// NewPublicKey builds a public key from its modulus and exponent.
//
// N must be odd and greater than 1, and E must be odd with 3 <= E < N
func NewPublicKey(n *big.Int, e *big.Int) (*PublicKey, error) {
	if n == nil || e == nil {
		return nil, fmt.Errorf("%w: missing modulus or exponent", ErrInvalidKey)
	}
	if n.Cmp(bigOne) <= 0 || n.Bit(0) == 0 {
		return nil, fmt.Errorf("%w: modulus must be odd and greater than 1", ErrInvalidKey)
	}
	if e.Cmp(bigThree) < 0 || e.Bit(0) == 0 {
		return nil, fmt.Errorf("%w: public exponent must be odd and at least 3", ErrInvalidKey)
	}
	if e.Cmp(n) >= 0 {
		return nil, fmt.Errorf("%w: public exponent must be smaller than the modulus", ErrInvalidKey)
	}

	return &PublicKey{
		n:    rsamath.ModulusFromBig(n),
		e:    new(big.Int).Set(e),
		eNat: rsamath.NatFromBig(e, e.BitLen()),
	}, nil
}

// FromStdPublicKey converts a crypto/rsa public key
func FromStdPublicKey(pub *rsa.PublicKey) (*PublicKey, error) {
	if pub == nil {
		return nil, fmt.Errorf("%w: nil key", ErrInvalidKey)
	}
	return NewPublicKey(pub.N, big.NewInt(int64(pub.E)))
}

// Size returns the modulus size in bytes. Raw signatures and ciphertexts for or by this public key will have the same size.
func (pub *PublicKey) Size() int {
	return (pub.n.BitLen() + 7) / 8
}

// BitLen returns the bit length of the modulus
func (pub *PublicKey) BitLen() int {
	return pub.n.BitLen()
}

// N returns a copy of the modulus
func (pub *PublicKey) N() *big.Int {
	return new(big.Int).SetBytes(pub.n.Bytes())
}

// E returns a copy of the public exponent
func (pub *PublicKey) E() *big.Int {
	return new(big.Int).Set(pub.e)
}

// Equal reports whether pub and x have the same value.
func (pub *PublicKey) Equal(x crypto.PublicKey) bool {
	xx, ok := x.(*PublicKey)
	if !ok {
		return false
	}
	return pub.N().Cmp(xx.N()) == 0 && pub.e.Cmp(xx.e) == 0
}

// Std converts pub to a crypto/rsa public key. It fails if E does not fit in an int32,
// which is the range crypto/rsa accepts
func (pub *PublicKey) Std() (*rsa.PublicKey, error) {
	if !pub.e.IsInt64() || pub.e.Int64() > math.MaxInt32 {
		return nil, fmt.Errorf("public exponent %v is out of range for crypto/rsa", pub.e)
	}
	return &rsa.PublicKey{N: pub.N(), E: int(pub.e.Int64())}, nil
}

// encrypt computes m^E (mod N)
func (pub *PublicKey) encrypt(m *saferith.Nat) *saferith.Nat {
	return rsamath.ModPow(m, pub.eNat, pub.n)
}

// A PrivateKey represents an RSA key. It is immutable once constructed and may be shared between goroutines
type PrivateKey struct {
	PublicKey                     // public part
	d         *saferith.Nat       // private exponent, announced at the modulus size
	primes    []*saferith.Nat     // prime factors of N, either empty or with >= 2 elements
	primeMods []*saferith.Modulus // the same primes as moduli

	// crt is nil when no primes were supplied, forcing direct exponentiation with d
	crt *crtValues
}

// crtValues holds the values that speed up private-key operations with the Chinese Remainder Theorem
type crtValues struct {
	dp, dq *saferith.Nat // D mod (P-1) (or mod Q-1)
	qinv   *saferith.Nat // Q^-1 mod P

	// extra is used for the 3rd and subsequent primes. PKCS #1 handles the first two primes
	// differently, and we mirror that for interoperability.
	extra []crtValue
}

type crtValue struct {
	exp   *saferith.Nat // D mod (prime-1)
	coeff *saferith.Nat // R·Coeff ≡ 1 mod Prime
	r     *saferith.Nat // product of primes prior to this (inc p and q)
}

// PrecomputedValues exposes the CRT values derived from a key's primes
type PrecomputedValues struct {
	Dp, Dq *big.Int // D mod (P-1) (or mod Q-1)
	Qinv   *big.Int // Q^-1 mod P

	CRTValues []CRTValue
}

// CRTValue contains the precomputed Chinese remainder theorem values for the 3rd and subsequent primes
type CRTValue struct {
	Exp   *big.Int // D mod (prime-1)
	Coeff *big.Int // R·Coeff ≡ 1 mod Prime
	R     *big.Int // product of primes prior to this (inc p and q)
}

// NewPrivateKey assembles a private key from its components and precomputes its CRT values.
//
// primes must be either empty or hold at least two pairwise distinct factors whose product is n. Without primes,
// private-key operations fall back to direct exponentiation with d.
//
// If d is nil it is derived as e^-1 (mod lambda(n)), which requires the primes. Otherwise e * d ≡ 1 (mod lambda(n)) is
// checked whenever the primes make that possible.
func NewPrivateKey(n *big.Int, e *big.Int, d *big.Int, primes []*big.Int) (*PrivateKey, error) {
	pub, err := NewPublicKey(n, e)
	if err != nil {
		return nil, err
	}

	if err := checkPrimes(n, primes); err != nil {
		return nil, err
	}

	if d == nil {
		if len(primes) == 0 {
			return nil, fmt.Errorf("%w: a private exponent or the prime factors are required", ErrInvalidKey)
		}
		d, err = rsamath.ModInverseBig(e, rsamath.CarmichaelLambda(primes))
		if err != nil {
			return nil, fmt.Errorf("failed to derive private exponent: %w", err)
		}
	}

	if err := checkExponents(n, e, d, primes); err != nil {
		return nil, err
	}

	priv := &PrivateKey{
		PublicKey: *pub,
		d:         rsamath.NatFromBig(d, n.BitLen()),
		primes:    make([]*saferith.Nat, len(primes)),
		primeMods: make([]*saferith.Modulus, len(primes)),
	}
	for i, p := range primes {
		priv.primes[i] = rsamath.NatFromBig(p, p.BitLen())
		priv.primeMods[i] = rsamath.ModulusFromBig(p)
	}

	if len(primes) > 0 {
		priv.crt, err = precompute(priv.d, primes, priv.primeMods)
		if err != nil {
			return nil, err
		}
	}

	return priv, nil
}

// FromStdPrivateKey converts a crypto/rsa private key, keeping all of its primes
func FromStdPrivateKey(key *rsa.PrivateKey) (*PrivateKey, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: nil key", ErrInvalidKey)
	}
	return NewPrivateKey(key.N, big.NewInt(int64(key.E)), key.D, key.Primes)
}

// check that the primes are pairwise distinct and multiply out to n
func checkPrimes(n *big.Int, primes []*big.Int) error {
	if len(primes) == 0 {
		return nil
	}
	if len(primes) == 1 {
		return fmt.Errorf("%w: need at least two prime factors", ErrInvalidKey)
	}

	product := big.NewInt(1)
	for i, p := range primes {
		// any primes ≤ 1 will cause divide-by-zero panics later
		if p == nil || p.Cmp(bigOne) <= 0 {
			return fmt.Errorf("%w: invalid prime value", ErrInvalidKey)
		}
		for j := 0; j < i; j++ {
			if p.Cmp(primes[j]) == 0 {
				return fmt.Errorf("%w: primes must be pairwise distinct", ErrInvalidKey)
			}
		}
		product.Mul(product, p)
	}
	if product.Cmp(n) != 0 {
		return fmt.Errorf("%w: product of primes does not equal the modulus", ErrInvalidKey)
	}
	return nil
}

// check that 0 < d < n and, if we know the factorization, that e * d ≡ 1 (mod lambda(n)).
// The latter implies e is coprime to every p-1 and thus a^(ed) ≡ a (mod n) for all a
func checkExponents(n *big.Int, e *big.Int, d *big.Int, primes []*big.Int) error {
	if d.Sign() <= 0 || d.Cmp(n) >= 0 {
		return fmt.Errorf("%w: private exponent out of range", ErrInvalidKey)
	}
	if len(primes) == 0 {
		return nil
	}

	lambda := rsamath.CarmichaelLambda(primes)
	de := new(big.Int).Mul(d, e)
	if !rsamath.CongruentModN(de, bigOne, lambda) {
		return fmt.Errorf("%w: e * d is not congruent to 1 mod lambda(n)", ErrInvalidKey)
	}
	return nil
}

// derive the CRT exponents and coefficients. d is reduced with constant-time arithmetic,
// the primes themselves are only ever announced at their own length
func precompute(d *saferith.Nat, primes []*big.Int, primeMods []*saferith.Modulus) (*crtValues, error) {
	expFor := func(p *big.Int) *saferith.Nat {
		pm1 := new(big.Int).Sub(p, bigOne)
		return new(saferith.Nat).Mod(d, rsamath.ModulusFromBig(pm1))
	}

	q := rsamath.NatFromBig(primes[1], primes[1].BitLen())
	qinv, err := rsamath.ModInverse(q, primeMods[0])
	if err != nil {
		return nil, fmt.Errorf("failed to invert Q mod P: %w", err)
	}

	crt := &crtValues{
		dp:    expFor(primes[0]),
		dq:    expFor(primes[1]),
		qinv:  qinv,
		extra: make([]crtValue, len(primes)-2),
	}

	r := new(big.Int).Mul(primes[0], primes[1])
	for i := 2; i < len(primes); i++ {
		rNat := rsamath.NatFromBig(r, r.BitLen())
		coeff, err := rsamath.ModInverse(rNat, primeMods[i])
		if err != nil {
			return nil, fmt.Errorf("failed to invert R mod prime %d: %w", i, err)
		}

		crt.extra[i-2] = crtValue{
			exp:   expFor(primes[i]),
			coeff: coeff,
			r:     rNat,
		}
		r = new(big.Int).Mul(r, primes[i])
	}

	return crt, nil
}

// Public returns the public key corresponding to priv.
func (priv *PrivateKey) Public() crypto.PublicKey {
	return &priv.PublicKey
}

// HasCRT reports whether private-key operations use the Chinese Remainder Theorem
func (priv *PrivateKey) HasCRT() bool {
	return priv.crt != nil
}

// D returns a copy of the private exponent
func (priv *PrivateKey) D() *big.Int {
	return priv.d.Big()
}

// Primes returns copies of the prime factors of N, if the key was built with them
func (priv *PrivateKey) Primes() []*big.Int {
	primes := make([]*big.Int, len(priv.primes))
	for i, p := range priv.primes {
		primes[i] = p.Big()
	}
	return primes
}

// Precomputed returns copies of the CRT values, or nil for a key without primes
func (priv *PrivateKey) Precomputed() *PrecomputedValues {
	if priv.crt == nil {
		return nil
	}

	values := &PrecomputedValues{
		Dp:        priv.crt.dp.Big(),
		Dq:        priv.crt.dq.Big(),
		Qinv:      priv.crt.qinv.Big(),
		CRTValues: make([]CRTValue, len(priv.crt.extra)),
	}
	for i, v := range priv.crt.extra {
		values.CRTValues[i] = CRTValue{
			Exp:   v.exp.Big(),
			Coeff: v.coeff.Big(),
			R:     v.r.Big(),
		}
	}
	return values
}

// Equal reports whether priv and x have equivalent values. It ignores precomputed values.
func (priv *PrivateKey) Equal(x crypto.PrivateKey) bool {
	xx, ok := x.(*PrivateKey)
	if !ok {
		return false
	}
	if !priv.PublicKey.Equal(&xx.PublicKey) || priv.d.Eq(xx.d) != 1 {
		return false
	}
	if len(priv.primes) != len(xx.primes) {
		return false
	}
	for i := range priv.primes {
		if priv.primes[i].Eq(xx.primes[i]) != 1 {
			return false
		}
	}
	return true
}

// Validate performs basic sanity checks on the key again, including its precomputed values.
// It returns nil if the key is valid, or else an error describing a problem.
func (priv *PrivateKey) Validate() error {
	n := priv.N()
	primes := priv.Primes()
	if err := checkPrimes(n, primes); err != nil {
		return err
	}
	if err := checkExponents(n, priv.e, priv.D(), primes); err != nil {
		return err
	}
	if priv.crt == nil {
		return nil
	}

	values := priv.Precomputed()
	// Qinv * Q ≡ 1 (mod P)
	if !rsamath.CongruentModN(new(big.Int).Mul(values.Qinv, primes[1]), bigOne, primes[0]) {
		return fmt.Errorf("%w: invalid CRT coefficient", ErrInvalidKey)
	}
	return nil
}

// decrypt performs the RSA private-key primitive c^D (mod N), with Garner's formula when the primes are known.
// c must already be reduced mod N
func (priv *PrivateKey) decrypt(c *saferith.Nat) *saferith.Nat {
	if priv.crt == nil {
		return rsamath.ModPow(c, priv.d, priv.n)
	}

	p, q := priv.primeMods[0], priv.primeMods[1]

	// m1 <- c^dP (mod p), m2 <- c^dQ (mod q)
	m1 := rsamath.ModPow(c, priv.crt.dp, p)
	m2 := rsamath.ModPow(c, priv.crt.dq, q)

	// h <- qInv * (m1 - m2) (mod p)
	m2p := new(saferith.Nat).Mod(m2, p)
	h := new(saferith.Nat).ModSub(m1, m2p, p)
	h.ModMul(h, priv.crt.qinv, p)

	// m <- m2 + h * q (mod n)
	m := new(saferith.Nat).ModMul(h, priv.primes[1], priv.n)
	m.ModAdd(m, m2, priv.n)

	for i, values := range priv.crt.extra {
		prime := priv.primeMods[2+i]

		// h <- (c^exp - m) * coeff (mod prime)
		mi := rsamath.ModPow(c, values.exp, prime)
		mp := new(saferith.Nat).Mod(m, prime)
		h := new(saferith.Nat).ModSub(mi, mp, prime)
		h.ModMul(h, values.coeff, prime)

		// m <- m + h * R (mod n)
		h.ModMul(h, values.r, priv.n)
		m.ModAdd(m, h, priv.n)
	}

	return m
}
