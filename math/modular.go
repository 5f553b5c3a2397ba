/*
Package math holds the modular arithmetic underneath rsacore.

Anything that touches a secret (private exponents, CRT residues, blinding factors) goes through the
constant-time [saferith] functions ModPow and ModInverse, whose running time depends only on the
announced sizes of their inputs. The *big.Int helpers are variable-time and are only used on public
values or while a key is being assembled from its components.
*/
package math

import (
	"errors"
	"math/big"

	"github.com/cronokirby/saferith"
)

// ErrNotInvertible is returned when gcd(a, m) != 1
var ErrNotInvertible = errors.New("rsacore/math: value is not invertible")

// ModPow returns base^exp (mod m).
//
// The exponentiation is fixed-window Montgomery multiplication: every window of exp is processed with the same
// sequence of squarings and a constant-time table lookup, so exp's bits never steer a branch or a memory access.
// Only exp.AnnouncedLen() is leaked, which is why private exponents are announced at the modulus size.
func ModPow(base *saferith.Nat, exp *saferith.Nat, m *saferith.Modulus) *saferith.Nat {
	reduced := new(saferith.Nat).Mod(base, m)
	return new(saferith.Nat).Exp(reduced, exp, m)
}

// ModInverse returns x such that a * x ≡ 1 (mod m) for an odd modulus m.
//
// The inverse is computed in constant time. Whether it exists is checked afterwards by multiplying it back,
// and only that single bit is revealed.
func ModInverse(a *saferith.Nat, m *saferith.Modulus) (*saferith.Nat, error) {
	reduced := new(saferith.Nat).Mod(a, m)
	inv := new(saferith.Nat).ModInverse(reduced, m)

	check := new(saferith.Nat).ModMul(reduced, inv, m)
	one := new(saferith.Nat).SetUint64(1)
	if check.Eq(one.Mod(one, m)) != 1 {
		return nil, ErrNotInvertible
	}
	return inv, nil
}

// ModInverseBig returns a^-1 (mod m) for any m > 1. It runs in variable time
func ModInverseBig(a *big.Int, m *big.Int) (*big.Int, error) {
	if m.Cmp(bigOne) <= 0 {
		return nil, ErrNotInvertible
	}
	if GCD(a, m).Cmp(bigOne) != 0 {
		return nil, ErrNotInvertible
	}
	inv := new(big.Int).ModInverse(a, m)
	if inv == nil {
		return nil, ErrNotInvertible
	}
	return inv, nil
}

// GCD returns the greatest common divisor of |a| and |b|
func GCD(a *big.Int, b *big.Int) *big.Int {
	x := new(big.Int).Abs(a)
	y := new(big.Int).Abs(b)
	return new(big.Int).GCD(nil, nil, x, y)
}

// LCM returns the least common multiple of a and b (both positive)
func LCM(a *big.Int, b *big.Int) *big.Int {
	gcd := GCD(a, b)
	if gcd.Sign() == 0 {
		return new(big.Int)
	}
	// lcm <- (a / gcd) * b
	l := new(big.Int).Quo(a, gcd)
	return l.Mul(l, b)
}

// NatFromBig converts x into a Nat announced at size bits, hiding its true length
func NatFromBig(x *big.Int, size int) *saferith.Nat {
	if size < x.BitLen() {
		size = x.BitLen()
	}
	return new(saferith.Nat).SetBig(x, size)
}

// ModulusFromBig converts a positive x into a saferith Modulus
func ModulusFromBig(x *big.Int) *saferith.Modulus {
	return saferith.ModulusFromBytes(x.Bytes())
}
