package rsacore

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"math/big"

	rsamath "github.com/bastionzero/rsacore/math"
	"github.com/bastionzero/rsacore/internal/testvectors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Key setup", func() {
	Context("Public key", func() {
		It("Accepts the vector modulus with e=3", func() {
			n, e, _, _ := testvectors.Components()
			pub, err := NewPublicKey(n, e)
			Expect(err).To(BeNil())
			Expect(pub.Size()).To(Equal(256))
			Expect(pub.BitLen()).To(Equal(n.BitLen()))
			Expect(pub.N()).To(equalBig(n))
			Expect(pub.E()).To(equalBig(e))
		})

		DescribeTable("Rejects malformed components",
			func(n, e *big.Int) {
				_, err := NewPublicKey(n, e)
				Expect(errors.Is(err, ErrInvalidKey)).To(BeTrue(), fmt.Sprintf("expected ErrInvalidKey, got: %v", err))
			},
			Entry("nil modulus", nil, big.NewInt(3)),
			Entry("even modulus", big.NewInt(90), big.NewInt(7)),
			Entry("modulus of one", big.NewInt(1), big.NewInt(3)),
			Entry("even exponent", big.NewInt(91), big.NewInt(4)),
			Entry("exponent of one", big.NewInt(91), big.NewInt(1)),
			Entry("exponent not below modulus", big.NewInt(91), big.NewInt(93)),
		)
	})

	Context("Vector key", func() {
		priv := vectorKey(true)
		n, e, d, primes := testvectors.Components()

		It("Uses the CRT", func() {
			Expect(priv.HasCRT()).To(BeTrue())
			Expect(bigStrings(priv.Primes())).To(Equal(bigStrings(primes)))
			Expect(priv.D()).To(equalBig(d))
		})

		It("Precomputes the CRT values", func() {
			p, q := primes[0], primes[1]
			values := priv.Precomputed()
			Expect(values).NotTo(BeNil())

			dp := new(big.Int).Mod(d, new(big.Int).Sub(p, bigOne))
			dq := new(big.Int).Mod(d, new(big.Int).Sub(q, bigOne))
			qinv := new(big.Int).ModInverse(q, p)

			Expect(values.Dp).To(equalBig(dp))
			Expect(values.Dq).To(equalBig(dq))
			Expect(values.Qinv).To(equalBig(qinv))
			Expect(values.CRTValues).To(BeEmpty())
		})

		It("Validates", func() {
			Expect(priv.Validate()).To(Succeed())
		})

		It("Satisfies e * d ≡ 1 mod phi(n) as well", func() {
			de := new(big.Int).Mul(e, d)
			Expect(rsamath.CongruentModN(de, bigOne, rsamath.EulerTotient(primes))).To(BeTrue())
		})

		It("Equals a fresh copy but not the same key without primes", func() {
			Expect(priv.Equal(vectorKey(true))).To(BeTrue())
			Expect(priv.Equal(vectorKey(false))).To(BeFalse())
			Expect(priv.PublicKey.Equal(&vectorKey(false).PublicKey)).To(BeTrue())
			Expect(priv.Equal(n)).To(BeFalse())
		})
	})

	Context("Key without primes", func() {
		priv := vectorKey(false)

		It("Falls back to direct exponentiation", func() {
			Expect(priv.HasCRT()).To(BeFalse())
			Expect(priv.Primes()).To(BeEmpty())
			Expect(priv.Precomputed()).To(BeNil())
			Expect(priv.Validate()).To(Succeed())
		})

		It("Cannot derive d without the primes", func() {
			n, e, _, _ := testvectors.Components()
			_, err := NewPrivateKey(n, e, nil, nil)
			Expect(err).To(MatchError(ErrInvalidKey))
		})
	})

	Context("Derived private exponent", func() {
		It("Derives a d equivalent to the vector's from its primes", func() {
			n, e, d, primes := testvectors.Components()
			priv, err := NewPrivateKey(n, e, nil, primes)
			Expect(err).To(BeNil())

			// the vector's d inverts e mod phi(n), the derived one mod lambda(n)
			lambda := rsamath.CarmichaelLambda(primes)
			Expect(priv.D().Cmp(lambda)).To(Equal(-1))
			Expect(rsamath.CongruentModN(priv.D(), d, lambda)).To(BeTrue())

			plaintext, err := Decrypt(priv, testvectors.CiphertextBytes(), PKCS1v15Padding(0))
			Expect(err).To(BeNil())
			Expect(plaintext).To(Equal(testvectors.PlaintextBytes()))
		})

		It("Reports a public exponent that shares a factor with lambda(n)", func() {
			// lambda(7 * 13) = lcm(6, 12) = 12, which 3 divides
			_, err := NewPrivateKey(big.NewInt(91), big.NewInt(3), nil, []*big.Int{big.NewInt(7), big.NewInt(13)})
			Expect(errors.Is(err, ErrNotInvertible)).To(BeTrue(), fmt.Sprintf("expected ErrNotInvertible, got: %v", err))
		})
	})

	Context("Inconsistent components", func() {
		n, e, d, primes := testvectors.Components()
		p, q := primes[0], primes[1]

		DescribeTable("Rejects the key",
			func(d *big.Int, primes []*big.Int) {
				_, err := NewPrivateKey(n, e, d, primes)
				Expect(errors.Is(err, ErrInvalidKey)).To(BeTrue(), fmt.Sprintf("expected ErrInvalidKey, got: %v", err))
			},
			Entry("a single prime", d, []*big.Int{n}),
			Entry("repeated primes", d, []*big.Int{p, p}),
			Entry("primes that do not multiply out to n", d, []*big.Int{p, new(big.Int).Add(q, big.NewInt(2))}),
			Entry("a prime of one", d, []*big.Int{bigOne, n}),
			Entry("a zero private exponent", big.NewInt(0), []*big.Int{p, q}),
			Entry("a private exponent not below n", new(big.Int).Add(n, bigOne), []*big.Int{p, q}),
			Entry("a private exponent that does not invert e", new(big.Int).Add(d, bigOne), []*big.Int{p, q}),
		)
	})

	Context("Multi-prime key", func() {
		priv := multiPrimeKey(3, 2048)

		It("Precomputes values for the third prime", func() {
			primes := priv.Primes()
			Expect(primes).To(HaveLen(3))

			values := priv.Precomputed()
			Expect(values.CRTValues).To(HaveLen(1))

			r := new(big.Int).Mul(primes[0], primes[1])
			Expect(values.CRTValues[0].R).To(equalBig(r))
			Expect(values.CRTValues[0].Coeff).To(equalBig(new(big.Int).ModInverse(r, primes[2])))
			Expect(values.CRTValues[0].Exp).To(equalBig(new(big.Int).Mod(priv.D(), new(big.Int).Sub(primes[2], bigOne))))
		})

		It("Validates", func() {
			Expect(priv.Validate()).To(Succeed())
		})
	})

	Context("crypto/rsa conversion", func() {
		std, priv := generatedKey(2048)

		It("Keeps every component", func() {
			Expect(priv.N()).To(equalBig(std.N))
			Expect(priv.E()).To(equalBig(big.NewInt(int64(std.E))))
			Expect(priv.D()).To(equalBig(std.D))
			Expect(bigStrings(priv.Primes())).To(Equal(bigStrings(std.Primes)))
		})

		It("Precomputes the same values as crypto/rsa", func() {
			std.Precompute()
			values := priv.Precomputed()
			Expect(values.Dp).To(equalBig(std.Precomputed.Dp))
			Expect(values.Dq).To(equalBig(std.Precomputed.Dq))
			Expect(values.Qinv).To(equalBig(std.Precomputed.Qinv))
		})

		It("Converts the public key back", func() {
			pub, err := priv.PublicKey.Std()
			Expect(err).To(BeNil())
			Expect(pub.Equal(&std.PublicKey)).To(BeTrue())

			back, err := FromStdPublicKey(pub)
			Expect(err).To(BeNil())
			Expect(back.Equal(&priv.PublicKey)).To(BeTrue())
		})

		It("Rejects nil keys", func() {
			_, err := FromStdPrivateKey(nil)
			Expect(err).To(MatchError(ErrInvalidKey))
			_, err = FromStdPublicKey((*rsa.PublicKey)(nil))
			Expect(err).To(MatchError(ErrInvalidKey))
		})
	})
})
