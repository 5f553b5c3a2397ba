package rsacore

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"io"
	"math/big"

	"github.com/bastionzero/rsacore/internal/testvectors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Decryption", func() {
	padding := PKCS1v15Padding(0)

	Context("Vector key", func() {
		priv := vectorKey(true)
		ciphertext := testvectors.CiphertextBytes()

		It("Recovers the vector plaintext", func() {
			plaintext, err := Decrypt(priv, ciphertext, padding)
			Expect(err).To(BeNil(), fmt.Sprintf("failed to decrypt vector ciphertext: %s", err))
			Expect(plaintext).To(Equal(testvectors.PlaintextBytes()))
		})

		It("Recovers the same plaintext without the CRT", func() {
			plaintext, err := Decrypt(vectorKey(false), ciphertext, padding)
			Expect(err).To(BeNil())
			Expect(plaintext).To(Equal(testvectors.PlaintextBytes()))
		})

		It("Recovers the same plaintext when blinded", func() {
			plaintext, err := priv.Decrypt(rand.Reader, ciphertext, nil)
			Expect(err).To(BeNil())
			Expect(plaintext).To(Equal(testvectors.PlaintextBytes()))
		})

		It("Accepts a ciphertext shorter than the modulus", func() {
			em := make([]byte, priv.Size())
			em[1] = 2
			for i := 2; i < len(em)-6; i++ {
				em[i] = 0x5a
			}
			copy(em[len(em)-5:], "short")

			c := rawEncrypt(&priv.PublicKey, em)
			trimmed := new(big.Int).SetBytes(c).Bytes()
			plaintext, err := Decrypt(priv, trimmed, padding)
			Expect(err).To(BeNil())
			Expect(plaintext).To(Equal([]byte("short")))
		})

		It("Refuses PSS", func() {
			_, err := Decrypt(priv, ciphertext, PSSPadding(crypto.SHA256, PSSSaltLengthAuto))
			Expect(err).To(MatchError(ErrUnsupportedPadding))
		})
	})

	Context("Out of range ciphertexts", func() {
		priv := vectorKey(true)
		k := priv.Size()

		DescribeTable("Fails with ErrInvalidCiphertext",
			func(ciphertext []byte) {
				_, err := Decrypt(priv, ciphertext, padding)
				Expect(err).To(Equal(ErrInvalidCiphertext))
			},
			Entry("longer than the modulus", make([]byte, k+1)),
			Entry("equal to the modulus", priv.N().FillBytes(make([]byte, k))),
			Entry("above the modulus", new(big.Int).Add(priv.N(), bigOne).FillBytes(make([]byte, k))),
			Entry("all ones", bytesOf(0xff, k)),
		)
	})

	Context("Malformed blocks", func() {
		priv := vectorKey(true)
		k := priv.Size()

		// a well formed block that each entry breaks in one place
		block := func(mutate func(em []byte)) []byte {
			em := bytesOf(0x5a, k)
			em[0], em[1] = 0, 2
			em[k-8] = 0
			mutate(em)
			return rawEncrypt(&priv.PublicKey, em)
		}

		It("Decrypts the unbroken block", func() {
			plaintext, err := Decrypt(priv, block(func([]byte) {}), padding)
			Expect(err).To(BeNil())
			Expect(plaintext).To(Equal(bytesOf(0x5a, 7)))
		})

		DescribeTable("Fails with the bare ErrDecryption",
			func(ciphertext func() []byte) {
				_, err := Decrypt(priv, ciphertext(), padding)
				Expect(err).To(BeIdenticalTo(ErrDecryption))
			},
			Entry("block type 1", func() []byte { return block(func(em []byte) { em[1] = 1 }) }),
			Entry("no separator", func() []byte { return block(func(em []byte) { em[k-8] = 0x5a }) }),
			Entry("padding string shorter than 8 bytes", func() []byte {
				return block(func(em []byte) { em[k-8] = 0x5a; em[9] = 0 })
			}),
			Entry("separator right after the block type", func() []byte {
				return block(func(em []byte) { em[k-8] = 0x5a; em[2] = 0 })
			}),
			Entry("a zero ciphertext", func() []byte { return make([]byte, k) }),
			Entry("a one ciphertext", func() []byte { return big.NewInt(1).FillBytes(make([]byte, k)) }),
		)

		It("Accepts a padding string of exactly 8 bytes", func() {
			ciphertext := block(func(em []byte) { em[k-8] = 0x5a; em[10] = 0 })
			plaintext, err := Decrypt(priv, ciphertext, padding)
			Expect(err).To(BeNil())
			Expect(plaintext).To(HaveLen(k - 11))
		})
	})

	Context("Round trips", func() {
		std, generated := generatedKey(2048)
		keys := []struct {
			name string
			priv *PrivateKey
		}{
			{"2048-bit two-prime key", generated},
			{"2048-bit three-prime key", multiPrimeKey(3, 2048)},
			{"vector key without CRT", vectorKey(false)},
		}

		for _, key := range keys {
			priv := key.priv
			When(fmt.Sprintf("Using the %s", key.name), func() {
				It("Decrypts what it encrypts", func() {
					for _, msg := range [][]byte{{}, []byte("testing"), bytesOf(0x00, priv.Size()-11)} {
						ciphertext, err := Encrypt(rand.Reader, &priv.PublicKey, msg)
						Expect(err).To(BeNil())
						Expect(ciphertext).To(HaveLen(priv.Size()))

						plaintext, err := Decrypt(priv, ciphertext, padding)
						Expect(err).To(BeNil())
						Expect(plaintext).To(Equal(msg))
					}
				})

				It("Refuses a message that does not fit", func() {
					_, err := Encrypt(rand.Reader, &priv.PublicKey, make([]byte, priv.Size()-10))
					Expect(err).To(MatchError(ErrMessageTooLong))
				})
			})
		}

		It("Decrypts what crypto/rsa encrypts", func() {
			ciphertext, err := rsa.EncryptPKCS1v15(rand.Reader, &std.PublicKey, []byte("testing"))
			Expect(err).To(BeNil())

			plaintext, err := Decrypt(generated, ciphertext, padding)
			Expect(err).To(BeNil())
			Expect(plaintext).To(Equal([]byte("testing")))
		})

		It("Encrypts what crypto/rsa decrypts", func() {
			ciphertext, err := Encrypt(nil, &generated.PublicKey, []byte("testing"))
			Expect(err).To(BeNil())

			plaintext, err := rsa.DecryptPKCS1v15(nil, std, ciphertext)
			Expect(err).To(BeNil())
			Expect(plaintext).To(Equal([]byte("testing")))
		})

		It("Reports an exhausted randomness source", func() {
			_, err := Encrypt(io.LimitReader(rand.Reader, 16), &generated.PublicKey, []byte("testing"))
			Expect(err).To(MatchError(ErrRngExhausted))
		})
	})
})

func bytesOf(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}
