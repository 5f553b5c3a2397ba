package rsacore

import (
	"io"

	"github.com/cronokirby/saferith"
)

// Encrypt encrypts msg with pub using EME-PKCS1-v1_5 (RFC 8017 section 7.2.1), reading the padding bytes from random.
// A nil random uses crypto/rand.Reader.
//
// The message must be no longer than the length of the public modulus minus 11 bytes.
func Encrypt(random io.Reader, pub *PublicKey, msg []byte) ([]byte, error) {
	k := pub.Size()
	em, err := emePKCS1v15Encode(randomOrDefault(random), msg, k)
	if err != nil {
		return nil, err
	}

	m := new(saferith.Nat).SetBytes(em)
	c := pub.encrypt(m)
	return c.FillBytes(em), nil
}

// Decrypt decrypts ciphertext with priv and removes its padding. Only PKCS1v15 padding is defined for decryption.
//
// Ciphertexts longer than the modulus or numerically >= N fail with ErrInvalidCiphertext, which depends only on
// public values. Every other failure is ErrDecryption, returned only after the whole block was checked in constant time,
// so the result does not reveal which padding byte was wrong.
//
// When the primes are known the private-key operation uses the CRT, otherwise it exponentiates with D directly.
func Decrypt(priv *PrivateKey, ciphertext []byte, padding Padding) ([]byte, error) {
	if padding.Scheme != PKCS1v15 {
		return nil, ErrUnsupportedPadding
	}
	return decryptPKCS1v15(nil, priv, ciphertext)
}

// decryptPKCS1v15 blinds the private-key operation when random is not nil
func decryptPKCS1v15(random io.Reader, priv *PrivateKey, ciphertext []byte) ([]byte, error) {
	k := priv.Size()
	if len(ciphertext) > k {
		return nil, ErrInvalidCiphertext
	}
	if k < 11 {
		return nil, ErrDecryption
	}

	c := new(saferith.Nat).SetBytes(ciphertext)
	if _, _, lt := c.CmpMod(priv.n); lt != 1 {
		return nil, ErrInvalidCiphertext
	}

	var m *saferith.Nat
	if random == nil {
		m = priv.decrypt(c)
	} else {
		r, rInv, err := randomUnit(random, priv.n)
		if err != nil {
			return nil, err
		}
		blinded := priv.encrypt(r)
		blinded.ModMul(blinded, c, priv.n)
		m = priv.decrypt(blinded)
		m.ModMul(m, rInv, priv.n)
	}
	em := m.FillBytes(make([]byte, k))

	valid, index := emePKCS1v15Decode(em)
	if valid == 0 {
		return nil, ErrDecryption
	}
	return em[index:], nil
}

// Sign signs digest with priv using the given padding. digest must be the result of hashing the input message
// using padding.Hash (or the raw data to sign, for PKCS1v15 with a zero Hash).
//
// The private-key operation is always blinded: a fresh unit r is read from random, the encoded message is multiplied
// by r^E before exponentiation and the result by r^-1 afterwards. PSS additionally reads its salt from random.
// A nil random uses crypto/rand.Reader, and a source that runs dry fails with ErrRngExhausted.
//
// The signature is checked against the public key before it is returned, so a fault during the CRT computation
// yields ErrFault rather than a signature that leaks the factorization of N.
func Sign(priv *PrivateKey, digest []byte, padding Padding, random io.Reader) ([]byte, error) {
	random = randomOrDefault(random)
	k := priv.Size()

	var em []byte
	var err error
	switch padding.Scheme {
	case PKCS1v15:
		em, err = emsaPKCS1v15Encode(padding.Hash, digest, k)
	case PSS:
		em, err = encodePSS(random, priv.BitLen(), digest, padding)
	default:
		return nil, ErrUnsupportedPadding
	}
	if err != nil {
		return nil, err
	}

	m := new(saferith.Nat).SetBytes(em)
	s, err := priv.signBlinded(random, m)
	if err != nil {
		return nil, err
	}
	return s.FillBytes(make([]byte, k)), nil
}

// encodePSS draws a salt of the configured length and runs EMSA-PSS-ENCODE with emBits = bitlen(N) - 1
func encodePSS(random io.Reader, modBits int, digest []byte, padding Padding) ([]byte, error) {
	if !padding.Hash.Available() {
		return nil, ErrUnsupportedHash
	}
	hash := padding.Hash.New()
	emBits := modBits - 1

	saltLength := padding.SaltLength
	switch saltLength {
	case PSSSaltLengthAuto:
		saltLength = (emBits+7)/8 - 2 - hash.Size()
		if saltLength < 0 {
			return nil, ErrMessageTooLong
		}
	case PSSSaltLengthEqualsHash:
		saltLength = hash.Size()
	default:
		if saltLength < 0 {
			return nil, ErrMessageTooLong
		}
	}

	salt := make([]byte, saltLength)
	if err := readRandom(random, salt); err != nil {
		return nil, err
	}
	return emsaPSSEncode(digest, emBits, salt, hash)
}

// signBlinded computes m^D (mod N) behind a random blinding factor and checks the result with the public exponent
func (priv *PrivateKey) signBlinded(random io.Reader, m *saferith.Nat) (*saferith.Nat, error) {
	m = new(saferith.Nat).Mod(m, priv.n)

	r, rInv, err := randomUnit(random, priv.n)
	if err != nil {
		return nil, err
	}

	// blinded <- m * r^e (mod n)
	blinded := priv.encrypt(r)
	blinded.ModMul(blinded, m, priv.n)

	// s <- blinded^d * r^-1 = m^d * r * r^-1 (mod n)
	s := priv.decrypt(blinded)
	s.ModMul(s, rInv, priv.n)

	// s^e must give m back; anything else is a faulty computation
	if priv.encrypt(s).Eq(m) != 1 {
		return nil, ErrFault
	}
	return s, nil
}

// Verify checks signature against digest with the given padding. It returns nil on success and ErrVerification on any
// failure: a wrong length, an out-of-range value, a malformed block and a digest mismatch all look the same to the caller.
// With PSS and PSSSaltLengthAuto the salt length is recovered from the signature.
func Verify(pub *PublicKey, digest []byte, signature []byte, padding Padding) error {
	k := pub.Size()
	if len(signature) != k {
		return ErrVerification
	}

	s := new(saferith.Nat).SetBytes(signature)
	if _, _, lt := s.CmpMod(pub.n); lt != 1 {
		return ErrVerification
	}

	m := pub.encrypt(s)
	em := m.FillBytes(make([]byte, k))

	switch padding.Scheme {
	case PKCS1v15:
		return emsaPKCS1v15Verify(em, padding.Hash, digest)
	case PSS:
		if !padding.Hash.Available() {
			return ErrVerification
		}
		emBits := pub.BitLen() - 1
		emLen := (emBits + 7) / 8
		if emLen < len(em) {
			if em[0] != 0 {
				return ErrVerification
			}
			em = em[1:]
		}
		return emsaPSSVerify(digest, em, emBits, padding.SaltLength, padding.Hash.New())
	default:
		return ErrVerification
	}
}
