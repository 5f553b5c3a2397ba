package rsacore

import (
	"crypto"
	"crypto/rsa"
	"fmt"
	"io"
)

// Sign signs digest with priv, reading randomness from random. It implements crypto.Signer, so a *PrivateKey can be
// handed to crypto/tls, crypto/x509 and friends.
//
// opts may be a Padding, a *Padding, or a *rsa.PSSOptions for PSS. Any other crypto.SignerOpts selects PKCS1v15
// with opts.HashFunc().
func (priv *PrivateKey) Sign(random io.Reader, digest []byte, opts crypto.SignerOpts) ([]byte, error) {
	return Sign(priv, digest, paddingFromOpts(opts), random)
}

func paddingFromOpts(opts crypto.SignerOpts) Padding {
	switch o := opts.(type) {
	case nil:
		return PKCS1v15Padding(0)
	case Padding:
		return o
	case *Padding:
		return *o
	case *rsa.PSSOptions:
		// rsa.PSSSaltLengthAuto and rsa.PSSSaltLengthEqualsHash share our values
		return PSSPadding(o.Hash, o.SaltLength)
	default:
		return PKCS1v15Padding(opts.HashFunc())
	}
}

// Decrypt decrypts ciphertext with priv, implementing crypto.Decrypter. opts must be nil or a
// *rsa.PKCS1v15DecryptOptions. If random is not nil the private-key operation is blinded with it.
func (priv *PrivateKey) Decrypt(random io.Reader, ciphertext []byte, opts crypto.DecrypterOpts) ([]byte, error) {
	switch opts.(type) {
	case nil, *rsa.PKCS1v15DecryptOptions:
		return decryptPKCS1v15(random, priv, ciphertext)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedPadding, opts)
	}
}

// A SigningKey binds a private key to one padding and signs whole messages, hashing them with the padding's hash first
type SigningKey struct {
	priv    *PrivateKey
	padding Padding
}

// NewSigningKey returns a SigningKey for priv. The padding's hash must be linked into the binary,
// except for PKCS1v15 with a zero Hash which signs messages as they are
func NewSigningKey(priv *PrivateKey, padding Padding) (*SigningKey, error) {
	if err := checkMessagePadding(padding); err != nil {
		return nil, err
	}
	return &SigningKey{priv: priv, padding: padding}, nil
}

// Sign hashes msg and signs the digest
func (sk *SigningKey) Sign(random io.Reader, msg []byte) ([]byte, error) {
	return Sign(sk.priv, hashMessage(sk.padding.Hash, msg), sk.padding, random)
}

// Padding returns the padding the key signs with
func (sk *SigningKey) Padding() Padding {
	return sk.padding
}

// VerifyingKey returns the matching VerifyingKey
func (sk *SigningKey) VerifyingKey() *VerifyingKey {
	return &VerifyingKey{pub: &sk.priv.PublicKey, padding: sk.padding}
}

// A VerifyingKey checks whole-message signatures produced by a SigningKey
type VerifyingKey struct {
	pub     *PublicKey
	padding Padding
}

// NewVerifyingKey returns a VerifyingKey for pub, with the same padding rules as NewSigningKey
func NewVerifyingKey(pub *PublicKey, padding Padding) (*VerifyingKey, error) {
	if err := checkMessagePadding(padding); err != nil {
		return nil, err
	}
	return &VerifyingKey{pub: pub, padding: padding}, nil
}

// Verify hashes msg and checks signature against the digest
func (vk *VerifyingKey) Verify(msg []byte, signature []byte) error {
	return Verify(vk.pub, hashMessage(vk.padding.Hash, msg), signature, vk.padding)
}

func checkMessagePadding(padding Padding) error {
	switch padding.Scheme {
	case PKCS1v15:
		if padding.Hash == 0 {
			return nil
		}
	case PSS:
	default:
		return ErrUnsupportedPadding
	}
	if !padding.Hash.Available() {
		return fmt.Errorf("%w: %v", ErrUnsupportedHash, padding.Hash)
	}
	return nil
}

func hashMessage(hash crypto.Hash, msg []byte) []byte {
	if hash == 0 {
		return msg
	}
	h := hash.New()
	h.Write(msg)
	return h.Sum(nil)
}
