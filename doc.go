/*
Package rsacore implements the RSA private-key primitives: PKCS #1 v1.5 decryption, and blinded signing with
PKCS #1 v1.5 or PSS padding, along with their public counterparts.

# Overview

Keys are assembled from their raw components. Key generation and key encodings (PEM, DER, PKCS #8) are left
to other packages; crypto/rsa keys can be converted with [FromStdPrivateKey].

	priv, err := rsacore.NewPrivateKey(n, big.NewInt(65537), d, []*big.Int{p, q})

When the prime factors are supplied, private-key operations use the Chinese Remainder Theorem (Garner's formula,
extended to any number of primes). Without them the key is still usable, but every operation exponentiates with D
modulo N directly. Both paths produce identical results.

# Decrypting

	plaintext, err := rsacore.Decrypt(priv, ciphertext, rsacore.PKCS1v15Padding(0))

A malformed block yields [ErrDecryption] only after the whole block has been checked with constant-time selects,
and the error carries no detail about where the block went wrong. See Bleichenbacher's attack for why this matters.

# Signing

	digest := sha256.Sum256(msg)
	sig, err := rsacore.Sign(priv, digest[:], rsacore.PSSPadding(crypto.SHA256, rsacore.PSSSaltLengthEqualsHash), rand.Reader)
	err = rsacore.Verify(&priv.PublicKey, digest[:], sig, rsacore.PSSPadding(crypto.SHA256, rsacore.PSSSaltLengthAuto))

Signing is always blinded with a fresh random factor, and the signature is checked with the public exponent before
it is returned. The randomness source is any io.Reader. [SeededSource] is a deterministic ChaCha20 stream, so the
same seed reproduces the same PSS signature.

# Side channels

Modular exponentiation and inversion on secret values go through the constant-time arithmetic in
github.com/cronokirby/saferith (see the math subpackage). Public-key operations and key assembly use the same code,
but key assembly also performs variable-time consistency checks on the components.

Keys are immutable and safe for concurrent use. Randomness sources generally are not.

# Sources

	[1] https://www.rfc-editor.org/rfc/rfc8017
	[2] http://archiv.infsec.ethz.ch/education/fs08/secsem/bleichenbacher98.pdf
*/
package rsacore
