package rsacore

import (
	"crypto"
	"fmt"
)

// PaddingScheme selects how messages and digests are laid out inside the modulus.
type PaddingScheme int

const (
	// PKCS1v15 is EME-PKCS1-v1_5 for encryption and EMSA-PKCS1-v1_5 for signatures (RFC 8017 sections 7.2 and 9.2)
	PKCS1v15 PaddingScheme = iota
	// PSS is EMSA-PSS with MGF1 (RFC 8017 section 9.1). It is only defined for signatures
	PSS
)

func (s PaddingScheme) String() string {
	switch s {
	case PKCS1v15:
		return "pkcs1v15"
	case PSS:
		return "pss"
	default:
		return fmt.Sprintf("PaddingScheme(%d)", int(s))
	}
}

// ParsePaddingScheme is the inverse of [PaddingScheme.String]
func ParsePaddingScheme(s string) (PaddingScheme, error) {
	switch s {
	case "pkcs1v15", "pkcs1", "PKCS1v15":
		return PKCS1v15, nil
	case "pss", "PSS":
		return PSS, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedPadding, s)
	}
}

const (
	// PSSSaltLengthAuto causes the salt in a PSS signature to be as large as possible when signing,
	// and to be auto-detected when verifying.
	PSSSaltLengthAuto = 0
	// PSSSaltLengthEqualsHash causes the salt length to equal the length of the hash used in the signature.
	PSSSaltLengthEqualsHash = -1
)

// Padding describes the padding applied by Sign, Verify and Decrypt.
//
// Hash is the digest algorithm whose output is being signed. For PKCS1v15 signatures it selects the DigestInfo
// prefix, and a zero Hash signs the input directly without any prefix. For PSS it is also the MGF1 hash and must be set.
// SaltLength only applies to PSS.
type Padding struct {
	Scheme     PaddingScheme
	Hash       crypto.Hash
	SaltLength int
}

// PKCS1v15Padding returns PKCS #1 v1.5 padding for digests produced by hash
func PKCS1v15Padding(hash crypto.Hash) Padding {
	return Padding{Scheme: PKCS1v15, Hash: hash}
}

// PSSPadding returns PSS padding with the given salt length, which may be one of the PSSSaltLength constants
func PSSPadding(hash crypto.Hash, saltLength int) Padding {
	return Padding{Scheme: PSS, Hash: hash, SaltLength: saltLength}
}

// HashFunc lets a Padding be passed as crypto.SignerOpts
func (p Padding) HashFunc() crypto.Hash {
	return p.Hash
}

func (p Padding) String() string {
	if p.Scheme == PSS {
		return fmt.Sprintf("%s/%v/salt=%d", p.Scheme, p.Hash, p.SaltLength)
	}
	return fmt.Sprintf("%s/%v", p.Scheme, p.Hash)
}
