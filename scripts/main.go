package main

import (
	"bytes"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha512"
	"fmt"

	"github.com/bastionzero/rsacore"
)

// cross-check rsacore against crypto/rsa on a freshly generated key, in both directions
func main() {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(err)
	}
	priv, err := rsacore.FromStdPrivateKey(key)
	if err != nil {
		panic(err)
	}

	msg := "a message"
	fmt.Println("runnin...")
	hasher := sha512.New()

	hasher.Write([]byte(msg))

	hash := hasher.Sum(nil)

	// PKCS #1 v1.5 signatures are deterministic, so both libraries must agree byte for byte
	theirs, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA512, hash)
	if err != nil {
		panic(err)
	}
	ours, err := rsacore.Sign(priv, hash, rsacore.PKCS1v15Padding(crypto.SHA512), rand.Reader)
	if err != nil {
		panic(err)
	}
	if !bytes.Equal(ours, theirs) {
		panic("PKCS #1 v1.5 signatures differ")
	}

	pss := rsacore.PSSPadding(crypto.SHA512, rsacore.PSSSaltLengthEqualsHash)
	sig, err := rsacore.Sign(priv, hash, pss, rand.Reader)
	if err != nil {
		panic(err)
	}
	opts := &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash, Hash: crypto.SHA512}
	if err := rsa.VerifyPSS(&key.PublicKey, crypto.SHA512, hash, sig, opts); err != nil {
		panic(err)
	}

	ciphertext, err := rsa.EncryptPKCS1v15(rand.Reader, &key.PublicKey, []byte(msg))
	if err != nil {
		panic(err)
	}
	plaintext, err := rsacore.Decrypt(priv, ciphertext, rsacore.PKCS1v15Padding(0))
	if err != nil {
		panic(err)
	}
	if string(plaintext) != msg {
		panic("decrypted the wrong message")
	}

	fmt.Println("you done it!")
}
