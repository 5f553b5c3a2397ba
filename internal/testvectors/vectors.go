// Package testvectors holds the fixed 2048-bit key and ciphertext that rsacore is measured and tested against.
package testvectors

import (
	"encoding/base64"
	"encoding/hex"
	"math/big"
)

const (
	// N is the modulus, in decimal
	N = "1431413293124100665099808488927402060891804903267185832598839685133412424518821425195619873133346421" +
		"7832226406088020736932173064754214329009979944037640912127943488972644697423190955557435910767690712" +
		"7784635249836678528190102594996951773131154471161103585245583079476134228977873292214788609079638271" +
		"6022355969052366057432901192753128965571186050463057376660923933256921083132563384017468394455366735" +
		"2219670930408593321661375473885147973879086994006440025257225431977751512374815915392249179976902953" +
		"7214860407877928018498182544654866337918267668730766171167270730778215846767156099857775639582866371" +
		"85868165868520557"

	// E is the public exponent
	E = 3

	// D is the private exponent, in decimal
	D = "9542755287494004433998723259516013739278699355114572217325597900889416163458809501304132487555642811" +
		"8881509373920138246214487098361428860066532960250939414186289926484297982821273037049572738451271418" +
		"5230901665577856854600683966646345154207696474407357234970553863174228193185821948098590727197588477" +
		"3482372966847639853897890615456605598071088189838676728836833012254065983259638538107719766738032720" +
		"2398920941961087133788228823836944560300434925710634419438471959395497732716946476575496586033656294" +
		"5861027382129223264633471761267451999753390105279033427966175417649059304194186393230868719761867152" +
		"8035670452762731"

	// P and Q are the prime factors of N, in decimal
	P = "1309032551829967224267716136060777552955833291350673401529471728684158090275373763061931796242988742" +
		"1560827080205434760983677647393007241195875304456221453701387410380200636963476107437721399598387678" +
		"8718033850153719421695468704276694983032644416930879093914927146648402139231293035971427838068945045" +
		"019075433"
	Q = "1093489456104854535775747676525274729242892295382866496612409389880203670054757279882534386475609585" +
		"7350615944953879354047282981590394934319109181777924010105455274866526757427116361769464051354969384" +
		"1337820602726596756351006149518830932261246698766355347898158548465400674856021497190430791824869615" +
		"170301029"

	// Ciphertext is a PKCS #1 v1.5 encryption under (N, E), base64-encoded
	Ciphertext = "XW4qfrpQDarEMBfPyIYE9UvuOFkbBi0tiGYbIOJPLMNe/LWuPD0BQ7ceqlOlPPcKLinYz0DlnqW3It/V7ae59zw9afA3YIWdq0Ut" +
		"2BnYL+aJixnqaP+PjsQNcHg6axCF11iNQ4jpXrZDiQcI+q9EEzZDTMsiMxtjfgBQUd8LHT87YoQXDWaFPCVpliACMc8aUk442kH1" +
		"tc4jEuXwjEjFErvAM/J7VizCdU/dnKrlq2mBDzvZ6hxY9TYHFB/zY6DZPJAgEMUxYWCR9xPJ7X256DV1Kt0Ht33DWoFcgh/pPLM1" +
		"q9pK0HVxCdclXfZOeCqlrLgZ5Gxv5DM4BtV7Z4m85w=="

	// Plaintext is what Ciphertext decrypts to, hex-encoded
	Plaintext = "6ab45e3fd0c9b445725760e0ddd0e9e1cfcf4a4d4eea5c64a09f07705ba9a11a" +
		"2b0591beefed5f0c0c13d6894d75d16740c8e691bf2fc7098d3284c04ff0458d"

	// Message is the message whose SHA-256 digest gets signed
	Message = "testing"

	// Digest is SHA-256(Message), hex-encoded
	Digest = "cf80cd8aed482d5d1527d7dc72fceff84e6326592848447d2dc0b0e87dfc9a90"

	// PKCS1v15Signature is the PKCS #1 v1.5 signature of Digest with the SHA-256 DigestInfo prefix, hex-encoded.
	// The padding is deterministic, so it does not depend on the randomness used for blinding
	PKCS1v15Signature = "56d8b43f741faa6a42c038255b72dad0505ad4a4fe0b2fce48bb2860a6976017" +
		"5e25e49bf1c13da46f718666889e805f45f169533c1127a6ed26fdac7446beaf" +
		"897c814a4b48f98e6e4fe91e8ff5fdadd5b72aeff8218d8b775b4aaebf90e24a" +
		"e7cabfe389ae902ee942b0bfb05f59fdca5ae22671691c5b462f83669489382b" +
		"d8687cb5960f55985009470d14c24810234bd5c4fff4ea283a55b4445c7eac26" +
		"e5f741a18118384374a1586ad6ba374327750742283d3ce16581baa9e8e982fd" +
		"7bb94a705386675cb1ce7037769ebceecdc8ee60ddadb7c490274e7a6983fcce" +
		"3a6ce2f492ddac4e5965e4d92e51701a232a44a879dcd4a5cdbef424f1193c0f"
)

// Seed seeds the deterministic randomness stream used when signing
var Seed = [32]byte{
	42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42,
	42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42,
}

// Components returns the key components as big integers
func Components() (n, e, d *big.Int, primes []*big.Int) {
	return mustDecimal(N), big.NewInt(E), mustDecimal(D), []*big.Int{mustDecimal(P), mustDecimal(Q)}
}

// CiphertextBytes decodes Ciphertext
func CiphertextBytes() []byte {
	b, err := base64.StdEncoding.DecodeString(Ciphertext)
	if err != nil {
		panic(err)
	}
	return b
}

// DigestBytes decodes Digest
func DigestBytes() []byte {
	return mustHex(Digest)
}

// PKCS1v15SignatureBytes decodes PKCS1v15Signature
func PKCS1v15SignatureBytes() []byte {
	return mustHex(PKCS1v15Signature)
}

// PlaintextBytes decodes Plaintext
func PlaintextBytes() []byte {
	return mustHex(Plaintext)
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func mustDecimal(s string) *big.Int {
	x, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("testvectors: malformed decimal constant")
	}
	return x
}
