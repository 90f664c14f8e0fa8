package room

// Codes are short, shareable and unambiguous when read aloud: six characters
// from an uppercase alphabet with 0/O and 1/I collisions removed.
const codeAlphabet = "ABCDEFGHJKMNPQRSTVWXYZ23456789"

const codeLength = 6

// RandSource supplies randomness for code generation; injectable for
// deterministic tests.
type RandSource interface {
	IntN(n int) int
}

// generateCode produces a fresh room code.
func generateCode(src RandSource) string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[src.IntN(len(codeAlphabet))]
	}
	return string(b)
}
