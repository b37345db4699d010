// Package bubblebabble implements the BubbleBabble binary data
// encoding, a printable fingerprint format best known from OpenSSH.
// Every encoding starts and ends with 'x' and groups the alternating
// vowel/consonant output five characters at a time, separated by '-'.
package bubblebabble

var (
	vowels     = []byte("aeiouy")
	consonants = []byte("bcdfghklmnprstvzx")
)

// EncodedLen returns the length of the BubbleBabble encoding of n input bytes.
func EncodedLen(n int) int {
	// 'x' + one 5-character group plus separator per round, minus the
	// trailing separator of the last round, + 'x'.
	rounds := n/2 + 1
	return 6*rounds - 3 + 2
}

// Encode returns the BubbleBabble encoding of data.
// The empty input encodes to "xexax".
func Encode(data []byte) string {
	seed := 1
	rounds := len(data)/2 + 1
	out := make([]byte, 0, EncodedLen(len(data)))
	out = append(out, 'x')
	for i := 0; i < rounds; i++ {
		if i+1 < rounds || len(data)%2 != 0 {
			b0 := int(data[2*i])
			out = append(out,
				vowels[((b0>>6&3)+seed)%6],
				consonants[b0>>2&15],
				vowels[((b0&3)+seed/6)%6])
			if i+1 < rounds {
				b1 := int(data[2*i+1])
				out = append(out,
					consonants[b1>>4&15],
					'-',
					consonants[b1&15])
				seed = (seed*5 + b0*7 + b1) % 36
			}
		} else {
			// even-length input closes with a seed-only group.
			out = append(out, vowels[seed%6], consonants[16], vowels[seed/6])
		}
	}

	return string(append(out, 'x'))
}
