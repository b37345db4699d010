// Package digest provides a uniform incremental interface over
// multiple cryptographic hash algorithms (MD5, SHA-1, SHA-256/384/512,
// RIPEMD-160 and a BubbleBabble pseudo-digest).
//
// Every kind shares one derived protocol built atop four primitive
// engine operations (update, finish, reset, block length): one-shot
// digesting, hex and BubbleBabble encoding, equality, duplication and
// textual representation. Instance construction is cheap where it
// matters: frequently used engines are kept as read-only prototypes
// and duplicated instead of rebuilt.
//
// An instance must not be mutated from multiple goroutines; concurrent
// digesting wants independent instances, obtained via Clone or New.
package digest

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/pchchv/digest/internal/bubblebabble"
)

// Digest is a live instance of one digest kind. It exclusively owns a
// mutable engine; no two instances ever share engine state, and every
// duplication path yields an independently mutable copy.
type Digest struct {
	kind        Kind
	eng         *engine
	blockLength int
}

// New constructs an instance of the given kind from the default registry.
func New(kind Kind) (*Digest, error) {
	return defaultRegistry.New(kind)
}

// Kind returns the kind this instance was constructed as.
func (d *Digest) Kind() Kind {
	return d.kind
}

// Update feeds data into the running state and returns the instance
// for chaining.
func (d *Digest) Update(data []byte) *Digest {
	d.eng.Write(data)
	return d
}

// Write feeds data into the running state,
// implementing io.Writer so an instance can sit
// at the end of an io.Copy.
func (d *Digest) Write(data []byte) (int, error) {
	return d.eng.Write(data)
}

// Finish returns the digest over all bytes fed since the last reset.
// It does not reset the running state.
func (d *Digest) Finish() []byte {
	return d.eng.Sum(nil)
}

// Reset clears the running state to the algorithm's initial condition
// and returns the instance for chaining.
func (d *Digest) Reset() *Digest {
	d.eng.Reset()
	return d
}

// Size returns the byte length of a digest produced by this instance.
func (d *Digest) Size() int {
	return d.eng.Size()
}

// Length is an alias for Size.
func (d *Digest) Length() int {
	return d.Size()
}

// BlockLength returns the structural block size of the algorithm.
// Kinds with no configured block length fail with UnimplementedError.
func (d *Digest) BlockLength() (int, error) {
	if d.blockLength <= 0 {
		return 0, &UnimplementedError{Kind: d.kind, Op: "BlockLength"}
	}
	return d.blockLength, nil
}

// Clone returns an independent duplicate of the instance, accumulated
// state included. Mutating either instance afterwards never affects
// the other. Every built-in kind duplicates; only a user-supplied
// engine that can neither export nor replay its state fails with
// DuplicationError.
func (d *Digest) Clone() (*Digest, error) {
	eng, err := d.eng.clone()
	if err != nil {
		return nil, err
	}
	return &Digest{kind: d.kind, eng: eng, blockLength: d.blockLength}, nil
}

// New returns a reset duplicate of the instance: the same algorithm
// configuration with no accumulated state.
func (d *Digest) New() (*Digest, error) {
	c, err := d.Clone()
	if err != nil {
		return nil, err
	}
	return c.Reset(), nil
}

// Digest returns the digest of data, or of the accumulated state when
// data is nil.
//
// With non-nil data the instance is reset, fed and reset again, so the
// call is atomic: no residual state is visible afterwards. With nil
// data the digest is taken on an independent duplicate, leaving the
// instance's accumulated state untouched. An empty non-nil slice is
// ordinary input, not an absent argument.
func (d *Digest) Digest(data []byte) ([]byte, error) {
	if data != nil {
		d.Reset()
		d.Update(data)
		sum := d.Finish()
		d.Reset()
		return sum, nil
	}

	c, err := d.Clone()
	if err != nil {
		return nil, err
	}

	sum := c.Finish()
	c.Reset()
	return sum, nil
}

// DigestFinal returns the digest of the accumulated state and resets
// the instance: terminal, it consumes what has been fed so far.
func (d *Digest) DigestFinal() []byte {
	sum := d.Finish()
	d.Reset()
	return sum
}

// HexDigest returns the lowercase hex form of Digest(data).
func (d *Digest) HexDigest(data []byte) (string, error) {
	sum, err := d.Digest(data)
	if err != nil {
		return "", err
	}
	return Hexencode(sum), nil
}

// HexDigestFinal returns the lowercase hex form of DigestFinal.
func (d *Digest) HexDigestFinal() string {
	return Hexencode(d.DigestFinal())
}

// BubbleBabble returns the BubbleBabble encoding of Digest(data).
func (d *Digest) BubbleBabble(data []byte) (string, error) {
	sum, err := d.Digest(data)
	if err != nil {
		return "", err
	}
	return bubblebabble.Encode(sum), nil
}

// Equal reports whether other represents the same digest value.
//
// A nil other is never equal. Another *Digest is compared by digest
// bytes, length first; anything textual (string, []byte,
// fmt.Stringer) is compared against this instance's hex form.
func (d *Digest) Equal(other any) bool {
	switch o := other.(type) {
	case nil:
		return false
	case *Digest:
		if o == nil {
			return false
		}
		a, err := d.Digest(nil)
		if err != nil {
			return false
		}
		b, err := o.Digest(nil)
		if err != nil {
			return false
		}
		return len(a) == len(b) && bytes.Equal(a, b)
	case string:
		return d.String() == o
	case []byte:
		return d.String() == string(o)
	case fmt.Stringer:
		return d.String() == o.String()
	default:
		return false
	}
}

// String returns the hex digest of the accumulated state, leaving the
// state untouched. An instance whose engine cannot be duplicated
// renders as digest.Kind(error) rather than as a digest value.
func (d *Digest) String() string {
	hexdigest, err := d.HexDigest(nil)
	if err != nil {
		return fmt.Sprintf("digest.%s(%v)", d.kind, err)
	}
	return hexdigest
}

// GoString implements fmt.GoStringer in the same shape the textual
// inspection of an instance has always had.
func (d *Digest) GoString() string {
	return fmt.Sprintf("#<digest.%s: %s>", d.kind, d.String())
}

// Sum digests data with a transient instance of the given kind and
// returns the raw digest bytes. A nil data argument fails with
// ErrEmptyInput; an empty non-nil slice is valid input.
func Sum(kind Kind, data []byte) ([]byte, error) {
	if data == nil {
		return nil, ErrEmptyInput
	}

	d, err := New(kind)
	if err != nil {
		return nil, err
	}

	return d.Digest(data)
}

// HexSum returns the lowercase hex form of Sum(kind, data).
func HexSum(kind Kind, data []byte) (string, error) {
	sum, err := Sum(kind, data)
	if err != nil {
		return "", err
	}
	return Hexencode(sum), nil
}

// BubbleBabbleSum returns the BubbleBabble encoding of Sum(kind, data).
func BubbleBabbleSum(kind Kind, data []byte) (string, error) {
	sum, err := Sum(kind, data)
	if err != nil {
		return "", err
	}
	return bubblebabble.Encode(sum), nil
}

// Hexencode returns the lowercase hexadecimal encoding of data.
func Hexencode(data []byte) string {
	return hex.EncodeToString(data)
}

// Babble returns the BubbleBabble encoding of data itself.
// To encode a digest of data, see Digest.BubbleBabble and BubbleBabbleSum.
func Babble(data []byte) string {
	return bubblebabble.Encode(data)
}
