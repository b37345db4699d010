package digest

import (
	"crypto/md5"
	"crypto/sha256"
	"hash"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainConstructUnavailable(t *testing.T) {
	_, err := chain{Platform()}.construct("NOPE")
	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "NOPE", unavailable.Algorithm)
}

func TestChainAvailable(t *testing.T) {
	c := chain{Extended(), Platform()}
	for _, name := range []string{"MD5", "SHA-1", "SHA-256", "SHA-384", "SHA-512", "RIPEMD160", "SHA3-512", "BLAKE2b-512", "BubbleBabble"} {
		assert.True(t, c.available(name), "algorithm %s", name)
	}
}

func TestPlatformOnlyChain(t *testing.T) {
	c := chain{Platform()}
	assert.True(t, c.available("MD5"))
	assert.False(t, c.available("RIPEMD160"))
	assert.False(t, c.available("SHA3-256"))
}

// Construction after a prototype duplicate has been mutated must still
// yield pristine engines: the cache entry is never written through.
func TestPrototypeCacheImmutable(t *testing.T) {
	c := chain{Platform()}
	e1, err := c.construct("SHA-256")
	require.NoError(t, err)
	e1.Write([]byte("pollute the first duplicate"))

	e2, err := c.construct("SHA-256")
	require.NoError(t, err)

	want := sha256.Sum256(nil)
	assert.Equal(t, want[:], e2.Sum(nil))
}

func TestEngineCloneIndependence(t *testing.T) {
	c := chain{Platform()}
	e1, err := c.construct("MD5")
	require.NoError(t, err)
	e1.Write([]byte("base"))

	e2, err := e1.clone()
	require.NoError(t, err)
	e1.Write([]byte("left"))
	e2.Write([]byte("right"))

	assert.NotEqual(t, e1.Sum(nil), e2.Sum(nil))

	ref, err := c.construct("MD5")
	require.NoError(t, err)
	ref.Write([]byte("baseleft"))
	assert.Equal(t, ref.Sum(nil), e1.Sum(nil))
}

// RIPEMD-160 offers no state marshaling,
// so its engine duplicates by replaying the input log.
func TestCloneByReplay(t *testing.T) {
	c := chain(DefaultChain())
	e1, err := c.construct("RIPEMD160")
	require.NoError(t, err)
	e1.Write([]byte("base"))

	e2, err := e1.clone()
	require.NoError(t, err)
	e1.Write([]byte("left"))
	e2.Write([]byte("right"))

	refL, err := c.construct("RIPEMD160")
	require.NoError(t, err)
	refL.Write([]byte("baseleft"))
	assert.Equal(t, refL.Sum(nil), e1.Sum(nil))

	refR, err := c.construct("RIPEMD160")
	require.NoError(t, err)
	refR.Write([]byte("baseright"))
	assert.Equal(t, refR.Sum(nil), e2.Sum(nil))

	// a reset clears the input log along with the running state
	e2.Reset()
	e3, err := e2.clone()
	require.NoError(t, err)
	pristine, err := c.construct("RIPEMD160")
	require.NoError(t, err)
	assert.Equal(t, pristine.Sum(nil), e3.Sum(nil))
}

// opaqueHash hides the state-marshaling ability of the hash it wraps.
type opaqueHash struct {
	h hash.Hash
}

func (o opaqueHash) Write(p []byte) (int, error) { return o.h.Write(p) }
func (o opaqueHash) Sum(b []byte) []byte         { return o.h.Sum(b) }
func (o opaqueHash) Reset()                      { o.h.Reset() }
func (o opaqueHash) Size() int                   { return o.h.Size() }
func (o opaqueHash) BlockSize() int              { return o.h.BlockSize() }

// An engine that neither marshals its state nor logs its input is the
// one case duplication may still refuse; its instance renders the
// failure instead of posing as a digest value.
func TestUncopyableEngine(t *testing.T) {
	fn := func() hash.Hash { return opaqueHash{h: md5.New()} }
	d := &Digest{kind: Kind("Opaque"), eng: &engine{name: "Opaque", fresh: fn, Hash: fn()}}

	_, err := d.Clone()
	var dup *DuplicationError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "Opaque", dup.Algorithm)

	assert.Contains(t, d.String(), "could not initialize copy of digest (Opaque)")
}

func TestBabbleEngineStateRoundTrip(t *testing.T) {
	e := newBabbleEngine()
	_, err := e.Write([]byte("Pineapple"))
	require.NoError(t, err)

	state, err := e.(*babbleEngine).MarshalBinary()
	require.NoError(t, err)

	restored := newBabbleEngine()
	require.NoError(t, restored.(*babbleEngine).UnmarshalBinary(state))
	assert.Equal(t, "xigak-nyryk-humil-bosek-sonax", string(restored.Sum(nil)))
	assert.Equal(t, e.Size(), restored.Size())

	restored.Reset()
	assert.Equal(t, "xexax", string(restored.Sum(nil)))
}
