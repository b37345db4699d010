package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding"
	"hash"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"

	"github.com/pchchv/digest/internal/bubblebabble"
)

// Provider furnishes hash engine constructors by canonical algorithm name.
// It reports false for names it cannot serve, leaving the decision to
// the next provider in the chain.
type Provider interface {
	New(name string) (func() hash.Hash, bool)
}

// mapProvider is a fixed name-to-constructor table.
type mapProvider map[string]func() hash.Hash

func (p mapProvider) New(name string) (func() hash.Hash, bool) {
	fn, ok := p[name]
	return fn, ok
}

// Platform returns the platform provider,
// serving the standard library engines.
func Platform() Provider {
	return mapProvider{
		"MD5":          md5.New,
		"SHA-1":        sha1.New,
		"SHA-256":      sha256.New,
		"SHA-384":      sha512.New384,
		"SHA-512":      sha512.New,
		"BubbleBabble": newBabbleEngine,
	}
}

// Extended returns the extended provider,
// serving algorithms outside the standard library.
// Extended engines are never cached as prototypes and
// pay full construction cost on each use.
func Extended() Provider {
	return mapProvider{
		"RIPEMD160":   ripemd160.New,
		"SHA3-256":    sha3.New256,
		"SHA3-512":    sha3.New512,
		"BLAKE2b-256": unkeyed(blake2b.New256),
		"BLAKE2b-512": unkeyed(blake2b.New512),
	}
}

// unkeyed adapts the keyed blake2b constructors to the unkeyed form.
func unkeyed(fn func(key []byte) (hash.Hash, error)) func() hash.Hash {
	return func() hash.Hash {
		h, err := fn(nil)
		if err != nil {
			// unreachable for a nil key
			panic(err)
		}
		return h
	}
}

// engine pairs a live hash with the constructor that produced it,
// so that its running state can be copied into a fresh instance.
type engine struct {
	name  string
	fresh func() hash.Hash
	hash.Hash
	// logging engines keep every byte fed since the last reset in
	// replay, because their hash cannot export state; duplication
	// then reconstructs a fresh hash and replays the input.
	logging bool
	replay  []byte
}

// newEngine wraps a freshly constructed hash, turning on input
// logging when the hash offers no state marshaling of its own.
func newEngine(name string, fn func() hash.Hash) *engine {
	e := &engine{name: name, fresh: fn, Hash: fn()}
	_, marshals := e.Hash.(encoding.BinaryMarshaler)
	e.logging = !marshals
	return e
}

func (e *engine) Write(p []byte) (int, error) {
	if e.logging {
		e.replay = append(e.replay, p...)
	}
	return e.Hash.Write(p)
}

func (e *engine) Reset() {
	if e.logging {
		e.replay = e.replay[:0]
	}
	e.Hash.Reset()
}

// clone returns an independent engine carrying the same accumulated
// state, either by marshaling the hash state into a fresh hash or,
// for logging engines, by replaying the input log. Only an engine
// that neither marshals nor logs fails with DuplicationError.
func (e *engine) clone() (*engine, error) {
	m, ok := e.Hash.(encoding.BinaryMarshaler)
	if !ok {
		if !e.logging {
			return nil, &DuplicationError{Algorithm: e.name}
		}

		c := newEngine(e.name, e.fresh)
		c.Hash.Write(e.replay)
		c.replay = append(c.replay, e.replay...)
		return c, nil
	}

	state, err := m.MarshalBinary()
	if err != nil {
		return nil, &DuplicationError{Algorithm: e.name, Err: errors.Wrap(err, "marshal engine state")}
	}

	h := e.fresh()
	u, ok := h.(encoding.BinaryUnmarshaler)
	if !ok {
		return nil, &DuplicationError{Algorithm: e.name}
	}

	if err := u.UnmarshalBinary(state); err != nil {
		return nil, &DuplicationError{Algorithm: e.name, Err: errors.Wrap(err, "unmarshal engine state")}
	}

	return &engine{name: e.name, fresh: e.fresh, Hash: h}, nil
}

// prototypeNames is the closed set of algorithms probed for the
// prototype cache. Cache entries are duplicated instead of
// reconstructed on every instantiation.
var prototypeNames = []string{"MD5", "SHA-1", "SHA-256", "SHA-384", "SHA-512"}

var (
	protoOnce  sync.Once
	prototypes map[string]*engine
)

// buildPrototypes probes the fixed algorithm set against the platform
// provider and retains the engines proven duplicable. Probe failures
// are logged, never raised; the name simply pays full construction
// cost later. Runs once; the table is read-only afterward.
func buildPrototypes() {
	prototypes = make(map[string]*engine, len(prototypeNames))
	platform := Platform()
	for _, name := range prototypeNames {
		fn, ok := platform.New(name)
		if !ok {
			log.WithField("algorithm", name).Debug("no platform engine to cache")
			continue
		}

		proto := newEngine(name, fn)
		if _, err := proto.clone(); err != nil {
			log.WithField("algorithm", name).WithError(err).Debug("engine not duplicable, skipping cache")
			continue
		}
		prototypes[name] = proto
	}
}

// chain is an ordered provider list with the prototype cache in front.
type chain []Provider

// construct returns a fresh engine for the canonical algorithm name.
// A cached prototype is duplicated instead of rebuilt; the prototype
// itself is never mutated. On a cache miss the providers are consulted
// in order. Fails with UnavailableError when none serve the name.
func (c chain) construct(name string) (*engine, error) {
	protoOnce.Do(buildPrototypes)
	if proto, ok := prototypes[name]; ok {
		if e, err := proto.clone(); err == nil {
			return e, nil
		}
		// proven duplicable at probe time; fall through regardless
	}

	for _, p := range c {
		if fn, ok := p.New(name); ok {
			return newEngine(name, fn), nil
		}
	}

	return nil, &UnavailableError{Algorithm: name}
}

// available reports whether any provider in the chain serves name.
func (c chain) available(name string) bool {
	for _, p := range c {
		if _, ok := p.New(name); ok {
			return true
		}
	}
	return false
}

// babbleEngine is the pseudo-digest engine behind the BubbleBabble
// kind: it accumulates raw input and emits the BubbleBabble encoding
// of that input as its digest.
type babbleEngine struct {
	buf []byte
}

func newBabbleEngine() hash.Hash {
	return &babbleEngine{}
}

func (e *babbleEngine) Write(p []byte) (int, error) {
	e.buf = append(e.buf, p...)
	return len(p), nil
}

func (e *babbleEngine) Sum(b []byte) []byte {
	return append(b, bubblebabble.Encode(e.buf)...)
}

func (e *babbleEngine) Reset() {
	e.buf = e.buf[:0]
}

func (e *babbleEngine) Size() int {
	return bubblebabble.EncodedLen(len(e.buf))
}

func (e *babbleEngine) BlockSize() int {
	return 64
}

func (e *babbleEngine) MarshalBinary() ([]byte, error) {
	state := make([]byte, len(e.buf))
	copy(state, e.buf)
	return state, nil
}

func (e *babbleEngine) UnmarshalBinary(state []byte) error {
	e.buf = append(e.buf[:0], state...)
	return nil
}
