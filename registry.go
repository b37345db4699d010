package digest

import "sync"

// Kind identifies one concrete digest type.
type Kind string

// The built-in kinds. Base is the abstract root and cannot be
// instantiated; every other kind is registered at package load and
// guaranteed usable, or loading would have failed.
const (
	Base         Kind = "Base"
	MD5          Kind = "MD5"
	SHA1         Kind = "SHA1"
	SHA256       Kind = "SHA256"
	SHA384       Kind = "SHA384"
	SHA512       Kind = "SHA512"
	RMD160       Kind = "RMD160"
	BubbleBabble Kind = "BubbleBabble"
)

// Descriptor binds a kind to its canonical engine name and structural
// block length. A BlockLength of 0 marks the length as unimplemented;
// it is reported as such, never returned as a value.
type Descriptor struct {
	Name        string
	BlockLength int
}

// Registry maps kinds to descriptors over an ordered provider chain.
// Registration fails closed: a kind whose algorithm no provider can
// furnish is rejected immediately rather than at first use. A kind may
// instead be registered as derived, inheriting the descriptor of its
// parent without redeclaring it.
type Registry struct {
	chain chain

	mu          sync.RWMutex
	descriptors map[Kind]Descriptor
	parents     map[Kind]Kind
}

// NewRegistry returns an empty registry resolving algorithms against
// the given providers, consulted in order after the prototype cache.
func NewRegistry(providers ...Provider) *Registry {
	return &Registry{
		chain:       chain(providers),
		descriptors: make(map[Kind]Descriptor),
		parents:     make(map[Kind]Kind),
	}
}

// Register attaches a descriptor to a kind. It probes the provider
// chain and fails with UnavailableError naming the algorithm when no
// provider serves it, so a dead registration can never be observed
// by New.
func (r *Registry) Register(kind Kind, desc Descriptor) error {
	if !r.chain.available(desc.Name) {
		return &UnavailableError{Algorithm: desc.Name}
	}

	r.mu.Lock()
	r.descriptors[kind] = desc
	r.mu.Unlock()
	return nil
}

// RegisterDerived declares kind as a subtype of parent, inheriting
// whichever descriptor parent resolves to at construction time.
func (r *Registry) RegisterDerived(kind, parent Kind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.descriptors[parent]; !ok {
		if _, ok := r.parents[parent]; !ok {
			return &UnresolvedError{Kind: parent}
		}
	}

	r.parents[kind] = parent
	return nil
}

// resolve walks from kind through its parent chain and returns the
// first descriptor found.
func (r *Registry) resolve(kind Kind) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for cur, ok := kind, true; ok; cur, ok = r.parents[cur] {
		if desc, ok := r.descriptors[cur]; ok {
			return desc, true
		}
	}

	return Descriptor{}, false
}

// New constructs a live digest instance of the given kind.
// It fails with ErrAbstractBase for the abstract root, UnresolvedError
// when neither the kind nor its parents carry a descriptor, and
// UnavailableError when engine construction itself fails.
func (r *Registry) New(kind Kind) (*Digest, error) {
	if kind == Base {
		return nil, ErrAbstractBase
	}

	desc, ok := r.resolve(kind)
	if !ok {
		return nil, &UnresolvedError{Kind: kind}
	}

	eng, err := r.chain.construct(desc.Name)
	if err != nil {
		return nil, err
	}

	return &Digest{kind: kind, eng: eng, blockLength: desc.BlockLength}, nil
}

// DefaultChain returns the standard provider chain:
// the extended provider first, then the platform provider.
func DefaultChain() []Provider {
	return []Provider{Extended(), Platform()}
}

var defaultRegistry = func() *Registry {
	r := NewRegistry(DefaultChain()...)
	for _, reg := range []struct {
		kind Kind
		desc Descriptor
	}{
		{MD5, Descriptor{Name: "MD5", BlockLength: 64}},
		{SHA1, Descriptor{Name: "SHA-1", BlockLength: 64}},
		{SHA256, Descriptor{Name: "SHA-256", BlockLength: 64}},
		{SHA384, Descriptor{Name: "SHA-384", BlockLength: 128}},
		{SHA512, Descriptor{Name: "SHA-512", BlockLength: 128}},
		{RMD160, Descriptor{Name: "RIPEMD160", BlockLength: 64}},
		{BubbleBabble, Descriptor{Name: "BubbleBabble", BlockLength: 64}},
	} {
		if err := r.Register(reg.kind, reg.desc); err != nil {
			// a built-in kind with no engine is a broken build
			panic(err)
		}
	}
	return r
}()

// Default returns the process-wide registry holding the built-in kinds.
func Default() *Registry {
	return defaultRegistry
}

// Register attaches a descriptor to a kind in the default registry.
func Register(kind Kind, desc Descriptor) error {
	return defaultRegistry.Register(kind, desc)
}

// RegisterDerived declares a derived kind in the default registry.
func RegisterDerived(kind, parent Kind) error {
	return defaultRegistry.RegisterDerived(kind, parent)
}

// Kinds returns the kinds registered in the default registry,
// derived kinds included.
func Kinds() []Kind {
	r := defaultRegistry
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]Kind, 0, len(r.descriptors)+len(r.parents))
	for k := range r.descriptors {
		kinds = append(kinds, k)
	}
	for k := range r.parents {
		kinds = append(kinds, k)
	}
	return kinds
}
