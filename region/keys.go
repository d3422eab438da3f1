package region

// A RoutingKey produces the routing word for one outgoing connection.
// The subregion index is passed in because the true key is only known
// once subregions have been assigned indices (deferred finalization);
// keys that do not depend on the index simply ignore it.
type RoutingKey interface {
	Key(subregionIndex int) uint32
}

// FixedKey is a routing key that is already final.
type FixedKey uint32

// Key returns the key regardless of the subregion index.
func (k FixedKey) Key(int) uint32 { return uint32(k) }

// KeyField derives one output word from a routing key.
type KeyField func(k RoutingKey, subregionIndex int) uint32

// KeysRegion writes one record per routing key. Each record consists of
// the key itself followed by any extra configured fields.
type KeysRegion struct {
	keys         []RoutingKey
	fields       []KeyField
	prependCount bool
	inScratch    bool
}

// KeysRegionBuilder builds KeysRegions.
type KeysRegionBuilder struct {
	keys         []RoutingKey
	extraFields  []KeyField
	prependCount bool
	inScratch    bool
}

// MakeKeysRegionBuilder returns a builder with defaults: key word only,
// no count prepend, scratch memory.
func MakeKeysRegionBuilder() KeysRegionBuilder {
	return KeysRegionBuilder{inScratch: true}
}

// WithKeys sets the routing keys, in record order.
func (b KeysRegionBuilder) WithKeys(keys []RoutingKey) KeysRegionBuilder {
	b.keys = keys
	return b
}

// WithExtraFields appends fields to each record after the key word.
func (b KeysRegionBuilder) WithExtraFields(fs ...KeyField) KeysRegionBuilder {
	b.extraFields = fs
	return b
}

// WithCountPrepend prepends the number of keys as the first word.
func (b KeysRegionBuilder) WithCountPrepend() KeysRegionBuilder {
	b.prependCount = true
	return b
}

// InBulkMemory keeps the region in SDRAM instead of scratch memory.
func (b KeysRegionBuilder) InBulkMemory() KeysRegionBuilder {
	b.inScratch = false
	return b
}

// Build creates the region.
func (b KeysRegionBuilder) Build() *KeysRegion {
	keys := make([]RoutingKey, len(b.keys))
	copy(keys, b.keys)

	fields := make([]KeyField, 0, 1+len(b.extraFields))
	fields = append(fields, func(k RoutingKey, i int) uint32 {
		return k.Key(i)
	})
	fields = append(fields, b.extraFields...)

	return &KeysRegion{
		keys:         keys,
		fields:       fields,
		prependCount: b.prependCount,
		inScratch:    b.inScratch,
	}
}

// SizeWords returns keys x fields plus the optional count word. The
// region is not partitioned; the slice only undergoes validity checks.
func (r *KeysRegion) SizeWords(s Slice) (int, error) {
	if err := checkSlice(s, -1); err != nil {
		return 0, err
	}

	size := len(r.keys) * len(r.fields)
	if r.prependCount {
		size++
	}

	return size, nil
}

// Materialize evaluates every field for every key.
func (r *KeysRegion) Materialize(s Slice, subregionIndex int) ([]uint32, error) {
	size, err := r.SizeWords(s)
	if err != nil {
		return nil, err
	}

	out := make([]uint32, 0, size)
	if r.prependCount {
		out = append(out, uint32(len(r.keys)))
	}
	for _, k := range r.keys {
		for _, f := range r.fields {
			out = append(out, f(k, subregionIndex))
		}
	}

	return out, nil
}

// InScratchMemory reports whether the region lives in scratch memory.
func (r *KeysRegion) InScratchMemory() bool { return r.inScratch }

// Unfilled always reports false; key records are written by the host.
func (r *KeysRegion) Unfilled() bool { return false }
