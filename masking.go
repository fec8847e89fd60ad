package femtologging

import "strings"

// Masker wraps another Filter and redacts the values of configured keys in
// the record's metadata after the wrapped filter runs, before the record
// reaches any handler. It always admits (ShouldLog never denies on its own
// account); it exists purely to redact.
//
// Generalized from sawmill's flat_attributes.go struct-tag masking
// (`sawmill:"mask"` / `sawmill:"mask[n]"`); femtologging's metadata is a
// flat ordered key/value list rather than struct-derived attributes, so
// masking here is configured by key name instead of by struct tag.
type Masker struct {
	Inner     Filter // may be nil
	Keys      map[string]struct{}
	KeepChars int // bytes of the original value kept as a prefix when masking; 0 masks fully
}

// NewMasker returns a Masker redacting the named keys in full.
func NewMasker(keys ...string) *Masker {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return &Masker{Keys: set}
}

func (m *Masker) ShouldLog(r *Record) bool {
	if m.Inner != nil && !m.Inner.ShouldLog(r) {
		return false
	}
	for i, kv := range r.Meta.Attrs {
		if _, sensitive := m.Keys[kv.Key]; sensitive {
			r.Meta.Attrs[i].Value = maskValue(kv.Value, m.KeepChars)
		}
	}
	return true
}

func maskValue(v string, keep int) string {
	if keep <= 0 || keep >= len(v) {
		return strings.Repeat("*", len(v))
	}
	return v[:keep] + strings.Repeat("*", len(v)-keep)
}
