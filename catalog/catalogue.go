package catalog

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Catalogue is the process-wide, read-only mapping from category id to
// Category (spec §3). It is populated once by Load/LoadWithBDS/Builtin and
// never mutated afterwards; every parse call only reads from it, which is
// what lets multiple goroutines share one Catalogue without locking
// (spec §5 "Thread safety").
type Catalogue struct {
	categories map[uint8]*Category
	bds        *RegisterTable
}

// New wraps a set of already-built Categories into a Catalogue, with no
// shared BDS register table. Used by the XML loader, the YAML-override
// layer, and Builtin.
func New(categories map[uint8]*Category) *Catalogue {
	cp := make(map[uint8]*Category, len(categories))
	for id, c := range categories {
		cp[id] = c
	}
	return &Catalogue{categories: cp}
}

// WithBDS attaches a shared BDS register table to the catalogue, returning
// a new Catalogue. Decoding a BDS item against a catalogue with no table
// attached always falls back to the opaque-hex rendering of spec §3.
func (c *Catalogue) WithBDS(t *RegisterTable) *Catalogue {
	return &Catalogue{categories: c.categories, bds: t}
}

// BDS returns the catalogue's shared Mode-S register table, or nil if none
// was loaded.
func (c *Catalogue) BDS() *RegisterTable {
	return c.bds
}

// Category returns the Category registered for id, if any.
func (c *Catalogue) Category(id uint8) (*Category, bool) {
	cat, ok := c.categories[id]
	return cat, ok
}

// CategoryIDs returns the registered category ids in ascending order.
func (c *Catalogue) CategoryIDs() []uint8 {
	ids := make([]uint8, 0, len(c.categories))
	for id := range c.categories {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Merge layers override categories on top of this catalogue, returning a
// new Catalogue. An override category entirely replaces the base category
// with the same id — spec.md treats the XML catalogue as authoritative and
// overrides as a site-local convenience layer (SPEC_FULL.md DOMAIN STACK),
// so partial per-item merging is intentionally not offered: an operator
// writing an override takes on the whole category definition.
func (c *Catalogue) Merge(overrides map[uint8]*Category) *Catalogue {
	merged := make(map[uint8]*Category, len(c.categories)+len(overrides))
	for id, cat := range c.categories {
		merged[id] = cat
	}
	for id, cat := range overrides {
		merged[id] = cat
	}
	return New(merged).WithBDS(c.bds)
}

// Fingerprint returns a fast, non-cryptographic digest of a Category's
// shape (UAPs and item formats), letting a long-running decoder confirm
// across restarts that the catalogue file on disk hasn't silently drifted,
// without diffing the source XML byte-for-byte.
func (c *Category) Fingerprint() uint64 {
	h := xxhash.New()
	fmt.Fprintf(h, "cat:%d:%s\n", c.ID, c.Name)

	ids := make([]string, 0, len(c.Items))
	for id := range c.Items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		d := c.Items[id]
		fmt.Fprintf(h, "item:%s:%s:%d\n", d.ID, d.Name, d.Rule)
		fingerprintFormat(h, d.Format)
	}

	for _, u := range c.UAPs {
		fmt.Fprintf(h, "uap:%s\n", u.Name)
		for _, it := range u.Items {
			fmt.Fprintf(h, "uapitem:%d:%d:%s:%d:%d\n", it.FRN, it.Bit, it.ItemID, it.LenOverride, it.Rule)
		}
	}
	return h.Sum64()
}

func fingerprintFormat(h *xxhash.Digest, f ItemFormat) {
	fmt.Fprintf(h, "fmt:%s:%s:%d:%d:%d\n", f.Tag, f.Name, f.ID, f.Len, len(f.Bits))
	for _, b := range f.Bits {
		fmt.Fprintf(h, "bits:%d:%d:%s:%d\n", b.FromBit, b.ToBit, b.Encoding, b.Presence)
	}
	for _, sub := range f.SubItems {
		fingerprintFormat(h, sub)
	}
}
