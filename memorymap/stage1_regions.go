package memorymap

import (
	"github.com/espressif/idfsize/internal/idferr"
	"github.com/espressif/idfsize/mapfile"
)

// assignRegionsToMemoryTypes implements Stage 1: drop `*default*`,
// attribute every remaining region to a catalog memory type (splitting
// at a type boundary when a region straddles one, carving out
// zero-length reserved regions against the end of a previously assigned
// region, and detecting primary/secondary address aliasing per
// invariant 3), and warn on anything left unassigned.
func assignRegionsToMemoryTypes(regions []mapfile.MemoryRegion, catalog Catalog, log idferr.Logger) []workingRegion {
	var assigned []workingRegion

	for _, r := range regions {
		if r.Name == "*default*" {
			continue
		}
		assigned = append(assigned, assignOneRegion(r.Name, r.Origin, r.Length, catalog, assigned, log)...)
	}

	return assigned
}

func assignOneRegion(name string, origin, length uint64, catalog Catalog, prior []workingRegion, log idferr.Logger) []workingRegion {
	if length == 0 {
		for _, p := range prior {
			if p.Origin+p.Length == origin && p.MemType != "" {
				return []workingRegion{{Name: name, Origin: origin, Length: 0, MemType: p.MemType}}
			}
		}
	}

	for _, t := range catalog {
		viaSecondary := false
		if t.containsPrimary(origin) {
			// matched
		} else if t.containsSecondary(origin) {
			viaSecondary = true
		} else {
			continue
		}

		boundary := t.PrimaryAddress + t.Length
		if viaSecondary {
			boundary = t.SecondaryAddress + t.Length
		}

		if origin+length > boundary {
			first := boundary - origin
			head := workingRegion{Name: name, Origin: origin, Length: first, MemType: t.Name}
			head.IsAlias = isAliasRegion(t, origin, first, prior)
			rest := assignOneRegion(name, boundary, length-first, catalog, append(prior, head), log)
			return append([]workingRegion{head}, rest...)
		}

		wr := workingRegion{Name: name, Origin: origin, Length: length, MemType: t.Name}
		wr.IsAlias = isAliasRegion(t, origin, length, prior)
		return []workingRegion{wr}
	}

	warnf(log, "region %q at 0x%x length 0x%x does not fall within any catalog memory type", name, origin, length)
	return []workingRegion{{Name: name, Origin: origin, Length: length}}
}

// isAliasRegion implements invariant 3: a region is an alias of an
// already-assigned region of the same type when the address delta
// between them equals the type's primary/secondary address delta and
// their lengths match.
func isAliasRegion(t ChipMemoryType, origin, length uint64, prior []workingRegion) bool {
	if t.SecondaryAddress == 0 {
		return false
	}
	delta := t.SecondaryAddress - t.PrimaryAddress
	for _, p := range prior {
		if p.MemType != t.Name || p.Length != length {
			continue
		}
		if origin > p.Origin && origin-p.Origin == delta {
			return true
		}
		if p.Origin > origin && p.Origin-origin == delta {
			return true
		}
	}
	return false
}
