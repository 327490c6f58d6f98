// Package catalog loads the per-target chip memory catalog: a YAML
// record naming each memory type's primary (and optional secondary)
// address and length. Addresses and lengths may be literal integers or
// simple arithmetic expressions over fields of entries defined earlier
// in the same file (e.g. "IRAM.primary_address + 0x20000"), so the
// loader decodes the document through yaml.v3's Node API rather than
// straight into a map, to keep the file's declaration order available
// for expression evaluation.
package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/espressif/idfsize/internal/idferr"
	"github.com/espressif/idfsize/memorymap"
	"gopkg.in/yaml.v3"
)

type rawEntry struct {
	PrimaryAddress   interface{} `yaml:"primary_address"`
	Length           interface{} `yaml:"length"`
	SecondaryAddress interface{} `yaml:"secondary_address"`
	Name             string      `yaml:"name"`
}

// Load parses a chip catalog YAML document into a memorymap.Catalog,
// evaluating every address/length expression in declaration order so
// later entries can reference earlier ones.
func Load(data []byte) (memorymap.Catalog, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, idferr.FormatErrorf("catalog: invalid YAML: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, idferr.FormatErrorf("catalog: top level must be a mapping of memory type name to entry")
	}

	env := map[string]resolvedEntry{}
	var result memorymap.Catalog

	for i := 0; i+1 < len(doc.Content); i += 2 {
		name := doc.Content[i].Value
		var raw rawEntry
		if err := doc.Content[i+1].Decode(&raw); err != nil {
			return nil, idferr.FormatErrorf("catalog: entry %q: %w", name, err)
		}

		primary, err := evalField(raw.PrimaryAddress, env)
		if err != nil {
			return nil, idferr.FormatErrorf("catalog: entry %q primary_address: %w", name, err)
		}
		length, err := evalField(raw.Length, env)
		if err != nil {
			return nil, idferr.FormatErrorf("catalog: entry %q length: %w", name, err)
		}
		var secondary uint64
		if raw.SecondaryAddress != nil {
			secondary, err = evalField(raw.SecondaryAddress, env)
			if err != nil {
				return nil, idferr.FormatErrorf("catalog: entry %q secondary_address: %w", name, err)
			}
		}

		typeName := name
		if raw.Name != "" {
			typeName = raw.Name
		}

		env[name] = resolvedEntry{PrimaryAddress: primary, Length: length, SecondaryAddress: secondary}
		result = upsertByName(result, memorymap.ChipMemoryType{
			Name:             typeName,
			PrimaryAddress:   primary,
			Length:           length,
			SecondaryAddress: secondary,
		})
	}

	return result, nil
}

// upsertByName replaces the entry named t.Name in place if one
// already exists (an earlier entry's "name" field renamed it to the
// same type), preserving that entry's declaration-order position;
// otherwise it appends t.
func upsertByName(catalog memorymap.Catalog, t memorymap.ChipMemoryType) memorymap.Catalog {
	for i := range catalog {
		if catalog[i].Name == t.Name {
			catalog[i] = t
			return catalog
		}
	}
	return append(catalog, t)
}

type resolvedEntry struct {
	PrimaryAddress   uint64
	Length           uint64
	SecondaryAddress uint64
}

// evalField accepts a YAML scalar that is already a number (yaml.v3
// decodes unquoted integers straight to int/uint64), or a string
// expression of integer literals and "TypeName.field" references
// joined by + or -.
func evalField(v interface{}, env map[string]resolvedEntry) (uint64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int:
		return uint64(n), nil
	case int64:
		return uint64(n), nil
	case uint64:
		return n, nil
	case string:
		return evalExpression(n, env)
	default:
		return 0, fmt.Errorf("unsupported value type %T", v)
	}
}

func evalExpression(expr string, env map[string]resolvedEntry) (uint64, error) {
	expr = strings.TrimSpace(expr)
	tokens := tokenizeExpression(expr)
	if len(tokens) == 0 {
		return 0, fmt.Errorf("empty expression")
	}

	var total int64
	sign := int64(1)
	for _, tok := range tokens {
		switch tok {
		case "+":
			sign = 1
		case "-":
			sign = -1
		default:
			v, err := evalTerm(tok, env)
			if err != nil {
				return 0, err
			}
			total += sign * int64(v)
			sign = 1
		}
	}
	return uint64(total), nil
}

// tokenizeExpression splits on +/- while keeping them as standalone
// tokens, tolerating both "a + b" and "a+b" spacing.
func tokenizeExpression(expr string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, strings.TrimSpace(cur.String()))
			cur.Reset()
		}
	}
	for _, r := range expr {
		switch r {
		case '+', '-':
			flush()
			tokens = append(tokens, string(r))
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

func evalTerm(term string, env map[string]resolvedEntry) (uint64, error) {
	term = strings.TrimSpace(term)
	if dot := strings.Index(term, "."); dot >= 0 {
		entryName, field := term[:dot], term[dot+1:]
		entry, ok := env[entryName]
		if !ok {
			return 0, fmt.Errorf("reference to undefined or not-yet-declared entry %q", entryName)
		}
		switch field {
		case "primary_address":
			return entry.PrimaryAddress, nil
		case "length":
			return entry.Length, nil
		case "secondary_address":
			return entry.SecondaryAddress, nil
		default:
			return 0, fmt.Errorf("unknown field %q on entry %q", field, entryName)
		}
	}

	return strconv.ParseUint(term, 0, 64)
}
