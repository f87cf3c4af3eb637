package bolt

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/stancil-services/boltsync/internal/core/domain"
	"github.com/stancil-services/boltsync/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.Normaliser = (*Normaliser)(nil)

// blankMode decides which strings become null.
type blankMode int

const (
	// blankExact nulls only the exact empty string.
	blankExact blankMode = iota

	// blankTrimmed nulls empty and whitespace-only strings.
	blankTrimmed

	// blankNone passes every string through.
	blankNone
)

// rule is the normalisation configuration of one table.
type rule struct {
	// flatten maps a raw key to the column prefix its object is spread under.
	flatten map[string]string

	// blank selects the empty-string handling for scalar values.
	blank blankMode
}

var (
	trimmedRule = rule{blank: blankTrimmed}
	exactRule   = rule{blank: blankExact}
)

// rules is the per-table normalisation dispatch. Tables not listed use
// exactRule. crews intentionally never flattens, member_pays included.
var rules = map[string]rule{
	"customers": {
		flatten: map[string]string{
			"corporate_address": "corporate_address_",
			"billing_address":   "billing_address_",
			"corporate_contact": "corporate_contact_",
			"billing_contact":   "billing_contact_",
		},
		blank: blankTrimmed,
	},
	"employees": {
		flatten: map[string]string{
			"address":    "address_",
			"auto_lunch": "auto_lunch_",
		},
		blank: blankTrimmed,
	},
	"crews":       trimmedRule,
	"jobs":        trimmedRule,
	"communities": trimmedRule,
}

// Normaliser maps raw records into flat rows of the declared schema.
type Normaliser struct{}

// NewNormaliser creates a Normaliser.
func NewNormaliser() *Normaliser {
	return &Normaliser{}
}

// Normalise maps one raw record of table into a flat row.
// Records without a usable primary key are rejected with an error
// wrapping domain.ErrRecordDropped.
func (n *Normaliser) Normalise(table domain.Table, raw domain.RawRecord) (domain.Record, error) {
	var (
		rec domain.Record
		err error
	)

	switch table.Kind {
	case domain.KindJobEvents:
		rec, err = normaliseJobEvent(raw)
	case domain.KindWorkOrderEvents:
		rec, err = normaliseWorkOrderEvent(raw)
	case domain.KindWorkOrderStatusEvents:
		rec, err = normaliseStatusEvent(raw)
	default:
		rec, err = normaliseEntity(table.Name, raw)
	}
	if err != nil {
		return nil, err
	}

	for _, key := range table.PrimaryKey {
		if !truthy(rec[key]) {
			return nil, dropped("missing primary key %q", key)
		}
	}
	return rec, nil
}

func normaliseEntity(table string, raw domain.RawRecord) (domain.Record, error) {
	r, ok := rules[table]
	if !ok {
		r = exactRule
	}

	rec := make(domain.Record, len(raw))
	for _, key := range sortedKeys(raw) {
		value := raw[key]
		column := CleanKey(key)

		if prefix, ok := r.flatten[key]; ok && isObject(value) {
			if err := flattenInto(rec, prefix, value, blankNone); err != nil {
				return nil, dropped("field %q: %v", key, err)
			}
			continue
		}

		v, err := scalar(value, r.blank)
		if err != nil {
			return nil, dropped("field %q: %v", key, err)
		}
		rec[column] = v
	}
	return rec, nil
}

// flattenInto spreads the members of a JSON object into rec under prefix.
// Nested members are JSON-encoded.
func flattenInto(rec domain.Record, prefix string, value json.RawMessage, blank blankMode) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(value, &obj); err != nil {
		return err
	}
	for _, key := range sortedKeys(obj) {
		v, err := scalar(obj[key], blank)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		rec[prefix+CleanKey(key)] = v
	}
	return nil
}

// scalar decodes one JSON value into a column value.
// Objects and arrays become compact JSON strings.
func scalar(raw json.RawMessage, blank blankMode) (any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	switch raw[0] {
	case 'n':
		return nil, nil
	case 't':
		return true, nil
	case 'f':
		return false, nil
	case '{', '[':
		return compactJSON(raw)
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		switch blank {
		case blankExact:
			if s == "" {
				return nil, nil
			}
		case blankTrimmed:
			if strings.TrimSpace(s) == "" {
				return nil, nil
			}
		}
		return s, nil
	default:
		return number(raw)
	}
}

// number decodes a JSON number as int64 when integral, else float64.
func number(raw json.RawMessage) (any, error) {
	if i, err := strconv.ParseInt(string(raw), 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", raw)
	}
	return f, nil
}

func compactJSON(raw json.RawMessage) (string, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// CleanKey lower-cases a key and replaces spaces and dashes with underscores.
func CleanKey(key string) string {
	return keyReplacer.Replace(strings.ToLower(key))
}

var keyReplacer = strings.NewReplacer(" ", "_", "-", "_")

// truthy reports whether a column value counts as present.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case int64:
		return x != 0
	case float64:
		return x != 0
	case bool:
		return x
	default:
		return true
	}
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func dropped(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrRecordDropped, fmt.Sprintf(format, args...))
}
