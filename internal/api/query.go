package api

import (
	"fmt"
	"math"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParamKind tags how a query parameter is serialized.
type ParamKind int

const (
	// ParamValue is a scalar or list parameter.
	ParamValue ParamKind = iota
	// ParamInclude is a relation selector flattened to a comma-joined list of
	// enabled relation names.
	ParamInclude
)

// includeKey is the relation-selection parameter name used by the resources.
const includeKey = "include"

// Param is a single entry of a Query.
type Param struct {
	Key   string
	Value any
	Kind  ParamKind
}

// Query is an ordered filter/options object. Parameters are emitted in the
// order they were added.
type Query []Param

// Relation toggles one related resource in an include selector.
type Relation struct {
	Name    string
	Enabled bool
}

// Includes is an ordered include selector.
type Includes []Relation

// IncludeOf returns an include selector with every named relation enabled.
func IncludeOf(names ...string) Includes {
	inc := make(Includes, 0, len(names))
	for _, name := range names {
		inc = append(inc, Relation{Name: name, Enabled: true})
	}
	return inc
}

// Names returns the enabled relation names in order.
func (inc Includes) Names() []string {
	var names []string
	for _, r := range inc {
		if r.Enabled {
			names = append(names, r.Name)
		}
	}
	return names
}

// Add returns q with key=value appended. A value of type Includes is tagged
// as ParamInclude whatever its key.
func (q Query) Add(key string, value any) Query {
	kind := ParamValue
	if _, ok := value.(Includes); ok {
		kind = ParamInclude
	}
	return append(q, Param{Key: key, Value: value, Kind: kind})
}

// AddInclude returns q with an include selector appended under key.
func (q Query) AddInclude(key string, inc Includes) Query {
	return append(q, Param{Key: key, Value: inc, Kind: ParamInclude})
}

// Get returns the first value stored under key.
func (q Query) Get(key string) (any, bool) {
	for _, p := range q {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

var comparisonPattern = regexp.MustCompile(`^(\[(?:GT|GTE|LT|LTE)\])(.*)`)

type queryPair struct {
	name  string
	value string
}

// Encode serializes q into a query string fragment including the leading
// "?". It returns "" when q yields no parameters.
//
// Comparison prefixes ([GT], [GTE], [LT], [LTE]) are only recognized on
// scalar string values. List elements are joined literally.
func (q Query) Encode() string {
	pairs := q.pairs()
	if len(pairs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteByte('?')
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

func (q Query) pairs() []queryPair {
	var pairs []queryPair
	for _, p := range q {
		if isUndefined(p.Value) {
			continue
		}

		if p.Kind == ParamInclude {
			if inc, ok := p.Value.(Includes); ok {
				pairs = append(pairs, queryPair{name: p.Key, value: strings.Join(inc.Names(), ",")})
				continue
			}
		}

		if elems, ok := listElements(p.Value); ok {
			parts := make([]string, 0, len(elems))
			for _, e := range elems {
				if isUndefined(e) {
					continue
				}
				parts = append(parts, formatScalar(e))
			}
			pairs = append(pairs, queryPair{name: p.Key, value: strings.Join(parts, ",")})
			continue
		}

		if s, ok := asString(p.Value); ok {
			if m := comparisonPattern.FindStringSubmatch(s); m != nil {
				pairs = append(pairs, queryPair{name: p.Key + m[1], value: m[2]})
				continue
			}
		}

		pairs = append(pairs, queryPair{name: p.Key, value: formatScalar(p.Value)})
	}
	return pairs
}

// isUndefined reports whether v stands for an absent value.
func isUndefined(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	case reflect.Slice:
		// A nil slice is an omitted filter; an empty non-nil slice still
		// emits an empty parameter.
		return rv.IsNil()
	}
	return false
}

func listElements(v any) ([]any, bool) {
	switch t := v.(type) {
	case Includes:
		return nil, false
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	case []any:
		return t, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	// []byte is treated as a scalar string.
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

// asString unwraps pointers and named string types.
func asString(v any) (string, bool) {
	v = deref(v)
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}

func formatScalar(v any) string {
	v = deref(v)
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return formatFloat(t, 64)
	case float32:
		return formatFloat(float64(t), 32)
	case time.Time:
		return t.Format(time.RFC3339)
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}

// formatFloat renders the shortest round-trip digits of f. Magnitudes below
// 1e-6 or from 1e21 use exponent notation such as 1e+21 and 1e-7.
func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, bitSize)
		mantissa, exp, _ := strings.Cut(s, "e")
		return mantissa + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
	}
	return strconv.FormatFloat(f, 'f', -1, bitSize)
}
