package arrowbuilder

import (
	"fmt"
	"sort"
	"time"

	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/errs"
)

// category names the broad Go value shapes InferType distinguishes.
type category uint8

const (
	catNone category = iota
	catBool
	catInt
	catFloat
	catString
	catBytes
	catDate
	catList
	catStruct
)

// profiler tallies how many of each value category a column's sampled
// values fall into in a single forward pass, the same shape
// internal/collision.Tracker uses to accumulate name/hash stats while
// scanning metrics once: no backtracking, decide the result once the
// scan ends.
type profiler struct {
	counts    [catStruct + 1]int
	sawNull   bool
	elemTypes []arrowtype.Type // element types seen when catList dominates
	listLens  []int            // each observed []any's length, for fixedSizeList detection
	fields    map[string]arrowtype.Type
	fieldKeys []string // first-seen order (each map's keys taken sorted), for deterministic Struct field order

	sawInt          bool
	intMin, intMax  int64
	dateDayAligned bool // still true iff every catDate value seen so far sits on a UTC day boundary
}

func newProfiler() *profiler {
	return &profiler{fields: make(map[string]arrowtype.Type), dateDayAligned: true}
}

func (p *profiler) observe(v any) error {
	if v == nil {
		p.sawNull = true
		return nil
	}
	switch x := v.(type) {
	case bool:
		p.counts[catBool]++
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		p.counts[catInt]++
		n, _ := intValue(x)
		if !p.sawInt {
			p.intMin, p.intMax = n, n
			p.sawInt = true
		} else {
			if n < p.intMin {
				p.intMin = n
			}
			if n > p.intMax {
				p.intMax = n
			}
		}
	case float32, float64:
		p.counts[catFloat]++
	case string:
		p.counts[catString]++
	case []byte:
		p.counts[catBytes]++
	case time.Time:
		p.counts[catDate]++
		u := x.UTC()
		if u.Hour() != 0 || u.Minute() != 0 || u.Second() != 0 || u.Nanosecond() != 0 {
			p.dateDayAligned = false
		}
	case []any:
		p.counts[catList]++
		p.listLens = append(p.listLens, len(x))
		for _, e := range x {
			et, err := InferType(onlyNonNil(e))
			if err != nil {
				return err
			}
			p.elemTypes = append(p.elemTypes, et)
		}
	case map[string]any:
		p.counts[catStruct]++
		names := make([]string, 0, len(x))
		for name := range x {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			ft, err := InferType([]any{x[name]})
			if err != nil {
				return err
			}
			if _, ok := p.fields[name]; !ok {
				p.fieldKeys = append(p.fieldKeys, name)
			}
			p.fields[name] = widen(p.fields[name], ft)
		}
	default:
		return errs.Unsupported(fmt.Errorf("%w: %T", errs.ErrSchemaInferenceForUnions, v))
	}
	return nil
}

// intValue widens any Go integer kind to int64, matching the kinds
// observe's catInt case accepts (including the unsigned family, which
// fits int64 for every magnitude this builder is expected to see).
func intValue(v any) (int64, bool) {
	if n, ok := asInt64(v); ok {
		return n, true
	}
	if n, ok := asUint64(v); ok {
		return int64(n), true
	}
	return 0, false
}

// smallestIntType returns the narrowest signed integer type whose range
// contains [min, max].
func smallestIntType(min, max int64) arrowtype.Type {
	switch {
	case min >= -(1<<7) && max <= 1<<7-1:
		return arrowtype.Int8()
	case min >= -(1<<15) && max <= 1<<15-1:
		return arrowtype.Int16()
	case min >= -(1<<31) && max <= 1<<31-1:
		return arrowtype.Int32()
	default:
		return arrowtype.Int64()
	}
}

func onlyNonNil(v any) []any {
	if v == nil {
		return nil
	}
	return []any{v}
}

// widen returns the wider of a and b, treating a zero-value (nil) a as
// "no opinion yet". Two differing int widths widen to the wider int, not
// Float64 — smallestIntType already narrows each value independently, so
// two rows of the same struct field routinely disagree on width (int8(1)
// vs int32(100000)) without actually being a int/float mix. Int only
// widens to Float when an actual float value is present, matching how a
// Go literal slice of numbers naturally mixes ints and floats.
func widen(a, b arrowtype.Type) arrowtype.Type {
	if a == nil {
		return b
	}
	if a.ID() == b.ID() {
		return a
	}
	if isInt(a.ID()) && isInt(b.ID()) {
		return widerInt(a.ID(), b.ID())
	}
	if isNumeric(a.ID()) && isNumeric(b.ID()) {
		return arrowtype.Float64()
	}
	return a
}

func isInt(id arrowtype.TypeID) bool {
	switch id {
	case arrowtype.Int8, arrowtype.Int16, arrowtype.Int32, arrowtype.Int64:
		return true
	default:
		return false
	}
}

func isNumeric(id arrowtype.TypeID) bool {
	switch id {
	case arrowtype.Int8, arrowtype.Int16, arrowtype.Int32, arrowtype.Int64, arrowtype.Float32, arrowtype.Float64:
		return true
	default:
		return false
	}
}

// intWidthRank orders the signed int widths narrowest to widest.
func intWidthRank(id arrowtype.TypeID) int {
	switch id {
	case arrowtype.Int8:
		return 0
	case arrowtype.Int16:
		return 1
	case arrowtype.Int32:
		return 2
	default:
		return 3
	}
}

func widerInt(a, b arrowtype.TypeID) arrowtype.Type {
	wider := a
	if intWidthRank(b) > intWidthRank(a) {
		wider = b
	}
	switch wider {
	case arrowtype.Int8:
		return arrowtype.Int8()
	case arrowtype.Int16:
		return arrowtype.Int16()
	case arrowtype.Int32:
		return arrowtype.Int32()
	default:
		return arrowtype.Int64()
	}
}

// dominant returns the category with the highest tally, preferring the
// earliest-declared category on a tie (bool before int before float
// before string before bytes before date before list before struct).
func (p *profiler) dominant() category {
	best := catNone
	bestCount := 0
	for c := catBool; c <= catStruct; c++ {
		if p.counts[c] > bestCount {
			bestCount = p.counts[c]
			best = c
		}
	}
	return best
}

// InferType scans values in one forward pass and returns the Arrow type
// that best fits them. A column of all nils infers Null. A mix of
// incompatible non-numeric categories (e.g. string and struct) returns
// ErrMixedTypes; heterogeneous values needing a Union are out of scope and
// return ErrSchemaInferenceForUnions via observe's default case.
func InferType(values []any) (arrowtype.Type, error) {
	p := newProfiler()
	for _, v := range values {
		if err := p.observe(v); err != nil {
			return nil, err
		}
	}

	total := 0
	distinctNonZero := 0
	for _, c := range p.counts {
		total += c
		if c > 0 {
			distinctNonZero++
		}
	}
	if total == 0 {
		return arrowtype.Null(), nil
	}

	// Int+Float mixing is allowed (widens to Float64); any other mix of
	// more than one category is ambiguous.
	if distinctNonZero > 1 {
		if p.counts[catInt] > 0 && p.counts[catFloat] > 0 && distinctNonZero == 2 {
			return arrowtype.Float64(), nil
		}
		return nil, errs.Mixed(fmt.Errorf("%w: saw %d distinct value categories", errs.ErrMixedTypes, distinctNonZero))
	}

	switch p.dominant() {
	case catBool:
		return arrowtype.Bool(), nil
	case catInt:
		return smallestIntType(p.intMin, p.intMax), nil
	case catFloat:
		return arrowtype.Float64(), nil
	case catString:
		return arrowtype.Dictionary(arrowtype.Utf8())
	case catBytes:
		return arrowtype.Binary(), nil
	case catDate:
		if p.dateDayAligned {
			return arrowtype.Date32(), nil
		}
		return arrowtype.Timestamp(arrowtype.Millisecond, ""), nil
	case catList:
		var elem arrowtype.Type
		for _, et := range p.elemTypes {
			elem = widen(elem, et)
		}
		if elem == nil {
			elem = arrowtype.Null()
		}
		if sameLength, n := allSameLength(p.listLens); sameLength && n > 0 {
			return arrowtype.FixedSizeList(elem, n)
		}
		return arrowtype.List(elem), nil
	case catStruct:
		fields := make([]arrowtype.Field, len(p.fieldKeys))
		for i, name := range p.fieldKeys {
			fields[i] = arrowtype.Field{Name: name, Type: p.fields[name], Nullable: true}
		}
		return arrowtype.Struct(fields...), nil
	default:
		return arrowtype.Null(), nil
	}
}

// allSameLength reports whether every length in lens is equal, and if so,
// what that common length is.
func allSameLength(lens []int) (bool, int) {
	if len(lens) == 0 {
		return false, 0
	}
	n := lens[0]
	for _, l := range lens[1:] {
		if l != n {
			return false, 0
		}
	}
	return true, n
}
