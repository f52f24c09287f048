package filter

// Op enumerates every leaf predicate operator the IR supports.
type Op uint8

const (
	Equals Op = iota
	NotEquals
	LessThan
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
	In
	NotIn
	Contains
	StartsWith
	EndsWith
	IsNull
	IsNotNull
	JSONPath
	VectorDistance
)

// Filter is the recursive boolean combinator tree: And/Or/Not internal
// nodes over Leaf predicates. The zero value is an And node with no
// children, the same universal-true filter as And().
type Filter struct {
	kind     nodeKind
	children []Filter // And/Or
	inner    *Filter  // Not
	leaf     *Leaf
}

type nodeKind uint8

const (
	nodeAnd nodeKind = iota
	nodeOr
	nodeNot
	nodeLeaf
)

// Leaf is one typed predicate against a single field name. Field is
// stored as the caller passed it; the constructors do not intern it.
type Leaf struct {
	Field string
	Op    Op
	Value FilterValue

	// CaseInsensitive applies to Contains/StartsWith/EndsWith/Equals on
	// string fields; the builder decides how to translate it per dialect
	// (native case-fold operator vs LOWER(col) OP LOWER(?)).
	CaseInsensitive bool

	// JSONPathExpr carries the path expression for Op == JSONPath, e.g.
	// "$.address.city".
	JSONPathExpr string

	// VectorMetric names the distance function for Op == VectorDistance,
	// e.g. "cosine", "l2", "inner_product".
	VectorMetric string
}

// LeafFilter wraps a single predicate as a Filter.
func LeafFilter(l Leaf) Filter {
	return Filter{kind: nodeLeaf, leaf: &l}
}

// And combines filters with AND. Per §4.2's boolean identities:
// And() (zero filters) is the universal truth (no predicate emitted);
// And(x) is equivalent to x. Nested And nodes passed as direct children
// are flattened into the enclosing node so the builder never has to
// special-case redundant nesting.
func And(filters ...Filter) Filter {
	flat := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if f.kind == nodeAnd {
			flat = append(flat, f.children...)
			continue
		}
		flat = append(flat, f)
	}
	return Filter{kind: nodeAnd, children: flat}
}

// Or combines filters with OR. Or() (zero filters) is the universal
// falsehood; Or(x) is equivalent to x. Nested Or nodes are flattened.
func Or(filters ...Filter) Filter {
	flat := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if f.kind == nodeOr {
			flat = append(flat, f.children...)
			continue
		}
		flat = append(flat, f)
	}
	return Filter{kind: nodeOr, children: flat}
}

// Not negates a filter. Double negation is not normalized in the IR
// (not(not(x)) is left as two nested Not nodes); it is equivalent to x
// only at evaluation time.
func Not(f Filter) Filter {
	return Filter{kind: nodeNot, inner: &f}
}

// IsAnd, IsOr, IsNot, IsLeaf, and the accessors below let query/sqlbuilder
// walk the tree without exporting the node representation itself.
func (f Filter) IsAnd() bool  { return f.kind == nodeAnd }
func (f Filter) IsOr() bool   { return f.kind == nodeOr }
func (f Filter) IsNot() bool  { return f.kind == nodeNot }
func (f Filter) IsLeaf() bool { return f.kind == nodeLeaf }

// Children returns the And/Or node's child filters. It panics if called
// on a non-combinator node; callers must check IsAnd/IsOr first.
func (f Filter) Children() []Filter {
	if f.kind != nodeAnd && f.kind != nodeOr {
		panic("filter: Children called on a non-And/Or node")
	}
	return f.children
}

// Inner returns the Not node's negated filter. It panics if called on a
// non-Not node.
func (f Filter) Inner() Filter {
	if f.kind != nodeNot {
		panic("filter: Inner called on a non-Not node")
	}
	return *f.inner
}

// Leaf returns the leaf predicate. It panics if called on a combinator
// node.
func (f Filter) Leaf() Leaf {
	if f.kind != nodeLeaf {
		panic("filter: Leaf called on a non-leaf node")
	}
	return *f.leaf
}

// EqualsOp builds an equality leaf predicate.
func EqualsOp(field string, v FilterValue) Filter {
	return LeafFilter(Leaf{Field: field, Op: Equals, Value: v})
}

// NotEqualsOp builds an inequality leaf predicate.
func NotEqualsOp(field string, v FilterValue) Filter {
	return LeafFilter(Leaf{Field: field, Op: NotEquals, Value: v})
}

// LessThanOp, LessThanOrEqualOp, GreaterThanOp, GreaterThanOrEqualOp
// build the corresponding comparison leaf predicates.
func LessThanOp(field string, v FilterValue) Filter {
	return LeafFilter(Leaf{Field: field, Op: LessThan, Value: v})
}

func LessThanOrEqualOp(field string, v FilterValue) Filter {
	return LeafFilter(Leaf{Field: field, Op: LessThanOrEqual, Value: v})
}

func GreaterThanOp(field string, v FilterValue) Filter {
	return LeafFilter(Leaf{Field: field, Op: GreaterThan, Value: v})
}

func GreaterThanOrEqualOp(field string, v FilterValue) Filter {
	return LeafFilter(Leaf{Field: field, Op: GreaterThanOrEqual, Value: v})
}

// InOp builds an `in` predicate. Per the Open Question resolution, an
// empty list is normalized here (not deferred to the builder) to the
// universal-false filter, since "field in ()" has no SQL rendering that
// every dialect accepts uniformly.
func InOp(field string, values ...FilterValue) Filter {
	if len(values) == 0 {
		return Or()
	}
	return LeafFilter(Leaf{Field: field, Op: In, Value: ListValue(values...)})
}

// NotInOp builds a `not in` predicate. An empty list normalizes to the
// universal-true filter (And()), the dual of InOp's empty-list rule.
func NotInOp(field string, values ...FilterValue) Filter {
	if len(values) == 0 {
		return And()
	}
	return LeafFilter(Leaf{Field: field, Op: NotIn, Value: ListValue(values...)})
}

// ContainsOp, StartsWithOp, EndsWithOp build string predicates. caseInsensitive
// selects the dialect's case-fold translation in the builder.
func ContainsOp(field, substr string, caseInsensitive bool) Filter {
	return LeafFilter(Leaf{Field: field, Op: Contains, Value: StringValue(substr), CaseInsensitive: caseInsensitive})
}

func StartsWithOp(field, prefix string, caseInsensitive bool) Filter {
	return LeafFilter(Leaf{Field: field, Op: StartsWith, Value: StringValue(prefix), CaseInsensitive: caseInsensitive})
}

func EndsWithOp(field, suffix string, caseInsensitive bool) Filter {
	return LeafFilter(Leaf{Field: field, Op: EndsWith, Value: StringValue(suffix), CaseInsensitive: caseInsensitive})
}

// IsNullOp and IsNotNullOp build null-check predicates.
func IsNullOp(field string) Filter    { return LeafFilter(Leaf{Field: field, Op: IsNull}) }
func IsNotNullOp(field string) Filter { return LeafFilter(Leaf{Field: field, Op: IsNotNull}) }

// JSONPathOp builds a JSON path predicate testing path against v.
func JSONPathOp(field, path string, v FilterValue) Filter {
	return LeafFilter(Leaf{Field: field, Op: JSONPath, Value: v, JSONPathExpr: path})
}

// VectorDistanceOp builds a vector-distance predicate: field's distance
// to v under the named metric, compared via the enclosing comparison
// (emitted by the builder as an ORDER BY / WHERE clause depending on
// context; the IR only carries the comparison value and metric name).
func VectorDistanceOp(field, metric string, v FilterValue) Filter {
	return LeafFilter(Leaf{Field: field, Op: VectorDistance, Value: v, VectorMetric: metric})
}

// LeafCount returns the number of leaf predicates in the tree that carry
// a non-null, non-list value — lists contribute their element count,
// null elements included. The builder's parameter vector has this
// length except where its rendering binds differently: it drops null
// elements from an In list, and a JSONPath leaf binds its path
// expression (plus the value on dialects other than Postgres and MySQL).
func (f Filter) LeafCount() int {
	switch f.kind {
	case nodeAnd, nodeOr:
		n := 0
		for _, c := range f.children {
			n += c.LeafCount()
		}
		return n
	case nodeNot:
		return f.inner.LeafCount()
	case nodeLeaf:
		switch f.leaf.Value.Kind {
		case Null:
			return 0
		case List:
			return len(f.leaf.Value.List)
		default:
			return 1
		}
	default:
		return 0
	}
}
