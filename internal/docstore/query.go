package docstore

// Op is a predicate operator.
type Op string

const (
	OpEqual          Op = "=="
	OpGreaterOrEqual Op = ">="
	OpLessOrEqual    Op = "<="
	OpLessThan       Op = "<"
	OpIn             Op = "in"
)

// Predicate compares a document field against a value. Values are strings
// (or string slices for OpIn); timestamps use their encoded RFC3339 form,
// which preserves chronological order under string comparison.
type Predicate struct {
	Field string
	Op    Op
	Value interface{}
}

// Order sorts results by one field.
type Order struct {
	Field string
	Desc  bool
}

// Query is the normalized descriptor handed to a store backend: equality and
// range predicates, ordering, and offset/limit pagination.
type Query struct {
	Predicates []Predicate
	Orders     []Order
	Offset     int
	Limit      int
}

func NewQuery() *Query {
	return &Query{}
}

func (q *Query) Where(field string, op Op, value interface{}) *Query {
	q.Predicates = append(q.Predicates, Predicate{Field: field, Op: op, Value: value})
	return q
}

func (q *Query) OrderBy(field string, desc bool) *Query {
	q.Orders = append(q.Orders, Order{Field: field, Desc: desc})
	return q
}

func (q *Query) WithOffset(offset int) *Query {
	q.Offset = offset
	return q
}

func (q *Query) WithLimit(limit int) *Query {
	q.Limit = limit
	return q
}
