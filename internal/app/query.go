package app

import (
	"strings"

	"go.trai.ch/apilevel/internal/core/domain"
	"go.trai.ch/apilevel/internal/engine/apidb"
	"go.trai.ch/zerr"
)

// Kind names a query operation.
type Kind string

// Query kinds.
const (
	KindClass   Kind = "class"
	KindField   Kind = "field"
	KindCall    Kind = "call"
	KindPackage Kind = "package"
	KindCast    Kind = "cast"
	KindSuper   Kind = "super"
)

var arity = map[Kind][2]int{
	KindClass:   {1, 1},
	KindField:   {2, 2},
	KindCall:    {2, 3},
	KindPackage: {1, 1},
	KindCast:    {2, 2},
	KindSuper:   {1, 1},
}

// Query is one parsed lookup request.
type Query struct {
	Kind Kind
	Args []string
}

// Answer is the result of evaluating a Query. Levels are domain.NotFound
// when the database has no information.
type Answer struct {
	Kind       Kind            `json:"kind"`
	Subject    string          `json:"subject"`
	Since      domain.APILevel `json:"since"`
	Deprecated domain.APILevel `json:"deprecated"`
	Removed    domain.APILevel `json:"removed"`
	Valid      bool            `json:"valid,omitempty"`
	Superclass string          `json:"superclass,omitempty"`
}

// NewQuery validates the argument count for kind.
func NewQuery(kind Kind, args ...string) (Query, error) {
	bounds, ok := arity[kind]
	if !ok {
		return Query{}, zerr.With(domain.ErrInvalidQuery, "kind", string(kind))
	}
	if len(args) < bounds[0] || len(args) > bounds[1] {
		return Query{}, zerr.With(zerr.With(domain.ErrInvalidQuery, "kind", string(kind)), "args", len(args))
	}
	return Query{Kind: kind, Args: args}, nil
}

// ParseQuery parses a line of the form "<kind> <arg>...". Blank lines and
// lines starting with '#' yield ok == false.
func ParseQuery(line string) (q Query, ok bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return Query{}, false, nil
	}
	q, err = NewQuery(Kind(fields[0]), fields[1:]...)
	if err != nil {
		return Query{}, false, zerr.With(err, "input", line)
	}
	return q, true, nil
}

// Subject renders the queried symbol.
func (q Query) Subject() string {
	if bounds, ok := arity[q.Kind]; !ok || len(q.Args) < bounds[0] {
		return strings.Join(q.Args, " ")
	}
	switch q.Kind {
	case KindField:
		return q.Args[0] + "#" + q.Args[1]
	case KindCall:
		method, sig := q.method()
		return q.Args[0] + "#" + method + sig
	case KindCast:
		return q.Args[0] + " -> " + q.Args[1]
	default:
		return q.Args[0]
	}
}

// method splits the call arguments into name and signature. The signature may
// be given separately or attached to the name.
func (q Query) method() (string, string) {
	if len(q.Args) == 3 {
		return q.Args[1], q.Args[2]
	}
	name := q.Args[1]
	if i := strings.IndexByte(name, '('); i >= 0 {
		return name[:i], name[i:]
	}
	return name, "()"
}

// Evaluate runs q against l. Queries built without NewQuery are validated
// first, so a wrong argument count is an error rather than a panic.
func Evaluate(l *apidb.Lookup, q Query) (Answer, error) {
	if _, err := NewQuery(q.Kind, q.Args...); err != nil {
		return Answer{}, err
	}
	a := Answer{
		Kind:       q.Kind,
		Subject:    q.Subject(),
		Since:      domain.NotFound,
		Deprecated: domain.NotFound,
		Removed:    domain.NotFound,
	}

	var err error
	switch q.Kind {
	case KindClass:
		name := q.Args[0]
		err = levels(&a,
			func() (domain.APILevel, error) { return l.ClassVersion(name) },
			func() (domain.APILevel, error) { return l.ClassDeprecatedIn(name) },
			func() (domain.APILevel, error) { return l.ClassRemovedIn(name) },
		)
	case KindField:
		class, field := q.Args[0], q.Args[1]
		err = levels(&a,
			func() (domain.APILevel, error) { return l.FieldVersion(class, field) },
			func() (domain.APILevel, error) { return l.FieldDeprecatedIn(class, field) },
			func() (domain.APILevel, error) { return l.FieldRemovedIn(class, field) },
		)
	case KindCall:
		class := q.Args[0]
		method, sig := q.method()
		err = levels(&a,
			func() (domain.APILevel, error) { return l.CallVersion(class, method, sig) },
			func() (domain.APILevel, error) { return l.CallDeprecatedIn(class, method, sig) },
			func() (domain.APILevel, error) { return l.CallRemovedIn(class, method, sig) },
		)
	case KindPackage:
		a.Valid = l.IsValidJavaPackage(q.Args[0])
	case KindCast:
		a.Since, err = l.ValidCastVersion(q.Args[0], q.Args[1])
	case KindSuper:
		a.Superclass, err = l.Superclass(q.Args[0])
	}
	if err != nil {
		return Answer{}, zerr.With(err, "query", a.Subject)
	}
	return a, nil
}

func levels(a *Answer, since, deprecated, removed func() (domain.APILevel, error)) error {
	var err error
	if a.Since, err = since(); err != nil || a.Since == domain.NotFound {
		return err
	}
	if a.Deprecated, err = deprecated(); err != nil {
		return err
	}
	a.Removed, err = removed()
	return err
}
