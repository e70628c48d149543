package apidb

import (
	"go.trai.ch/apilevel/internal/core/domain"
	"go.trai.ch/zerr"
)

// Lookup answers API level queries against one Index.
//
// Every query returns domain.NotFound with a nil error when the index has no
// information. A non-nil error always wraps domain.ErrDatabaseCorrupt and means
// the bytes are inconsistent with their header.
type Lookup struct {
	ix *Index
}

// NewLookup wraps ix.
func NewLookup(ix *Index) *Lookup {
	return &Lookup{ix: ix}
}

// Index returns the underlying index.
func (l *Lookup) Index() *Index {
	return l.ix
}

// ClassVersion returns the level at which class name was introduced.
func (l *Lookup) ClassVersion(name string) (domain.APILevel, error) {
	r, ok, err := l.class(name)
	return pick(r.since, ok, err)
}

// ClassDeprecatedIn returns the level at which class name was deprecated.
func (l *Lookup) ClassDeprecatedIn(name string) (domain.APILevel, error) {
	r, ok, err := l.class(name)
	return pick(r.deprecated, ok, err)
}

// ClassRemovedIn returns the level at which class name was removed.
func (l *Lookup) ClassRemovedIn(name string) (domain.APILevel, error) {
	r, ok, err := l.class(name)
	return pick(r.removed, ok, err)
}

// FieldVersion returns the level at which field became available on class,
// searching superclasses and implemented interfaces when class does not
// declare it.
func (l *Lookup) FieldVersion(class, field string) (domain.APILevel, error) {
	r, ok, err := l.member(class, field, true)
	return pick(r.since, ok, err)
}

// FieldDeprecatedIn returns the level at which field was deprecated.
func (l *Lookup) FieldDeprecatedIn(class, field string) (domain.APILevel, error) {
	r, ok, err := l.member(class, field, true)
	return pick(r.deprecated, ok, err)
}

// FieldRemovedIn returns the level at which field was removed.
func (l *Lookup) FieldRemovedIn(class, field string) (domain.APILevel, error) {
	r, ok, err := l.member(class, field, true)
	return pick(r.removed, ok, err)
}

// CallVersion returns the level at which method with the given JVM signature
// became callable on class. The return type in signature is ignored.
// Constructors are not inherited: for "<init>" only class itself is searched.
func (l *Lookup) CallVersion(class, method, signature string) (domain.APILevel, error) {
	r, ok, err := l.call(class, method, signature)
	return pick(r.since, ok, err)
}

// CallDeprecatedIn returns the level at which the method was deprecated.
func (l *Lookup) CallDeprecatedIn(class, method, signature string) (domain.APILevel, error) {
	r, ok, err := l.call(class, method, signature)
	return pick(r.deprecated, ok, err)
}

// CallRemovedIn returns the level at which the method was removed.
func (l *Lookup) CallRemovedIn(class, method, signature string) (domain.APILevel, error) {
	r, ok, err := l.call(class, method, signature)
	return pick(r.removed, ok, err)
}

// IsValidJavaPackage reports whether the package of classPath exists on the platform.
func (l *Lookup) IsValidJavaPackage(classPath string) bool {
	return IsValidJavaPackage(classPath)
}

// Superclass returns the current superclass of name, or "" when it has none
// or is unknown.
func (l *Lookup) Superclass(name string) (string, error) {
	c := l.ix.cursor()
	idx, ok := l.ix.findClass(c, []byte(domain.InternalName(name)))
	if !ok {
		return "", c.err
	}
	s := l.ix.superOf(c, idx)
	if s == noClass {
		return "", c.err
	}
	super := string(l.ix.className(c, s))
	if c.err != nil {
		return "", c.err
	}
	return super, nil
}

// ValidCastVersion returns the lowest level at which a reference of type
// source may be cast to dest, taking into account when each superclass or
// interface relationship along the way appeared. It returns NotFound when
// dest is not a supertype of source.
func (l *Lookup) ValidCastVersion(source, dest string) (domain.APILevel, error) {
	ix := l.ix
	c := ix.cursor()
	from, ok := ix.findClass(c, []byte(domain.InternalName(source)))
	if !ok {
		return domain.NotFound, c.err
	}
	to, ok := ix.findClass(c, []byte(domain.InternalName(dest)))
	if !ok {
		return domain.NotFound, c.err
	}

	// best holds, per reachable supertype, the lowest level at which the cast
	// is valid. A level only ever decreases, so the worklist terminates.
	best := map[uint32]domain.APILevel{from: ix.classRecord(c, from).since}
	work := []uint32{from}
	var edges []edge
	for len(work) > 0 && c.err == nil {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		level := best[cur]

		edges = edges[:0]
		if s := ix.superOf(c, cur); s != noClass {
			edges = append(edges, edge{target: s, since: ix.superSince(c, cur)})
		}
		edges = ix.interfaces(c, cur, edges)

		for _, e := range edges {
			next := max(level, e.since)
			if old, seen := best[e.target]; !seen || next < old {
				best[e.target] = next
				work = append(work, e.target)
			}
		}
	}
	if c.err != nil {
		return domain.NotFound, c.err
	}
	if level, ok := best[to]; ok {
		return level, nil
	}
	return domain.NotFound, nil
}

func (l *Lookup) class(name string) (record, bool, error) {
	c := l.ix.cursor()
	idx, ok := l.ix.findClass(c, []byte(domain.InternalName(name)))
	if !ok {
		return record{}, false, c.err
	}
	r := l.ix.classRecord(c, idx)
	return r, c.err == nil, c.err
}

func (l *Lookup) call(class, method, signature string) (record, bool, error) {
	return l.member(class, domain.MethodKey(method, signature), !domain.IsConstructor(method))
}

// member resolves key starting at class. The search order is the class
// itself, then its superclass chain outward, then a breadth-first walk over
// all interfaces implemented by any class in that chain and their
// super-interfaces. The first declaration found wins.
func (l *Lookup) member(class, key string, inherit bool) (record, bool, error) {
	ix := l.ix
	c := ix.cursor()
	start, ok := ix.findClass(c, []byte(domain.InternalName(class)))
	if !ok {
		return record{}, false, c.err
	}

	target := []byte(key)
	if r, ok := ix.findMember(c, start, target); ok || c.err != nil || !inherit {
		return r, ok, c.err
	}

	visited := map[uint32]struct{}{start: {}}
	chain := []uint32{start}
	for cur := ix.superOf(c, start); cur != noClass; cur = ix.superOf(c, cur) {
		if _, seen := visited[cur]; seen {
			return record{}, false, zerr.With(domain.ErrDatabaseCorrupt, "cycle", string(ix.className(c, cur)))
		}
		visited[cur] = struct{}{}
		chain = append(chain, cur)
		if r, ok := ix.findMember(c, cur, target); ok {
			return r, true, nil
		}
	}
	if c.err != nil {
		return record{}, false, c.err
	}

	var queue []edge
	for _, idx := range chain {
		queue = ix.interfaces(c, idx, queue)
	}
	for i := 0; i < len(queue) && c.err == nil; i++ {
		idx := queue[i].target
		if _, seen := visited[idx]; seen {
			continue
		}
		visited[idx] = struct{}{}
		if r, ok := ix.findMember(c, idx, target); ok {
			return r, true, nil
		}
		queue = ix.interfaces(c, idx, queue)
	}
	return record{}, false, c.err
}

func pick(level domain.APILevel, ok bool, err error) (domain.APILevel, error) {
	if err != nil {
		return domain.NotFound, err
	}
	if !ok || level == domain.NoLevel {
		return domain.NotFound, nil
	}
	return level, nil
}
