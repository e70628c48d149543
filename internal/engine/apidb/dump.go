package apidb

import (
	"bufio"
	"fmt"
	"io"

	"go.trai.ch/apilevel/internal/core/domain"
)

// Classes returns the names of all indexed classes in table order.
func (l *Lookup) Classes() ([]string, error) {
	ix := l.ix
	c := ix.cursor()
	names := make([]string, 0, ix.header.ClassCount)
	for i := range ix.header.ClassCount {
		name := ix.className(c, i)
		if c.err != nil {
			return nil, c.err
		}
		names = append(names, string(name))
	}
	return names, nil
}

// Dump writes a line-oriented text rendering of the whole index to w.
// Classes appear in table order, each followed by its supertypes and members.
func (l *Lookup) Dump(w io.Writer) error {
	ix := l.ix
	c := ix.cursor()
	bw := bufio.NewWriter(w)

	h := ix.header
	fmt.Fprintf(bw, "format %d builder %d classes %d members %d fingerprint %016x\n",
		h.FormatVersion, h.BuilderVersion, h.ClassCount, h.MemberCount, h.Fingerprint)

	var edges []edge
	for i := range h.ClassCount {
		fmt.Fprintf(bw, "class %s%s\n", ix.className(c, i), levels(ix.classRecord(c, i)))

		if s := ix.superOf(c, i); s != noClass {
			fmt.Fprintf(bw, "  extends %s%s\n", ix.className(c, s), since(ix.superSince(c, i)))
		}
		edges = ix.interfaces(c, i, edges[:0])
		for _, e := range edges {
			fmt.Fprintf(bw, "  implements %s%s\n", ix.className(c, e.target), since(e.since))
		}

		start, count := ix.members(c, i)
		for j := uint64(0); j < count && c.err == nil; j++ {
			at := start + j*memberRecordSize
			fmt.Fprintf(bw, "  member %s%s\n", ix.str(c, c.u32(at)), levels(ix.memberRecord(c, at)))
		}
		if c.err != nil {
			return c.err
		}
	}
	return bw.Flush()
}

func since(level domain.APILevel) string {
	if level == domain.NoLevel {
		return ""
	}
	return fmt.Sprintf(" since=%d", level)
}

func levels(r record) string {
	out := since(r.since)
	if r.deprecated != domain.NoLevel {
		out += fmt.Sprintf(" deprecated=%d", r.deprecated)
	}
	if r.removed != domain.NoLevel {
		out += fmt.Sprintf(" removed=%d", r.removed)
	}
	return out
}
