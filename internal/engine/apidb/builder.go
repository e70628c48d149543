package apidb

import (
	"cmp"
	"encoding/binary"
	"math"
	"slices"

	"go.trai.ch/apilevel/internal/core/domain"
	"go.trai.ch/zerr"
)

// Build encodes desc into a complete database file (header and payload).
// The output depends only on desc and BuilderVersion: building the same
// descriptor twice yields identical bytes.
func Build(desc *domain.Descriptor) ([]byte, error) {
	classes, err := prepareClasses(desc.Classes)
	if err != nil {
		return nil, err
	}

	positions := make(map[string]uint32, len(classes))
	for i := range classes {
		positions[classes[i].Name] = uint32(i) //nolint:gosec // bounded by checkSize
	}

	pool := newStringPool()
	for i := range classes {
		if err := pool.add(classes[i].Name); err != nil {
			return nil, err
		}
	}
	memberCount := 0
	for i := range classes {
		for _, m := range classes[i].Members {
			if err := pool.add(m.Key); err != nil {
				return nil, err
			}
		}
		memberCount += len(classes[i].Members)
	}

	tableSize := len(classes) * classRecordSize
	blocksStart := tableSize + len(pool.data)

	blocks := make([]byte, 0, len(classes)*16+memberCount*memberRecordSize)
	table := make([]byte, 0, tableSize)

	for i := range classes {
		c := &classes[i]

		superIdx := noClass
		superSince := domain.NoLevel
		if idx, ok := positions[c.Superclass.Name]; ok {
			superIdx = idx
			superSince = c.Superclass.Since
		}

		blockOff := blocksStart + len(blocks)
		if err := checkSize(blockOff); err != nil {
			return nil, err
		}

		table = binary.BigEndian.AppendUint32(table, pool.offsets[c.Name])
		table = append(table, byte(c.Since), byte(c.Deprecated), byte(c.Removed), 0)
		table = binary.BigEndian.AppendUint32(table, superIdx)
		table = binary.BigEndian.AppendUint32(table, uint32(blockOff)) //nolint:gosec // checked above

		blocks = append(blocks, byte(superSince))
		ifaces := make([]domain.Edge, 0, len(c.Interfaces))
		for _, e := range c.Interfaces {
			if _, ok := positions[e.Name]; ok {
				ifaces = append(ifaces, e)
			}
		}
		blocks = binary.BigEndian.AppendUint16(blocks, uint16(len(ifaces))) //nolint:gosec // checked in prepareClasses
		for _, e := range ifaces {
			blocks = binary.BigEndian.AppendUint32(blocks, positions[e.Name])
			blocks = append(blocks, byte(e.Since))
		}

		blocks = binary.BigEndian.AppendUint32(blocks, uint32(len(c.Members))) //nolint:gosec // bounded by checkSize
		for _, m := range c.Members {
			blocks = binary.BigEndian.AppendUint32(blocks, pool.offsets[m.Key])
			blocks = append(blocks, byte(m.Since), byte(m.Deprecated), byte(m.Removed), 0)
		}
	}

	payloadLen := tableSize + len(pool.data) + len(blocks)
	if err := checkSize(payloadLen); err != nil {
		return nil, err
	}

	//nolint:gosec // all sizes checked against MaxUint32 above
	h := Header{
		FormatVersion:  FormatVersion,
		BuilderVersion: BuilderVersion,
		PayloadLen:     uint32(payloadLen),
		ClassCount:     uint32(len(classes)),
		MemberCount:    uint32(memberCount),
		Fingerprint:    desc.Fingerprint,
		StringsLen:     uint32(len(pool.data)),
	}

	out := make([]byte, 0, HeaderSize+payloadLen)
	out = h.appendTo(out)
	out = append(out, table...)
	out = append(out, pool.data...)
	out = append(out, blocks...)
	return out, nil
}

// prepareClasses returns a sorted, validated copy of the descriptor classes
// with member levels resolved and members and interfaces in canonical order.
func prepareClasses(in []domain.ClassEntry) ([]domain.ClassEntry, error) {
	classes := make([]domain.ClassEntry, len(in))
	copy(classes, in)
	slices.SortFunc(classes, func(a, b domain.ClassEntry) int {
		return cmp.Compare(a.Name, b.Name)
	})

	for i := range classes {
		c := &classes[i]
		if i > 0 && classes[i-1].Name == c.Name {
			return nil, zerr.With(domain.ErrDuplicateClass, "class", c.Name)
		}
		if err := checkLevels(c.Name, c.Since, c.Deprecated, c.Removed); err != nil {
			return nil, err
		}
		if c.Superclass.Since != domain.NoLevel {
			if err := checkLevels(c.Name, c.Superclass.Since); err != nil {
				return nil, err
			}
		}

		ifaces := slices.Clone(c.Interfaces)
		slices.SortFunc(ifaces, func(a, b domain.Edge) int {
			return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Since, b.Since))
		})
		ifaces = slices.CompactFunc(ifaces, func(a, b domain.Edge) bool { return a.Name == b.Name })
		if len(ifaces) > math.MaxUint16 {
			return nil, zerr.With(domain.ErrIndexTooLarge, "class", c.Name)
		}
		for _, e := range ifaces {
			if e.Since != domain.NoLevel {
				if err := checkLevels(c.Name, e.Since); err != nil {
					return nil, err
				}
			}
		}
		c.Interfaces = ifaces

		members := make([]domain.MemberEntry, len(c.Members))
		for j, m := range c.Members {
			if m.Since == domain.NoLevel {
				m.Since = c.Since
			}
			if err := checkLevels(c.Name+"#"+m.Key, m.Since, m.Deprecated, m.Removed); err != nil {
				return nil, err
			}
			members[j] = m
		}
		// Duplicate keys arise when overloads differ only in return type;
		// the earliest declaration wins.
		slices.SortFunc(members, func(a, b domain.MemberEntry) int {
			return cmp.Or(cmp.Compare(a.Key, b.Key), cmp.Compare(a.Since, b.Since))
		})
		c.Members = slices.CompactFunc(members, func(a, b domain.MemberEntry) bool { return a.Key == b.Key })
	}

	if err := checkSize(len(classes) * classRecordSize); err != nil {
		return nil, err
	}
	return classes, nil
}

// checkLevels verifies that since is a defined level and that the optional
// levels fit in a byte.
func checkLevels(symbol string, since domain.APILevel, optional ...domain.APILevel) error {
	if since < 1 || since > domain.MaxAPILevel {
		err := zerr.With(domain.ErrLevelOutOfRange, "symbol", symbol)
		return zerr.With(err, "level", int(since))
	}
	for _, l := range optional {
		if l < domain.NoLevel || l > domain.MaxAPILevel {
			err := zerr.With(domain.ErrLevelOutOfRange, "symbol", symbol)
			return zerr.With(err, "level", int(l))
		}
	}
	return nil
}

func checkSize(n int) error {
	if n < 0 || uint64(n) >= math.MaxUint32 {
		return zerr.With(domain.ErrIndexTooLarge, "size", n)
	}
	return nil
}

// stringPool stores each distinct string once, in first-use order.
type stringPool struct {
	data    []byte
	offsets map[string]uint32
}

func newStringPool() *stringPool {
	return &stringPool{offsets: make(map[string]uint32)}
}

func (p *stringPool) add(s string) error {
	if _, ok := p.offsets[s]; ok {
		return nil
	}
	if len(s) > maxStringLen {
		return zerr.With(domain.ErrIndexTooLarge, "string", s[:64])
	}
	if err := checkSize(len(p.data) + 2 + len(s)); err != nil {
		return err
	}
	p.offsets[s] = uint32(len(p.data)) //nolint:gosec // checked above
	p.data = binary.BigEndian.AppendUint16(p.data, uint16(len(s)))
	p.data = append(p.data, s...)
	return nil
}
