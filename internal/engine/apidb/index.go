package apidb

import (
	"bytes"

	"go.trai.ch/apilevel/internal/core/domain"
	"go.trai.ch/zerr"
)

// Index is a read-only view over the bytes of a database file. The bytes are
// never deserialized; every lookup reads the records it needs in place.
// An Index is safe for concurrent use.
type Index struct {
	header  Header
	payload []byte
	poolOff uint64
}

// Load wraps data after checking its header, versions and payload length.
// data is retained and must not be modified afterwards.
func Load(data []byte) (*Index, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if err := h.CheckVersion(); err != nil {
		return nil, err
	}
	if err := h.CheckBody(data); err != nil {
		return nil, err
	}
	return wrap(h, data), nil
}

// wrap builds an Index without checking the payload length. Reads that fall
// outside data fail with ErrDatabaseCorrupt.
func wrap(h Header, data []byte) *Index {
	return &Index{
		header:  h,
		payload: data[HeaderSize:],
		poolOff: uint64(h.ClassCount) * classRecordSize,
	}
}

// Header returns the decoded file header.
func (ix *Index) Header() Header {
	return ix.header
}

// Size returns the size of the database file in bytes.
func (ix *Index) Size() int {
	return HeaderSize + len(ix.payload)
}

// cursor performs bounds-checked reads. The first failed read is remembered in
// err and every later read returns a zero value.
type cursor struct {
	data []byte
	err  error
}

func (ix *Index) cursor() *cursor {
	return &cursor{data: ix.payload}
}

func (c *cursor) fail(what string, value uint64) {
	if c.err == nil {
		c.err = zerr.With(zerr.With(domain.ErrDatabaseCorrupt, what, value), "size", len(c.data))
	}
}

func (c *cursor) has(off, n uint64) bool {
	if c.err != nil {
		return false
	}
	if off+n > uint64(len(c.data)) {
		c.fail("offset", off)
		return false
	}
	return true
}

func (c *cursor) u8(off uint64) uint8 {
	if !c.has(off, 1) {
		return 0
	}
	return c.data[off]
}

func (c *cursor) u16(off uint64) uint16 {
	if !c.has(off, 2) {
		return 0
	}
	return uint16(c.data[off])<<8 | uint16(c.data[off+1])
}

func (c *cursor) u32(off uint64) uint32 {
	if !c.has(off, 4) {
		return 0
	}
	b := c.data[off : off+4]
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func (c *cursor) slice(off, n uint64) []byte {
	if !c.has(off, n) {
		return nil
	}
	return c.data[off : off+n]
}

// edge is a decoded supertype reference.
type edge struct {
	target uint32
	since  domain.APILevel
}

// record holds the levels stored for a class or member.
type record struct {
	since      domain.APILevel
	deprecated domain.APILevel
	removed    domain.APILevel
}

func (ix *Index) str(c *cursor, off uint32) []byte {
	if off >= ix.header.StringsLen {
		c.fail("string", uint64(off))
		return nil
	}
	at := ix.poolOff + uint64(off)
	n := c.u16(at)
	return c.slice(at+2, uint64(n))
}

func classOff(idx uint32) uint64 {
	return uint64(idx) * classRecordSize
}

func (ix *Index) className(c *cursor, idx uint32) []byte {
	return ix.str(c, c.u32(classOff(idx)))
}

func (ix *Index) classRecord(c *cursor, idx uint32) record {
	at := classOff(idx) + 4
	return record{
		since:      domain.APILevel(c.u8(at)),
		deprecated: domain.APILevel(c.u8(at + 1)),
		removed:    domain.APILevel(c.u8(at + 2)),
	}
}

func (ix *Index) checkClass(c *cursor, idx uint32) bool {
	if idx >= ix.header.ClassCount {
		c.fail("class", uint64(idx))
		return false
	}
	return true
}

// superOf returns the superclass index of idx, or noClass.
func (ix *Index) superOf(c *cursor, idx uint32) uint32 {
	s := c.u32(classOff(idx) + 8)
	if c.err != nil || s == noClass {
		return noClass
	}
	if !ix.checkClass(c, s) {
		return noClass
	}
	return s
}

func (ix *Index) blockOf(c *cursor, idx uint32) uint64 {
	return uint64(c.u32(classOff(idx) + 12))
}

func (ix *Index) superSince(c *cursor, idx uint32) domain.APILevel {
	return domain.APILevel(c.u8(ix.blockOf(c, idx)))
}

// interfaces appends the directly implemented interfaces of idx to dst.
func (ix *Index) interfaces(c *cursor, idx uint32, dst []edge) []edge {
	at := ix.blockOf(c, idx)
	n := uint64(c.u16(at + 1))
	at += 3
	for i := uint64(0); i < n && c.err == nil; i++ {
		target := c.u32(at)
		since := domain.APILevel(c.u8(at + 4))
		if c.err != nil || !ix.checkClass(c, target) {
			return dst
		}
		dst = append(dst, edge{target: target, since: since})
		at += edgeRecordSize
	}
	return dst
}

// members returns the offset of the first member record of idx and the member count.
func (ix *Index) members(c *cursor, idx uint32) (uint64, uint64) {
	at := ix.blockOf(c, idx)
	n := uint64(c.u16(at + 1))
	at += 3 + n*edgeRecordSize
	count := uint64(c.u32(at))
	return at + 4, count
}

func (ix *Index) memberRecord(c *cursor, at uint64) record {
	return record{
		since:      domain.APILevel(c.u8(at + 4)),
		deprecated: domain.APILevel(c.u8(at + 5)),
		removed:    domain.APILevel(c.u8(at + 6)),
	}
}

// findClass binary-searches the class table.
func (ix *Index) findClass(c *cursor, name []byte) (uint32, bool) {
	lo, hi := uint64(0), uint64(ix.header.ClassCount)
	for lo < hi && c.err == nil {
		mid := lo + (hi-lo)/2
		idx := uint32(mid) //nolint:gosec // mid < ClassCount
		switch bytes.Compare(ix.className(c, idx), name) {
		case 0:
			return idx, c.err == nil
		case -1:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0, false
}

// findMember binary-searches the member block of class idx.
func (ix *Index) findMember(c *cursor, idx uint32, key []byte) (record, bool) {
	start, count := ix.members(c, idx)
	lo, hi := uint64(0), count
	for lo < hi && c.err == nil {
		mid := lo + (hi-lo)/2
		at := start + mid*memberRecordSize
		switch bytes.Compare(ix.str(c, c.u32(at)), key) {
		case 0:
			r := ix.memberRecord(c, at)
			return r, c.err == nil
		case -1:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return record{}, false
}
