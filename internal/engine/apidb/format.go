// Package apidb builds and reads the binary API database: a compact, sorted,
// randomly addressable encoding of a platform API descriptor.
//
// The file starts with a fixed header followed by the payload:
//
//	header       32 bytes, see Header
//	class table  ClassCount records of 16 bytes, sorted by class name
//	string pool  u16 length-prefixed strings, StringsLen bytes
//	blocks       one block per class: superclass edge level, interfaces, members
//
// Classes reference their superclass and interfaces by class table index, so
// hierarchy walks never compare names. All integers are big-endian.
package apidb

import (
	"encoding/binary"

	"go.trai.ch/apilevel/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	// Magic is the format marker at the start of every database file.
	Magic = "APIL"

	// FormatVersion is bumped whenever the byte layout changes.
	FormatVersion uint16 = 1

	// BuilderVersion is bumped whenever the builder output changes for the same input.
	BuilderVersion uint16 = 1

	// HeaderSize is the size of the fixed file header.
	HeaderSize = 32

	classRecordSize  = 16
	memberRecordSize = 8
	edgeRecordSize   = 5

	noClass uint32 = 0xFFFFFFFF

	maxStringLen = 0xFFFF
)

// Header is the self-describing prefix of a database file.
type Header struct {
	FormatVersion  uint16
	BuilderVersion uint16
	// PayloadLen is the exact number of bytes following the header.
	PayloadLen  uint32
	ClassCount  uint32
	MemberCount uint32
	// Fingerprint identifies the descriptor the database was built from.
	Fingerprint uint64
	StringsLen  uint32
}

func (h Header) appendTo(dst []byte) []byte {
	dst = append(dst, Magic...)
	dst = binary.BigEndian.AppendUint16(dst, h.FormatVersion)
	dst = binary.BigEndian.AppendUint16(dst, h.BuilderVersion)
	dst = binary.BigEndian.AppendUint32(dst, h.PayloadLen)
	dst = binary.BigEndian.AppendUint32(dst, h.ClassCount)
	dst = binary.BigEndian.AppendUint32(dst, h.MemberCount)
	dst = binary.BigEndian.AppendUint64(dst, h.Fingerprint)
	dst = binary.BigEndian.AppendUint32(dst, h.StringsLen)
	return dst
}

// ParseHeader decodes the header at the start of data. It returns
// ErrCacheHeaderCorrupt when data is too short or carries the wrong marker.
// Versions and payload length are not checked; see Header.Compatible and
// Header.CheckBody.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, zerr.With(domain.ErrCacheHeaderCorrupt, "size", len(data))
	}
	if string(data[:4]) != Magic {
		return Header{}, zerr.With(domain.ErrCacheHeaderCorrupt, "marker", string(data[:4]))
	}

	return Header{
		FormatVersion:  binary.BigEndian.Uint16(data[4:6]),
		BuilderVersion: binary.BigEndian.Uint16(data[6:8]),
		PayloadLen:     binary.BigEndian.Uint32(data[8:12]),
		ClassCount:     binary.BigEndian.Uint32(data[12:16]),
		MemberCount:    binary.BigEndian.Uint32(data[16:20]),
		Fingerprint:    binary.BigEndian.Uint64(data[20:28]),
		StringsLen:     binary.BigEndian.Uint32(data[28:32]),
	}, nil
}

// Compatible reports whether the header was written by this format and builder version.
func (h Header) Compatible() bool {
	return h.FormatVersion == FormatVersion && h.BuilderVersion == BuilderVersion
}

// CheckVersion returns ErrCacheVersionMismatch when the header is not Compatible.
func (h Header) CheckVersion() error {
	if h.Compatible() {
		return nil
	}
	err := zerr.With(domain.ErrCacheVersionMismatch, "format_version", h.FormatVersion)
	return zerr.With(err, "builder_version", h.BuilderVersion)
}

// CheckBody returns ErrCacheBodyCorrupt when the bytes following the header
// in data do not match the declared payload length.
func (h Header) CheckBody(data []byte) error {
	actual := len(data) - HeaderSize
	if actual != int(h.PayloadLen) {
		err := zerr.With(domain.ErrCacheBodyCorrupt, "declared", h.PayloadLen)
		return zerr.With(err, "actual", actual)
	}
	return nil
}
