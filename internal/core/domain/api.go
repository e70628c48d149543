package domain

import (
	"strconv"
	"strings"
)

// APILevel is an integer platform version identifier. Higher levels are newer.
type APILevel int

const (
	// NotFound means the index holds no information for the requested symbol.
	NotFound APILevel = -1

	// NoLevel marks an unset optional level (deprecated, removed) and, for members,
	// a since level inherited from the owning class.
	NoLevel APILevel = 0

	// MaxAPILevel is the highest level the binary index can encode.
	MaxAPILevel APILevel = 255
)

// ConstructorName is the JVM name of instance constructors.
const ConstructorName = "<init>"

// Found reports whether l carries information.
func (l APILevel) Found() bool {
	return l > NoLevel
}

// String returns the decimal level, or "unknown" for NotFound.
func (l APILevel) String() string {
	if l == NotFound {
		return "unknown"
	}
	return strconv.Itoa(int(l))
}

// InternalName converts a dotted class name into the slash-separated internal form.
// Names already in internal form are returned unchanged.
func InternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

// MethodKey builds the member key for a method from its name and JVM descriptor.
// The return type is not part of the key, so "(I)V" and "(I)" address the same method.
// The descriptor may also arrive attached to name with an empty signature.
func MethodKey(name, signature string) string {
	return NormalizeMethodKey(name + signature)
}

// NormalizeMethodKey strips the return type from a combined "name(args)ret" method key.
func NormalizeMethodKey(raw string) string {
	if i := strings.IndexByte(raw, ')'); i >= 0 {
		return raw[:i+1]
	}
	return raw
}

// IsConstructor reports whether method names an instance constructor.
func IsConstructor(method string) bool {
	return method == ConstructorName || strings.HasPrefix(method, ConstructorName+"(")
}
