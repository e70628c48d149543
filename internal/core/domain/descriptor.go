package domain

// Edge is a reference from a class to one of its supertypes.
type Edge struct {
	// Name is the internal name of the supertype.
	Name string
	// Since is the level at which the relationship appeared. NoLevel means
	// it has existed as long as the class itself.
	Since APILevel
}

// MemberEntry is a field or method recorded on the class that first declared it.
type MemberEntry struct {
	// Key is the field name, or the method name followed by its argument
	// descriptors, e.g. "getColor(I)".
	Key        string
	Since      APILevel
	Deprecated APILevel
	Removed    APILevel
}

// ClassEntry describes one platform class or interface.
type ClassEntry struct {
	Name       string
	Since      APILevel
	Deprecated APILevel
	Removed    APILevel
	// Superclass is the current superclass edge; an empty Name means none.
	Superclass Edge
	Interfaces []Edge
	Members    []MemberEntry
}

// Descriptor is the parsed source description of a platform API surface.
type Descriptor struct {
	// Name is the descriptor file base name without extension.
	Name string
	// Fingerprint identifies the exact descriptor bytes the classes were parsed from.
	Fingerprint uint64
	Classes     []ClassEntry
}
