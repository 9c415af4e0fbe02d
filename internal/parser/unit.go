package parser

// UnitType classifies statement units
type UnitType int

const (
	End         UnitType = iota // Input exhausted
	Insert                      // INSERT ... VALUES through its first top-level , or ;
	ValuesTuple                 // Continuation tuple of a multi-row INSERT
	Block                       // Any other statement through its ;
	CommentUnit                 // Block or inline comment
	Whitespace                  // Space, line feed or a bare ;
)

// String returns a string representation of UnitType
func (ut UnitType) String() string {
	switch ut {
	case End:
		return "end"
	case Insert:
		return "insert"
	case ValuesTuple:
		return "values"
	case Block:
		return "block"
	case CommentUnit:
		return "comment"
	case Whitespace:
		return "whitespace"
	default:
		return "unknown"
	}
}

// Unit is the parser's output grain. A unit is never split across output files.
type Unit struct {
	Type  UnitType
	Bytes []byte // Source bytes of the whole unit, terminator included

	// Prefix is set for Insert units only: everything through the VALUES
	// keyword plus one space, ready to re-open the statement in a new file.
	Prefix []byte
}

// Len returns the number of source bytes in the unit.
func (u Unit) Len() int { return len(u.Bytes) }

// Terminator returns the last byte of the unit, or 0 for an empty unit.
func (u Unit) Terminator() byte {
	if len(u.Bytes) == 0 {
		return 0
	}
	return u.Bytes[len(u.Bytes)-1]
}
