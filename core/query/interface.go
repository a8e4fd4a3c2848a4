package query

// Encoder renders an encoded query string. *QueryBuilder implements it;
// components that only need the final string should accept an Encoder.
type Encoder interface {
	Build() (string, error)
}

// FragmentSource exposes the structured fragments behind an encoded query.
type FragmentSource interface {
	Fragments() []Fragment
}

var (
	_ Encoder        = (*QueryBuilder)(nil)
	_ FragmentSource = (*QueryBuilder)(nil)
)
