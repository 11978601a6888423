package tablequery

import "fmt"

// InvalidIdentifierError reports a table identifier that is not a positive
// integer in the remote service's identifier scheme.
type InvalidIdentifierError struct {
	ProductID int
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid table identifier: %d (must be a positive integer)", e.ProductID)
}

// UnknownMemberError reports a filter label that has no entry in the member
// index for the addressed dimension. Member is empty when the dimension name
// itself matched no dimension of the table.
type UnknownMemberError struct {
	Dimension string
	Member    string
}

func (e *UnknownMemberError) Error() string {
	if e.Member == "" {
		return fmt.Sprintf("unknown dimension %q", e.Dimension)
	}
	return fmt.Sprintf("unknown member %q in dimension %q", e.Member, e.Dimension)
}

// UnknownTableError reports a productId that has no built-in member index.
// Callers holding live cube metadata can build an index with FromMetadata
// instead.
type UnknownTableError struct {
	ProductID int
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("no member index for table %d", e.ProductID)
}
