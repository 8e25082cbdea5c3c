package venue

// Venue is a ground or sports hall, keyed by its exact displayed name. The
// source never exposes venue identifiers, so trivial spelling variations
// create separate rows; that limitation is carried over deliberately.
type Venue struct {
	ID      int64
	Name    string
	Address string
}
