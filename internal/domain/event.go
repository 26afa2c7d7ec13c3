package domain

// Event is the catalog record this service books against. Only the
// capacity and pricing fields matter here; event content is managed
// elsewhere.
type Event struct {
	ID   string
	Name string
	// Price is denominated in the smallest currency unit (cents).
	Price        int64
	Attendees    int
	MaxAttendees int
}

// SeatsLeft reports remaining capacity. A successful reservation must
// never push Attendees past MaxAttendees.
func (e Event) SeatsLeft() int {
	return e.MaxAttendees - e.Attendees
}
