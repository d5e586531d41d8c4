package models

// Group represents a set of participants that share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string

	// Currency is the display symbol or code for amounts in this group.
	// Amounts themselves are always minor units.
	Currency string

	// Participants is the list of members, in creation order.
	Participants []Participant

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Participant is a member of a group.
type Participant struct {
	ID      string
	GroupID string
	Name    string
}

// HasParticipant reports whether id belongs to one of the group's participants.
func (g *Group) HasParticipant(id string) bool {
	for _, p := range g.Participants {
		if p.ID == id {
			return true
		}
	}
	return false
}
