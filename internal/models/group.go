package models

// Category tags what a group is used for.
type Category string

const (
	CategoryTrip   Category = "trip"
	CategoryHome   Category = "home"
	CategoryCouple Category = "couple"
	CategoryOther  Category = "other"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryTrip, CategoryHome, CategoryCouple, CategoryOther:
		return true
	}
	return false
}

// Group represents a set of users sharing expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Lisbon trip").
	Name string

	// Category is one of trip, home, couple or other.
	Category Category

	// Members is the ordered list of member user IDs.
	// Order does not affect balances but fixes the order of settlement suggestions.
	// The creator is always a member and there are no duplicates.
	Members []string

	// CreatedBy is the user ID of the creator.
	CreatedBy string

	// CreatedAt is the Unix millisecond timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether userID belongs to the group.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
