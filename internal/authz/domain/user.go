package domain

// User is the read-only cached copy of the authenticated user, held for
// role resolution and creator-identity comparisons.
type User struct {
	ID        string  `json:"_id"`
	Email     string  `json:"email"`
	FirstName string  `json:"firstName,omitempty"`
	LastName  string  `json:"lastName,omitempty"`
	Role      RoleRef `json:"role"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

// Active defaults to true when the field is absent.
func (u *User) Active() bool {
	return u.IsActive == nil || *u.IsActive
}

// FullName joins the name parts, tolerating either being empty.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// IsCreatorOf compares the user against a document's createdBy field. An
// empty createdBy never matches.
func (u *User) IsCreatorOf(createdBy string) bool {
	return createdBy != "" && u.ID == createdBy
}
