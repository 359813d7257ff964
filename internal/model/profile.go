package model

// ProfileKind discriminates the two account shapes. A signed-in user is
// exactly one of the two, decided by which table holds their email.
type ProfileKind string

const (
	ProfileMembership ProfileKind = "membership"
	ProfileEducation  ProfileKind = "education"
)

// Profile is the resolved account for an authenticated email: exactly one of
// Member or Requester is non-nil, matching Kind. Students accompany
// education profiles only.
type Profile struct {
	Kind      ProfileKind         `json:"type"`
	Member    *Member             `json:"member,omitempty"`
	Requester *EducationRequester `json:"requester,omitempty"`
	Students  []Student           `json:"students,omitempty"`
}
