package domain

// Platform roles. The demo store defaults to RoleStudent and resets to it
// on logout; the hosted variant reads the role from the user record.
const (
	RoleStudent = "student"
	RoleTutor   = "tutor"
	RoleAdmin   = "admin"
)

func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleTutor || role == RoleAdmin
}
