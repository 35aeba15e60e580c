package progression

const (
	RoleAdmin   = "ADMIN"
	RoleLearner = "LEARNER"
)

// Identity is an already-resolved caller. Every mutating operation acts on
// Identity.UserID only.
type Identity struct {
	UserID uint
	Role   string
	Name   string
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }
