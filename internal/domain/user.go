package domain

// User is a Discord account known to the service. Rows are upserted on every
// OAuth login so the cached profile tracks Discord.
type User struct {
	ID            int64
	Username      string
	Discriminator string
	Avatar        *string
	Type          string
}

// User types stored in the users table.
const (
	UserTypeMember = "USER"
	UserTypeApp    = "APP"
)
