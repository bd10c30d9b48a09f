package domain

// Role mirrors a Discord role referenced by role grants.
type Role struct {
	ID          int64
	Name        string
	Color       int
	Position    int
	Permissions int64
}
