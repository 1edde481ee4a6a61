package model

import "context"

// SchemaManager resets the database schema and optionally seeds it.
type SchemaManager interface {
	Bootstrap(ctx context.Context, users []SeedUser, devices []SeedDevice) error
}

// SeedUser is an initial user row. PasswordHash must already be hashed by the
// caller; the schema layer stores it verbatim. Seeding is first-write-wins
// per username: an existing row is left unchanged.
type SeedUser struct {
	FullName     string `json:"fullname"`
	Username     string `json:"username"`
	PasswordHash string `json:"password"`
	Location     string `json:"location"`
}

// SeedDevice is an initial device row. The owner is declared by username and
// resolved against the seeded user set; a device whose owner is unknown is
// skipped, not fatal.
type SeedDevice struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Serial   string `json:"serial"`
}
