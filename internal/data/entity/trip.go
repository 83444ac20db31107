package entity

// Trip is an immutable catalog entry. Bookings and pricing rows reference it
// by ID only; the slug is a mutable human-facing alias and never a foreign key.
type Trip struct {
	Base
	Name string `db:"name"`
	Slug string `db:"slug"`
}
