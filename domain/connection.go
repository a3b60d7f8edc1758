package domain

import "time"

// Connection is one follower/following/contact/etc. row from the archive.
type Connection struct {
	ID           int
	Username     string
	Type         string // Case-folded wire value, e.g. "follower"
	Timestamp    time.Time
	TimestampRaw string
	ContactInfo  string
}

// Hashtag is a followed hashtag from the archive.
type Hashtag struct {
	ID           int
	Name         string
	Timestamp    time.Time
	TimestampRaw string
}
