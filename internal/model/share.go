package model

import "time"

// Share is a read-only copy of submitted text reachable through a share link.
type Share struct {
	ID        string
	Content   string
	CreatedAt time.Time
}

// ShareLink is returned to the client after a share is created.
type ShareLink struct {
	ID  string
	URL string
}
