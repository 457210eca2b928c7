package model

import "time"

// User is a content-host account referenced by documents and permissions.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Locale    string    `json:"locale"`
	CreatedAt time.Time `json:"created_at"`
}

// Post is the content-host post a document is attached to. Its author carries
// the same permission-management rights as the document owner.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
