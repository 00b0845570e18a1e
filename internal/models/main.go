// Package models defines the core data structures shared between
// the client and the server: notes, user profiles and accounts.
package models

// Note is a single text note owned by a user.
type Note struct {
	// ID is the server-assigned unique identifier.
	ID int64 `json:"id"`
	// Title is the note headline.
	Title string `json:"title"`
	// Content is the note body.
	Content string `json:"content"`
}

// NoteInput carries the user-editable note fields for create and update requests.
type NoteInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Profile is the public view of a user account.
// Username is immutable; email and other info can be changed.
type Profile struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	OtherInfo string `json:"other_info"`
}

// ProfileInput carries the mutable profile fields for update requests.
type ProfileInput struct {
	Email     string `json:"email"`
	OtherInfo string `json:"other_info"`
}

// User represents an application user with credentials as stored server-side.
type User struct {
	// ID is the unique identifier for the user.
	ID int64
	// Username is the login name chosen by the user.
	Username string
	// Email is the user's contact address.
	Email string
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash []byte
	// OtherInfo holds free-form additional information.
	OtherInfo string
}

// Profile returns the public view of the user.
func (u User) Profile() Profile {
	return Profile{Username: u.Username, Email: u.Email, OtherInfo: u.OtherInfo}
}
