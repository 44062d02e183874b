// Package models defines the documents persisted by the server: user
// credential records and file/folder nodes.
package models

import "time"

// User is a credential record. Email is the unique, case-sensitive lookup
// key; PasswordHash is a bcrypt hash. Users are immutable after registration.
type User struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password"`
	CreatedAt    time.Time `bson:"created_at"`
}
