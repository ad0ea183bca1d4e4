// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

package schema

// UsersTable represents the 'users' table.
type UsersTable struct {
	Table        string
	ID           string
	Username     string
	Email        string
	PasswordHash string
	DisplayName  string
	Role         string
	IsVerified   string
	CreatedAt    string
	UpdatedAt    string
}

// Users is the schema definition for users.
var Users = UsersTable{
	Table:        "users",
	ID:           "id",
	Username:     "username",
	Email:        "email",
	PasswordHash: "password_hash",
	DisplayName:  "display_name",
	Role:         "role",
	IsVerified:   "is_verified",
	CreatedAt:    "created_at",
	UpdatedAt:    "updated_at",
}

func (t UsersTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.PasswordHash, t.DisplayName,
		t.Role, t.IsVerified, t.CreatedAt, t.UpdatedAt,
	}
}

// UserReadingProgressTable represents the 'user_reading_progress' table.
// One row per (user, book); the bookmark only ever moves forward.
type UserReadingProgressTable struct {
	Table                string
	ID                   string
	UserID               string
	BookID               string
	CurrentChapterNumber string
	LastReadAt           string
	UpdatedAt            string
}

// UserReadingProgress is the schema definition for user_reading_progress.
var UserReadingProgress = UserReadingProgressTable{
	Table:                "user_reading_progress",
	ID:                   "id",
	UserID:               "user_id",
	BookID:               "book_id",
	CurrentChapterNumber: "current_chapter_number",
	LastReadAt:           "last_read_at",
	UpdatedAt:            "updated_at",
}
