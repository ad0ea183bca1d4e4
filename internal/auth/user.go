// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

/*
Package auth implements identity and session management for Inkbound.

It covers account registration with bcrypt password hashing, login with
RS256 JWT access tokens, refresh-token session rotation in Redis, and the
password reset / email verification recovery flows.

# Architecture

  - Service: Orchestrates the flows (Register, Login, Refresh, recovery).
  - UserRepository: Postgres persistence for accounts.
  - SessionRepository: Redis persistence for refresh-token sessions, keyed
    by token hash so a storage leak cannot replay a session.
  - Token repositories: Volatile reset/verification tokens in Redis with
    their TTL as the single expiry authority.
*/
package auth

import (
	"time"

	"github.com/ledinhhoang/inkbound/internal/platform/sec"
)

// # Domain Entities

// User represents a registered Inkbound reader account.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	DisplayName  string       `json:"display_name"`
	Role         sec.UserRole `json:"role"`
	IsVerified   bool         `json:"is_verified"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Session is an active refresh-token session. Stored in Redis keyed by the
// refresh token's hash; deletion is revocation.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// # Field Identifiers

// Field names for validation and response mapping in the auth domain.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldLogin           = "login"
	FieldToken           = "token"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldAccessToken     = "access_token"
	FieldTokenType       = "token_type"
	FieldExpiresIn       = "expires_in"
	FieldUser            = "user"
	FieldMessage         = "message"
)
