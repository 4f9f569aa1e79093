// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Authentication Constraints

const (
	// MinPasswordLength is the shortest password accepted at sign-up.
	MinPasswordLength = 8

	// MaxPasswordLength keeps input within bcrypt's 72-byte window.
	MaxPasswordLength = 72

	// MaxEmailLength matches the column width in users.account.
	MaxEmailLength = 254

	// MaxDisplayNameLength bounds the public display name.
	MaxDisplayNameLength = 80
)
