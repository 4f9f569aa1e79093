// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns the Postgres stores query.
package schema

import "github.com/taibuivan/castly/internal/platform/constants"

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table          string
	ID             string
	Email          string
	Password       string
	DisplayName    string
	PrimaryRole    string
	AvailableRoles string
	CreatedAt      string
	UpdatedAt      string
	DeletedAt      string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:          constants.SchemaUsers + ".account",
	ID:             "id",
	Email:          "email",
	Password:       "passwordhash",
	DisplayName:    "displayname",
	PrimaryRole:    "primaryrole",
	AvailableRoles: "availableroles",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
	DeletedAt:      "deletedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.Password, t.DisplayName, t.PrimaryRole,
		t.AvailableRoles, t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}

// Projection returns the columns an account lookup reads, in scan order.
func (t UserAccountTable) Projection() []string {
	return []string{
		t.ID, t.Email, t.Password, t.DisplayName, t.PrimaryRole,
		t.AvailableRoles, t.CreatedAt, t.UpdatedAt,
	}
}
