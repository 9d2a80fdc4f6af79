// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package data ships the SQL schema inside the binary.
package data

import "embed"

// Migrations holds the golang-migrate files under migrations/.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of [Migrations] that holds the files.
const MigrationsDir = "migrations"
