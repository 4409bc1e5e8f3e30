// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"database/sql"

	"github.com/rubenv/sql-migrate"
)

// This file maintains the database migration code.  See
// https://github.com/rubenv/sql-migrate for details of what goes in
// here.  This runs "outside" the normal catalog flow, either at
// initial startup or from an external tool.

var migrationSource = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "1_catalog",
			Up: []string{
				`CREATE TABLE category(
					id TEXT PRIMARY KEY,
					position BIGSERIAL NOT NULL,
					term TEXT NOT NULL,
					tag BOOLEAN NOT NULL DEFAULT FALSE,
					data BYTEA NOT NULL
				)`,
				`CREATE INDEX category_term ON category(LOWER(term))`,
				`CREATE TABLE entity(
					id TEXT PRIMARY KEY,
					location TEXT NOT NULL,
					kind TEXT NOT NULL,
					owner TEXT NOT NULL,
					title TEXT NOT NULL DEFAULT '',
					summary TEXT NOT NULL DEFAULT '',
					source TEXT,
					target TEXT,
					attributes BYTEA
				)`,
				`CREATE UNIQUE INDEX entity_location ON entity(TRIM(BOTH '/' FROM location))`,
				`CREATE INDEX entity_source ON entity(TRIM(BOTH '/' FROM source))`,
				`CREATE TABLE entity_mixin(
					entity_id TEXT NOT NULL REFERENCES entity(id) ON DELETE CASCADE,
					mixin TEXT NOT NULL,
					position BIGSERIAL NOT NULL,
					PRIMARY KEY(entity_id, mixin)
				)`,
				`CREATE INDEX entity_mixin_mixin ON entity_mixin(mixin)`,
			},
			Down: []string{
				`DROP TABLE entity_mixin`,
				`DROP TABLE entity`,
				`DROP TABLE category`,
			},
		},
	},
}

// Upgrade upgrades a database to the latest database schema version.
func Upgrade(db *sql.DB) error {
	_, err := migrate.Exec(db, "postgres", migrationSource, migrate.Up)
	return err
}

// Drop clears a database by running all of the migrations in reverse,
// ultimately resulting in dropping all of the tables.
func Drop(db *sql.DB) error {
	_, err := migrate.Exec(db, "postgres", migrationSource, migrate.Down)
	return err
}
