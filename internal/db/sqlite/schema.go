package sqlite

// Column order of the reference tables matches reference.Entity.Columns.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS author (
		href  TEXT NOT NULL DEFAULT '',
		id    TEXT PRIMARY KEY,
		type  TEXT NOT NULL DEFAULT '',
		uri   TEXT NOT NULL DEFAULT '',
		value TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS department (
		href   TEXT NOT NULL DEFAULT '',
		id     TEXT PRIMARY KEY,
		parent TEXT NOT NULL DEFAULT '',
		uri    TEXT NOT NULL DEFAULT '',
		value  TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS keyword (
		href    TEXT NOT NULL DEFAULT '',
		id      TEXT PRIMARY KEY,
		lexical TEXT NOT NULL DEFAULT '',
		score   INTEGER NOT NULL DEFAULT 0,
		type    TEXT NOT NULL DEFAULT '',
		uri     TEXT NOT NULL DEFAULT '',
		value   TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS product (
		href  TEXT NOT NULL DEFAULT '',
		id    TEXT PRIMARY KEY,
		uri   TEXT NOT NULL DEFAULT '',
		value TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS series (
		href  TEXT NOT NULL DEFAULT '',
		id    TEXT PRIMARY KEY,
		name  TEXT NOT NULL DEFAULT '',
		uri   TEXT NOT NULL DEFAULT '',
		value TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS client (
		api_key  TEXT PRIMARY KEY,
		tier     TEXT NOT NULL,
		name     TEXT NOT NULL,
		email    TEXT NOT NULL,
		requests INTEGER NOT NULL DEFAULT 0,
		reset    INTEGER NOT NULL
	)`,
}
