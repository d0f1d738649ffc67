package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrNotFound = errors.New("db: not found")
)

// Op constants name the failing statement or command for error context.
const (
	OpSelect  = "SELECT"
	OpCount   = "COUNT"
	OpInsert  = "INSERT"
	OpReplace = "REPLACE"
	OpUpdate  = "UPDATE"
	OpMigrate = "MIGRATE"
	OpDel     = "DEL"
	OpHGetAll = "HGETALL"
	OpHSet    = "HSET"
	OpHIncrBy = "HINCRBY"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
