package db

import "errors"

// ErrKeyNotFound is returned by Get for a missing or expired key.
var ErrKeyNotFound = errors.New("db: key not found")

// Command names recorded in Error.Op.
const (
	OpPing = "PING"
	OpGet  = "GET"
	OpSet  = "SET"
	OpDel  = "DEL"
)

// Error is a failed store command. Key is empty for keyless commands and
// holds the first key for multi-key ones.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return "db: " + e.Op + ": " + e.Err.Error()
	}
	return "db: " + e.Op + " " + e.Key + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
