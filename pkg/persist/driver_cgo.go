//go:build sqlite_cgo

package persist

import _ "github.com/mattn/go-sqlite3" // cgo SQLite driver

const driverName = "sqlite3"
