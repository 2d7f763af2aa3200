//go:build !sqlite_cgo

package persist

import _ "modernc.org/sqlite" // pure-Go SQLite driver

const driverName = "sqlite"
