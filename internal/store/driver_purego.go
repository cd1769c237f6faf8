//go:build !cgo_sqlite

package store

import (
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"
