// Package repository implements MySQL persistence for the inventory
// engine.  Repositories return the domain error types from the inventory
// package so handlers can translate failures uniformly; storage-level lock
// conflicts surface as inventory.ErrConflict.
package repository

import "strings"

// MySQL error numbers the engine reacts to.  The driver includes the
// number in the error text, so a substring check is sufficient here.
const (
	mysqlDuplicateEntry  = "1062"
	mysqlLockWaitTimeout = "1205"
	mysqlDeadlock        = "1213"
)

func isMySQLErr(err error, number string) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), number)
}

// isLockConflict reports whether err is a deadlock or lock wait timeout,
// i.e. a concurrent transaction won the race for the same rows.
func isLockConflict(err error) bool {
	return isMySQLErr(err, mysqlDeadlock) || isMySQLErr(err, mysqlLockWaitTimeout)
}

// isDuplicateEntry reports a unique key violation.
func isDuplicateEntry(err error) bool {
	return isMySQLErr(err, mysqlDuplicateEntry)
}
