// Package filelock provides advisory file locking so concurrent batchop
// processes cannot interleave writes to the same undo ledger.
package filelock

import "os"

// Lock represents an acquired advisory file lock.
type Lock struct {
	file *os.File
}
