package foreign

import (
	"lox/internal/object"
)

// GetForeignFunctions returns the host functions installed in every global
// scope besides clock. Database handles are owned by db.
func GetForeignFunctions(db *DB) map[string]*object.Native {
	return map[string]*object.Native{
		"dbOpen":     db.fnOpen(),
		"dbExec":     db.fnExec(),
		"dbQuery":    db.fnQuery(),
		"dbClose":    db.fnClose(),
		"dbBegin":    db.fnBegin(),
		"dbCommit":   db.fnCommit(),
		"dbRollback": db.fnRollback(),
	}
}
