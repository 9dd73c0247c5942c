package foreign

import (
	"database/sql"
	"fmt"
	"log/slog"
	"lox/internal/object"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var supportedDrivers = map[string]bool{
	"sqlite3":  true,
	"mysql":    true,
	"postgres": true,
}

// DB owns the database handles opened by a program. Handles are small
// numbers so they can be passed around as ordinary values.
type DB struct {
	mu           sync.Mutex
	nextID       int64
	connections  map[int64]*sql.DB
	transactions map[int64]*sql.Tx
}

func NewDB() *DB {
	return &DB{
		connections:  map[int64]*sql.DB{},
		transactions: map[int64]*sql.Tx{},
	}
}

// Close rolls back open transactions and closes every connection.
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var firstErr error
	for id, tx := range d.transactions {
		if err := tx.Rollback(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(d.transactions, id)
	}
	for id, db := range d.connections {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(d.connections, id)
	}
	return firstErr
}

func (d *DB) connection(arg object.Object) (int64, *sql.DB, error) {
	id, err := unpackHandle(arg, "handle")
	if err != nil {
		return 0, nil, err
	}
	db, ok := d.connections[id]
	if !ok {
		return 0, nil, fmt.Errorf("invalid connection handle %d", id)
	}
	return id, db, nil
}

func (d *DB) fnOpen() *object.Native {
	return &object.Native{
		FnName:     "dbOpen",
		ParamCount: 2,
		Fn: func(args ...object.Object) (object.Object, error) {
			driver, err := unpackString(args[0], "driver")
			if err != nil {
				return nil, err
			}
			dsn, err := unpackString(args[1], "dsn")
			if err != nil {
				return nil, err
			}
			if !supportedDrivers[driver] {
				return nil, fmt.Errorf("unsupported driver %q", driver)
			}

			db, err := sql.Open(driver, dsn)
			if err != nil {
				return nil, fmt.Errorf("failed to open connection: %v", err)
			}
			if driver == "sqlite3" {
				// every sqlite connection has its own :memory: database
				db.SetMaxOpenConns(1)
			}
			if err := db.Ping(); err != nil {
				db.Close()
				return nil, fmt.Errorf("failed to ping database: %v", err)
			}

			d.mu.Lock()
			d.nextID++
			id := d.nextID
			d.connections[id] = db
			d.mu.Unlock()

			slog.Info("database opened",
				slog.String("driver", driver),
				slog.Int64("handle", id))
			return &object.Number{Value: float64(id)}, nil
		},
	}
}

func (d *DB) fnExec() *object.Native {
	return &object.Native{
		FnName:     "dbExec",
		ParamCount: 2,
		Fn: func(args ...object.Object) (object.Object, error) {
			query, err := unpackString(args[1], "sql")
			if err != nil {
				return nil, err
			}

			d.mu.Lock()
			defer d.mu.Unlock()

			id, db, err := d.connection(args[0])
			if err != nil {
				return nil, err
			}

			var result sql.Result
			if tx, isTx := d.transactions[id]; isTx {
				result, err = tx.Exec(query)
			} else {
				result, err = db.Exec(query)
			}
			if err != nil {
				return nil, fmt.Errorf("exec failed: %v", err)
			}

			affected, err := result.RowsAffected()
			if err != nil {
				return nil, fmt.Errorf("exec failed: %v", err)
			}
			return &object.Number{Value: float64(affected)}, nil
		},
	}
}

// fnQuery returns the first column of the first row, or nil when the query
// yields no rows.
func (d *DB) fnQuery() *object.Native {
	return &object.Native{
		FnName:     "dbQuery",
		ParamCount: 2,
		Fn: func(args ...object.Object) (object.Object, error) {
			query, err := unpackString(args[1], "sql")
			if err != nil {
				return nil, err
			}

			d.mu.Lock()
			defer d.mu.Unlock()

			id, db, err := d.connection(args[0])
			if err != nil {
				return nil, err
			}

			var rows *sql.Rows
			if tx, isTx := d.transactions[id]; isTx {
				rows, err = tx.Query(query)
			} else {
				rows, err = db.Query(query)
			}
			if err != nil {
				return nil, fmt.Errorf("query failed: %v", err)
			}
			defer rows.Close()

			return firstValue(rows)
		},
	}
}

func (d *DB) fnClose() *object.Native {
	return &object.Native{
		FnName:     "dbClose",
		ParamCount: 1,
		Fn: func(args ...object.Object) (object.Object, error) {
			d.mu.Lock()
			defer d.mu.Unlock()

			id, db, err := d.connection(args[0])
			if err != nil {
				return nil, err
			}
			var rollbackErr error
			if tx, ok := d.transactions[id]; ok {
				rollbackErr = tx.Rollback()
				delete(d.transactions, id)
			}
			delete(d.connections, id)
			if err := db.Close(); err != nil {
				return nil, fmt.Errorf("close failed: %v", err)
			}
			if rollbackErr != nil {
				slog.Warn("rollback on close failed",
					slog.Int64("handle", id),
					slog.Any("error", rollbackErr))
				return nil, fmt.Errorf("failed to rollback transaction: %v", rollbackErr)
			}
			return object.NIL, nil
		},
	}
}

func (d *DB) fnBegin() *object.Native {
	return &object.Native{
		FnName:     "dbBegin",
		ParamCount: 1,
		Fn: func(args ...object.Object) (object.Object, error) {
			d.mu.Lock()
			defer d.mu.Unlock()

			id, db, err := d.connection(args[0])
			if err != nil {
				return nil, err
			}
			if _, ok := d.transactions[id]; ok {
				return nil, fmt.Errorf("transaction already open on handle %d", id)
			}

			tx, err := db.Begin()
			if err != nil {
				return nil, fmt.Errorf("failed to begin transaction: %v", err)
			}
			d.transactions[id] = tx
			return object.NIL, nil
		},
	}
}

func (d *DB) fnCommit() *object.Native {
	return &object.Native{
		FnName:     "dbCommit",
		ParamCount: 1,
		Fn: func(args ...object.Object) (object.Object, error) {
			return object.NIL, d.finishTransaction(args[0], (*sql.Tx).Commit, "commit")
		},
	}
}

func (d *DB) fnRollback() *object.Native {
	return &object.Native{
		FnName:     "dbRollback",
		ParamCount: 1,
		Fn: func(args ...object.Object) (object.Object, error) {
			return object.NIL, d.finishTransaction(args[0], (*sql.Tx).Rollback, "rollback")
		},
	}
}

func (d *DB) finishTransaction(arg object.Object, finish func(*sql.Tx) error, action string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	id, err := unpackHandle(arg, "handle")
	if err != nil {
		return err
	}
	tx, ok := d.transactions[id]
	if !ok {
		return fmt.Errorf("no open transaction on handle %d", id)
	}
	delete(d.transactions, id)
	if err := finish(tx); err != nil {
		return fmt.Errorf("failed to %s transaction: %v", action, err)
	}
	return nil
}

func firstValue(rows *sql.Rows) (object.Object, error) {
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query failed: %v", err)
		}
		return object.NIL, nil
	}

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query failed: %v", err)
	}
	values := make([]interface{}, len(columns))
	pointers := make([]interface{}, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}
	if err := rows.Scan(pointers...); err != nil {
		return nil, fmt.Errorf("scan failed: %v", err)
	}
	if len(values) == 0 {
		return object.NIL, nil
	}
	return mapValue(values[0]), nil
}

func mapValue(v interface{}) object.Object {
	if v == nil {
		return object.NIL
	}
	switch x := v.(type) {
	case int64:
		return &object.Number{Value: float64(x)}
	case float64:
		return &object.Number{Value: x}
	case []byte:
		return &object.String{Value: string(x)}
	case string:
		return &object.String{Value: x}
	case bool:
		if x {
			return object.TRUE
		}
		return object.FALSE
	case time.Time:
		return &object.String{Value: x.Format(time.RFC3339)}
	default:
		return &object.String{Value: fmt.Sprintf("%v", v)}
	}
}
