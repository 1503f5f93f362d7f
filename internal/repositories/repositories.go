// package repositories provides persistence layer implementations for all model types.
package repositories

import (
	"database/sql"
	"time"
)

// unix converts t to unix seconds for storage.
func unix(t time.Time) int64 {
	return t.UTC().Unix()
}

// fromUnix converts stored unix seconds back to a UTC [time.Time].
func fromUnix(s int64) time.Time {
	return time.Unix(s, 0).UTC()
}

// nullString maps "" to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// rowsAffected returns the affected row count of res, or an error.
func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}
