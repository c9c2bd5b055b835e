package dbretry

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers treated as transient.
const (
	mysqlErrTooManyConnections = 1040
	mysqlErrLockWaitTimeout    = 1205
	mysqlErrDeadlock           = 1213
	mysqlErrServerGoneAway     = 2006
	mysqlErrLostConnection     = 2013
)

// IsTransient reports whether a data-access error is expected to succeed
// on retry. Transient conditions are exactly: connection timeout,
// connection reset/refused, host unreachable, lock or deadlock contention,
// and lost-connection conditions reported by the driver. Constraint
// violations, malformed queries, and validation failures are permanent;
// retrying those would loop forever or mask a bug.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	if errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlErrTooManyConnections,
			mysqlErrLockWaitTimeout,
			mysqlErrDeadlock,
			mysqlErrServerGoneAway,
			mysqlErrLostConnection:
			return true
		}
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	// Driver errors that arrive stringified (e.g. through gorm wrapping).
	msg := strings.ToLower(err.Error())
	for _, token := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"invalid connection",
		"server has gone away",
		"lost connection",
		"i/o timeout",
	} {
		if strings.Contains(msg, token) {
			return true
		}
	}

	return false
}
