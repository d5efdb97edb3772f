package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type ErrorClass int

const (
	ErrorClassPermanent ErrorClass = iota
	ErrorClassTransient
)

func (c ErrorClass) String() string {
	if c == ErrorClassTransient {
		return "transient"
	}
	return "permanent"
}

var (
	ErrNotConfigured     = errors.New("database not configured")
	ErrUnsupportedDriver = errors.New("unsupported database driver")
)

// ClassifyError reports whether err means the store was unreachable or
// overloaded (transient) rather than rejecting the operation itself.
func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ErrorClassPermanent
	}

	if errors.Is(err, ErrNotConfigured) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) {
		return ErrorClassTransient
	}

	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return ErrorClassTransient
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		switch {
		case code == "40001", code == "40P01", code == "55P03", code == "57P01":
			return ErrorClassTransient
		case strings.HasPrefix(code, "08"), strings.HasPrefix(code, "53"):
			return ErrorClassTransient
		}
		return ErrorClassPermanent
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrorClassTransient
	}

	return ErrorClassPermanent
}

func IsTransient(err error) bool {
	return ClassifyError(err) == ErrorClassTransient
}
