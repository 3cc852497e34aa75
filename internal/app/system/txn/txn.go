// Package txn runs a unit of work inside a mongo transaction.
//
// Transactions need a replica set. On a standalone server (local development)
// Run logs a warning once per call and executes fn without a transaction, so
// the same code path works in both deployments.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn inside a transaction on db's client. fn must use the ctx it
// is given so its operations join the session. The session is always ended.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			warn(log, err)
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		warn(log, err)
		return fn(ctx)
	}
	return err
}

func warn(log *zap.Logger, err error) {
	if log == nil {
		return
	}
	log.Warn("transactions not supported by server; running without transaction", zap.Error(err))
}

// IsNotSupported reports whether err means the server cannot run transactions
// (standalone mongod, or an operation not allowed in a transaction).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, 51, 263: // IllegalOperation, standalone, OperationNotSupportedInTransaction
			return true
		}
	}
	s := strings.ToLower(err.Error())
	hits := 0
	for _, kw := range []string{"transaction", "replica set", "session", "not supported", "illegal operation"} {
		if strings.Contains(s, kw) {
			hits++
		}
	}
	return hits >= 2
}
