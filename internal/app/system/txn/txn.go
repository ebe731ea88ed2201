// internal/app/system/txn/txn.go
package txn

// Package txn runs multi-document operations as a single MongoDB
// transaction. The invite-acceptance path reads an invite and
// read-modify-writes a deck; both must observe one snapshot and commit
// atomically, or a concurrent role change could be lost or half-applied.

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.uber.org/zap"
)

// Runner executes fn as one atomic unit of work. The context passed to fn
// carries the transaction; store methods called with it join the same
// transaction automatically.
type Runner interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// Mongo is the production Runner: a session with snapshot reads and
// majority-acknowledged writes. The driver retries transient transaction
// errors internally, so a conflicting concurrent write aborts the attempt
// and re-runs fn against fresh state — fn must therefore be safe to
// execute more than once.
type Mongo struct {
	client *mongo.Client
	log    *zap.Logger
}

// NewMongo creates a transaction runner backed by the given client.
func NewMongo(client *mongo.Client, logger *zap.Logger) *Mongo {
	return &Mongo{client: client, log: logger}
}

// Run executes fn inside a transaction. On servers without transaction
// support (standalone mongod, common in dev), it falls back to running fn
// without transactional isolation; the not-supported error surfaces before
// any operation in fn has taken effect.
func (m *Mongo) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := m.client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			m.warnNoTxn(err)
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	}, txnOpts)
	if err != nil && IsNotSupported(err) {
		m.warnNoTxn(err)
		return fn(ctx)
	}
	return err
}

func (m *Mongo) warnNoTxn(err error) {
	if m.log != nil {
		m.log.Warn("mongodb transactions unsupported; running without transactional isolation",
			zap.Error(err))
	}
}

// Server error codes that indicate the deployment cannot run transactions
// (standalone server, or an operation illegal inside a transaction).
const (
	codeIllegalOperation    = 20
	codeCommandNotSupported = 51
	codeOperationNotInTxn   = 263
)

// IsNotSupported reports whether err indicates the server cannot run
// multi-document transactions (as opposed to a transient failure worth
// retrying or a real application error).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		switch cmdErr.Code {
		case codeIllegalOperation, codeCommandNotSupported, codeOperationNotInTxn:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	hasTxn := strings.Contains(msg, "transaction")
	hasSession := strings.Contains(msg, "session")
	if hasTxn && (strings.Contains(msg, "replica set") || hasSession || strings.Contains(msg, "illegal operation")) {
		return true
	}
	return hasSession && strings.Contains(msg, "not supported")
}
