package txn

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/wallcharts/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestIsNotSupported(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("connection reset by peer"), false},
		{mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member or mongos"}, true},
		{mongo.CommandError{Code: 51}, true},
		{mongo.CommandError{Code: 263}, true},
		{mongo.CommandError{Code: 11000, Message: "E11000 duplicate key error"}, false},
		{errors.New("Transaction numbers are only allowed on a REPLICA SET member"), true},
		{errors.New("sessions are not supported by this deployment"), true},
		{errors.New("transaction aborted"), false},
	}
	for _, tt := range tests {
		if got := IsNotSupported(tt.err); got != tt.want {
			t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestRun_CommitsWork(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	coll := db.Collection("units")
	err := Run(ctx, db, zap.NewNop(), func(ctx context.Context) error {
		_, err := coll.InsertOne(ctx, bson.M{"name": "Clerical"})
		return err
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	n, err := coll.CountDocuments(ctx, bson.M{"name": "Clerical"})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestRun_ReturnsWorkError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	boom := errors.New("line 7: storage failure")
	err := Run(ctx, db, nil, func(ctx context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}
