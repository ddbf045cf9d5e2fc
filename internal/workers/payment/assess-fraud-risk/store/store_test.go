package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketplace-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAssessment() models.FraudAssessment {
	return models.FraudAssessment{
		ID:        "asm-1",
		RequestID: "req-1",
		UserID:    "user-1",
		RiskScore: 30,
		RiskLevel: "medium",
		Flags:     []string{"first order with high amount", "no email registered"},
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestAssessmentStore_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	a := sampleAssessment()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO fraud_assessments").
		WithArgs(a.ID, a.RequestID, a.UserID, a.RiskScore, a.RiskLevel, sqlmock.AnyArg(), a.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE service_requests").
		WithArgs(a.RequestID, a.RiskScore, false, models.RequestStatusFlagged).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewAssessmentStore(db).Save(context.Background(), a, false))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentStore_SaveRollsBackOnInsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO fraud_assessments").WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	err = NewAssessmentStore(db).Save(context.Background(), sampleAssessment(), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate key")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func expectRecord(mock redismock.ClientMock, key string, window time.Duration, count int64) {
	mock.ExpectTxPipeline()
	mock.ExpectIncr(key).SetVal(count)
	mock.ExpectExpireNX(key, window).SetVal(count == 1)
	mock.ExpectTxPipelineExec()
}

func TestAttemptCounter_FirstAttemptSetsWindow(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	expectRecord(mock, AttemptKey("user-1"), 24*time.Hour, 1)

	prior, err := NewAttemptCounter(rdb, 24*time.Hour).Record(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, prior)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttemptCounter_LaterAttemptReturnsPriorCount(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	expectRecord(mock, AttemptKey("user-1"), 24*time.Hour, 5)

	prior, err := NewAttemptCounter(rdb, 24*time.Hour).Record(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 4, prior)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttemptCounter_RetryAfterFailedExpireStillSetsWindow(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	key := AttemptKey("user-1")
	counter := NewAttemptCounter(rdb, time.Hour)

	mock.ExpectTxPipeline()
	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpireNX(key, time.Hour).SetErr(errors.New("connection reset"))

	_, err := counter.Record(context.Background(), "user-1")
	require.Error(t, err)

	expectRecord(mock, key, time.Hour, 2)

	prior, err := counter.Record(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, prior)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttemptCounter_RepairsKeyWithoutTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	key := AttemptKey("user-1")
	require.NoError(t, mr.Set(key, "1"))
	require.Zero(t, mr.TTL(key))

	counter := NewAttemptCounter(rdb, time.Hour)
	for i := 0; i < 5; i++ {
		_, err := counter.Record(context.Background(), "user-1")
		require.NoError(t, err)
	}
	assert.Equal(t, time.Hour, mr.TTL(key))

	mr.FastForward(48 * time.Hour)

	prior, err := counter.Record(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, prior)
	assert.Equal(t, time.Hour, mr.TTL(key))
}

func TestAttemptCounter_WindowNotExtendedByLaterAttempts(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	counter := NewAttemptCounter(rdb, time.Hour)
	_, err := counter.Record(context.Background(), "user-1")
	require.NoError(t, err)

	mr.FastForward(40 * time.Minute)
	prior, err := counter.Record(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, prior)
	assert.Equal(t, 20*time.Minute, mr.TTL(AttemptKey("user-1")))
}

func TestAttemptCounter_RedisError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectTxPipeline()
	mock.ExpectIncr(AttemptKey("user-1")).SetErr(errors.New("READONLY"))

	_, err := NewAttemptCounter(rdb, time.Hour).Record(context.Background(), "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "READONLY")
}
