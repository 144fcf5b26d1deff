package tripstore

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelcost/engine/internal/database"
	"github.com/travelcost/engine/internal/travel/types"
)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(&database.Pool{DB: db}), mock
}

func TestSave_UpsertsByRequestID(t *testing.T) {
	store, mock := newTestStore(t)
	resp := &types.TravelResponse{TotalCost: 500, PerPersonCost: 250}

	mock.ExpectExec("INSERT INTO trip_estimates").
		WithArgs("req-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Save(context.Background(), "req-1", resp)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_ReturnsNilWhenMissing(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("SELECT response FROM trip_estimates").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	resp, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestGet_RoundTripsSavedResponse(t *testing.T) {
	store, mock := newTestStore(t)
	body := []byte(`{"total_cost":500,"per_person_cost":250,"warnings":[]}`)

	mock.ExpectQuery("SELECT response FROM trip_estimates").
		WithArgs("req-1").
		WillReturnRows(sqlmock.NewRows([]string{"response"}).AddRow(body))

	resp, err := store.Get(context.Background(), "req-1")
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 500.0, resp.TotalCost)
}
