package queries_test

import (
	"testing"
	"time"

	"kopikurir/internal/core/application/usecases/queries"
	"kopikurir/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetOrderTrackingQuery(t *testing.T) {
	orderID := kernel.NewUUID()

	query, err := queries.NewGetOrderTrackingQuery(orderID)

	require.NoError(t, err)
	assert.Equal(t, orderID, query.OrderID())
	assert.NoError(t, query.Validate())
}

func TestNewGetOrderTrackingQuery_EmptyOrderID(t *testing.T) {
	_, err := queries.NewGetOrderTrackingQuery(kernel.UUID{})

	require.Error(t, err)
}

func TestGetOrderTrackingQuery_NotConstructed(t *testing.T) {
	query := queries.GetOrderTrackingQuery{}

	require.ErrorIs(t, query.Validate(), queries.ErrGetOrderTrackingQueryIsNotConstructed)
}

func TestNewGetFleetSnapshotQuery(t *testing.T) {
	query := queries.NewGetFleetSnapshotQuery()

	assert.NoError(t, query.Validate())
}

func TestGetFleetSnapshotQuery_NotConstructed(t *testing.T) {
	query := queries.GetFleetSnapshotQuery{}

	require.ErrorIs(t, query.Validate(), queries.ErrGetFleetSnapshotQueryIsNotConstructed)
}

func TestNewGetWorkerHealthQuery(t *testing.T) {
	query, err := queries.NewGetWorkerHealthQuery("outbound_reliability", 10*time.Minute)

	require.NoError(t, err)
	assert.Equal(t, "outbound_reliability", query.WorkerName())
	assert.Equal(t, 10*time.Minute, query.StaleAfter())
	assert.NoError(t, query.Validate())
}

func TestNewGetWorkerHealthQuery_InvalidInput(t *testing.T) {
	_, err := queries.NewGetWorkerHealthQuery("", 10*time.Minute)
	require.Error(t, err)

	_, err = queries.NewGetWorkerHealthQuery("outbound_reliability", 0)
	require.Error(t, err)
}

func TestGetWorkerHealthQuery_NotConstructed(t *testing.T) {
	query := queries.GetWorkerHealthQuery{}

	require.ErrorIs(t, query.Validate(), queries.ErrGetWorkerHealthQueryIsNotConstructed)
}
