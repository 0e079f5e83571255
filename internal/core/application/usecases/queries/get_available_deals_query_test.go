package queries_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetAvailableDealsQuery(t *testing.T) {
	lat, lng := 26.9124, 75.7873

	t.Run("valid without live position", func(t *testing.T) {
		q, err := queries.NewGetAvailableDealsQuery(kernel.NewUUID(), nil, nil)
		require.NoError(t, err)
		require.NoError(t, q.Validate())
		assert.Nil(t, q.Live())
	})

	t.Run("valid with live position", func(t *testing.T) {
		q, err := queries.NewGetAvailableDealsQuery(kernel.NewUUID(), &lat, &lng)
		require.NoError(t, err)
		require.NotNil(t, q.Live())
		assert.InDelta(t, lat, q.Live().Latitude(), 0.0001)
	})

	t.Run("empty transporter rejected", func(t *testing.T) {
		_, err := queries.NewGetAvailableDealsQuery(kernel.UUID{}, nil, nil)
		require.Error(t, err)
	})

	t.Run("lone latitude rejected", func(t *testing.T) {
		_, err := queries.NewGetAvailableDealsQuery(kernel.NewUUID(), &lat, nil)
		require.Error(t, err)
	})

	t.Run("out of range latitude rejected", func(t *testing.T) {
		badLat := 91.0
		_, err := queries.NewGetAvailableDealsQuery(kernel.NewUUID(), &badLat, &lng)
		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var q queries.GetAvailableDealsQuery
		require.ErrorIs(t, q.Validate(), queries.ErrGetAvailableDealsQueryIsNotConstructed)
	})
}

func TestNewGetTrackingSnapshotQuery(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		q, err := queries.NewGetTrackingSnapshotQuery(kernel.NewUUID(), kernel.NewUUID())
		require.NoError(t, err)
		require.NoError(t, q.Validate())
	})

	t.Run("empty deal rejected", func(t *testing.T) {
		_, err := queries.NewGetTrackingSnapshotQuery(kernel.UUID{}, kernel.NewUUID())
		require.Error(t, err)
	})

	t.Run("empty actor rejected", func(t *testing.T) {
		_, err := queries.NewGetTrackingSnapshotQuery(kernel.NewUUID(), kernel.UUID{})
		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var q queries.GetTrackingSnapshotQuery
		require.ErrorIs(t, q.Validate(), queries.ErrGetTrackingSnapshotQueryIsNotConstructed)
	})
}
