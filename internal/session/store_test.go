package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randytsao24/fuelfinder/internal/models"
)

func TestGetCreatesLazily(t *testing.T) {
	s := NewStore(DefaultTTL)

	assert.Equal(t, 0, s.Len())
	sess := s.Get("driver-1")
	assert.Equal(t, "driver-1", sess.UserID)
	assert.Empty(t, sess.LastStations)
	assert.Equal(t, 1, s.Len())
}

func TestRememberThenGet(t *testing.T) {
	s := NewStore(DefaultTTL)

	stations := []models.RankedStation{{Name: "Plainfield Stop"}}
	s.Remember("driver-1", stations)

	sess := s.Get("driver-1")
	require.Len(t, sess.LastStations, 1)
	assert.Equal(t, "Plainfield Stop", sess.LastStations[0].Name)
}

func TestRememberOverwrites(t *testing.T) {
	s := NewStore(DefaultTTL)

	s.Remember("driver-1", []models.RankedStation{{Name: "old"}, {Name: "older"}})
	s.Remember("driver-1", []models.RankedStation{{Name: "new"}})

	sess := s.Get("driver-1")
	require.Len(t, sess.LastStations, 1)
	assert.Equal(t, "new", sess.LastStations[0].Name)
}

func TestIdleSessionExpires(t *testing.T) {
	s := NewStore(30 * time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }

	s.Remember("driver-1", []models.RankedStation{{Name: "Plainfield Stop"}})

	now = now.Add(31 * time.Minute)
	sess := s.Get("driver-1")
	assert.Empty(t, sess.LastStations, "stations must be cleared after the idle TTL")
}

func TestAccessRefreshesTTL(t *testing.T) {
	s := NewStore(30 * time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }

	s.Remember("driver-1", []models.RankedStation{{Name: "Plainfield Stop"}})

	// Touch the session every 20 minutes; it stays warm past the raw TTL.
	for i := 0; i < 3; i++ {
		now = now.Add(20 * time.Minute)
		sess := s.Get("driver-1")
		require.Len(t, sess.LastStations, 1, "access %d", i)
	}
}

func TestReset(t *testing.T) {
	s := NewStore(DefaultTTL)

	s.Remember("driver-1", []models.RankedStation{{Name: "Plainfield Stop"}})
	assert.True(t, s.Reset("driver-1"))
	assert.False(t, s.Reset("driver-1"), "second reset finds nothing")

	sess := s.Get("driver-1")
	assert.Empty(t, sess.LastStations)
}

func TestSessionsAreIsolated(t *testing.T) {
	s := NewStore(DefaultTTL)

	s.Remember("driver-1", []models.RankedStation{{Name: "Plainfield Stop"}})
	s.Remember("driver-2", []models.RankedStation{{Name: "Gary TA"}})

	assert.Equal(t, "Plainfield Stop", s.Get("driver-1").LastStations[0].Name)
	assert.Equal(t, "Gary TA", s.Get("driver-2").LastStations[0].Name)

	s.Reset("driver-1")
	assert.Len(t, s.Get("driver-2").LastStations, 1)
}

func TestNonPositiveTTLFallsBack(t *testing.T) {
	s := NewStore(0)
	assert.Equal(t, DefaultTTL, s.ttl)
}
