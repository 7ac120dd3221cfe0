package metricscache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radiocomunidad/radio-community/internal/models"
)

func testSnapshot(totalUsers int64) *models.MetricsSnapshot {
	return &models.MetricsSnapshot{
		TotalUsers:           totalUsers,
		ActiveUsers:          totalUsers,
		MembershipFundsCents: totalUsers * 1800,
		TotalFundsCents:      totalUsers * 1800,
		Source:               models.SourceAggregated,
		LastUpdated:          time.Now().UTC(),
	}
}

func TestCacheReadWrite(t *testing.T) {
	tests := []struct {
		name     string
		ttl      time.Duration
		setup    func(c *Cache)
		wantOK   bool
		wantUser int64
	}{
		{
			name:   "пустой слот - промах",
			ttl:    DefaultTTL,
			setup:  func(_ *Cache) {},
			wantOK: false,
		},
		{
			name:     "попадание после записи",
			ttl:      DefaultTTL,
			setup:    func(c *Cache) { c.Write(testSnapshot(5)) },
			wantOK:   true,
			wantUser: 5,
		},
		{
			name: "просроченный слот - промах",
			ttl:  20 * time.Millisecond,
			setup: func(c *Cache) {
				c.Write(testSnapshot(1))
				time.Sleep(40 * time.Millisecond)
			},
			wantOK: false,
		},
		{
			name: "запись целиком заменяет слот",
			ttl:  DefaultTTL,
			setup: func(c *Cache) {
				c.Write(testSnapshot(1))
				c.Write(testSnapshot(2))
			},
			wantOK:   true,
			wantUser: 2,
		},
		{
			name: "инвалидация очищает слот",
			ttl:  DefaultTTL,
			setup: func(c *Cache) {
				c.Write(testSnapshot(3))
				c.Invalidate()
			},
			wantOK: false,
		},
		{
			name:     "нулевой TTL заменяется значением по умолчанию",
			ttl:      0,
			setup:    func(c *Cache) { c.Write(testSnapshot(4)) },
			wantOK:   true,
			wantUser: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.ttl)
			tt.setup(c)

			snapshot, age, ok := c.Read()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				require.NotNil(t, snapshot)
				assert.Equal(t, tt.wantUser, snapshot.TotalUsers)
				assert.GreaterOrEqual(t, age, 0)
			} else {
				assert.Nil(t, snapshot)
				assert.Zero(t, age)
			}
		})
	}
}

func TestCacheWriteResetsTimestamp(t *testing.T) {
	c := New(50 * time.Millisecond)
	c.Write(testSnapshot(1))

	time.Sleep(30 * time.Millisecond)
	c.Write(testSnapshot(2))
	time.Sleep(30 * time.Millisecond)

	// 60мс после первой записи, но только 30мс после второй
	snapshot, _, ok := c.Read()
	require.True(t, ok)
	assert.Equal(t, int64(2), snapshot.TotalUsers)
}

func TestCacheReadReturnsCopy(t *testing.T) {
	c := New(DefaultTTL)
	c.Write(testSnapshot(7))

	first, _, ok := c.Read()
	require.True(t, ok)
	first.TotalUsers = 999

	second, _, ok := c.Read()
	require.True(t, ok)
	assert.Equal(t, int64(7), second.TotalUsers)
}
