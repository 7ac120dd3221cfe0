// Package metricscache реализует внутрипроцессный кеш снимка метрик.
//
// Кеш состоит из одного слота (данные, момент записи, TTL) и живёт в памяти
// экземпляра сервера: при рестарте теряется, между репликами не разделяется.
// Запись целиком заменяет слот, поэтому гонка двух промахов безопасна —
// пересчёт идемпотентен, побеждает последняя запись.
package metricscache

import (
	"sync"
	"time"

	"github.com/radiocomunidad/radio-community/internal/models"
)

// DefaultTTL время жизни слота по умолчанию.
const DefaultTTL = 2 * time.Minute

// Cache единственный слот со снимком метрик.
type Cache struct {
	mu        sync.Mutex
	data      *models.MetricsSnapshot
	writtenAt time.Time
	ttl       time.Duration
}

// New создает кеш с указанным TTL; при нулевом значении берется DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{ttl: ttl}
}

// Read возвращает снимок и его возраст в секундах, если слот записан
// и ещё не истёк. Просроченный или пустой слот — промах.
func (c *Cache) Read() (*models.MetricsSnapshot, int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.data == nil {
		return nil, 0, false
	}
	age := time.Since(c.writtenAt)
	if age >= c.ttl {
		return nil, 0, false
	}
	snapshot := *c.data
	return &snapshot, int(age.Seconds()), true
}

// Write безусловно заменяет слот новым снимком и сбрасывает отметку времени.
func (c *Cache) Write(data *models.MetricsSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := *data
	c.data = &snapshot
	c.writtenAt = time.Now()
}

// Invalidate немедленно очищает слот: следующий Read гарантированно промахнётся.
// Вызывается синхронно после любой записи в таблицы платежей и взносов.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = nil
}
