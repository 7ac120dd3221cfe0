package models

import "time"

// Имена метрик в таблице metrics_aggregates. Каждая метрика хранится
// отдельной строкой и перезаписывается на месте при каждом пересчёте.
const (
	MetricTotalUsers            = "total_users"
	MetricActiveUsers           = "active_users"
	MetricMembershipFundsCents  = "membership_funds_cents"
	MetricContributionFundsCents = "contribution_funds_cents"
	MetricTotalFundsCents       = "total_funds_cents"
	MetricActiveProposals       = "active_proposals"
)

// Источники данных снимка метрик.
const (
	SourceAggregated = "aggregated" // прочитано из таблицы агрегатов
	SourceCalculated = "calculated" // пересчитано напрямую из сырых таблиц
)

// MetricsSnapshot снимок агрегированных метрик сообщества.
// Денежные значения хранятся в центах и переводятся в доллары
// только на границе представления.
type MetricsSnapshot struct {
	TotalUsers             int64     `json:"totalUsers"`
	ActiveUsers            int64     `json:"activeUsers"`
	MembershipFundsCents   int64     `json:"-"`
	ContributionFundsCents int64     `json:"-"`
	TotalFundsCents        int64     `json:"-"`
	ActiveProposals        int64     `json:"activeProposals"`
	Source                 string    `json:"source"`
	LastUpdated            time.Time `json:"lastUpdated"`
}

// TotalFunds возвращает собранную сумму в целых долларах для вывода наружу.
func (s *MetricsSnapshot) TotalFunds() int64 {
	return s.TotalFundsCents / 100
}

// NewsItem запись ленты новостей сообщества.
type NewsItem struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	PublishedAt time.Time `json:"publishedAt"`
}
