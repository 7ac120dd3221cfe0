package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/radiocomunidad/radio-community/internal/migrations"
	"github.com/radiocomunidad/radio-community/internal/models"
)

// setupTestDatabase поднимает контейнер PostgreSQL, применяет миграции
// проекта и возвращает готовое хранилище.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, nat.Port("5432/tcp"))
	require.NoError(t, err)

	connStr := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath), "failed to run migrations")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if pgContainer != nil {
			_ = pgContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового участника с указанным статусом членства
func (f *TestDataFactory) CreateUser(t *testing.T, name, email, status string) int64 {
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO users
			(name, email, password_hash, membership_status, voting_rights)
		VALUES ($1, $2, 'hashedpassword', $3, $4) RETURNING id`,
		name, email, status, status == models.MembershipActive).Scan(&id)
	require.NoError(t, err)
	return id
}

// SoftDeleteUser помечает тестового участника удалённым
func (f *TestDataFactory) SoftDeleteUser(t *testing.T, userID int64) {
	_, err := f.storage.DB.Exec(`UPDATE users SET deleted_at = NOW() WHERE id = $1`, userID)
	require.NoError(t, err)
}

// CreatePayment создает тестовый членский взнос
func (f *TestDataFactory) CreatePayment(t *testing.T, userID, amountCents int64, status string) {
	_, err := f.storage.DB.Exec(`INSERT INTO membership_payments
			(user_id, amount, payment_method, payment_id, status)
		VALUES ($1, $2, 'mercadopago', 'sim_test', $3)`,
		userID, amountCents, status)
	require.NoError(t, err)
}

// CreateProposal создает тестовое предложение
func (f *TestDataFactory) CreateProposal(t *testing.T, createdBy int64, status string) int64 {
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO proposals
			(title, description, created_by, status)
		VALUES ('Nueva antena', 'Renovar la antena transmisora', $1, $2) RETURNING id`,
		createdBy, status).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateContribution создает тестовый дополнительный взнос
func (f *TestDataFactory) CreateContribution(t *testing.T, proposalID, userID, amountCents int64, status string) {
	_, err := f.storage.DB.Exec(`INSERT INTO contributions
			(proposal_id, user_id, amount, payment_method, payment_id, status)
		VALUES ($1, $2, $3, 'paypal', 'sim_test', $4)`,
		proposalID, userID, amountCents, status)
	require.NoError(t, err)
}
