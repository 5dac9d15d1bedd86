//go:build integration

package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/Eursukkul/regdesk/internal/models"
	"github.com/Eursukkul/regdesk/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var testDB *gorm.DB

var tables = []string{"activity_logs", "registrations", "custom_form_fields", "events", "profiles"}

func TestMain(m *testing.M) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("TEST_DB_HOST", "localhost"),
		getEnv("TEST_DB_PORT", "5434"),
		getEnv("TEST_DB_USER", "postgres"),
		getEnv("TEST_DB_PASSWORD", "postgres"),
		getEnv("TEST_DB_NAME", "regdesk_test_db"),
	)

	var err error
	testDB, err = database.NewPostgresDB(dsn)
	if err != nil {
		log.Fatalf("failed to connect to test database: %v", err)
	}

	dropTables()
	if err := database.Migrate(testDB); err != nil {
		log.Fatalf("failed to migrate test database: %v", err)
	}

	code := m.Run()

	dropTables()
	os.Exit(code)
}

func dropTables() {
	for _, t := range tables {
		testDB.Exec("DROP TABLE IF EXISTS " + t + " CASCADE")
	}
}

func cleanTables() {
	for _, t := range tables {
		testDB.Exec("DELETE FROM " + t)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func seedEvent(t *testing.T, mutate ...func(*models.Event)) *models.Event {
	t.Helper()
	e := &models.Event{
		ID:          uuid.NewString(),
		OrganizerID: uuid.NewString(),
		Title:       "Gala",
		Status:      models.EventPublished,
	}
	for _, fn := range mutate {
		fn(e)
	}
	if err := NewEventRepository(testDB).Create(context.Background(), e); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return e
}

var regSeq int

func seedRegistration(t *testing.T, eventID string, mutate ...func(*models.Registration)) *models.Registration {
	t.Helper()
	regSeq++
	r := &models.Registration{
		ID:                 uuid.NewString(),
		EventID:            eventID,
		Name:               fmt.Sprintf("Guest %d", regSeq),
		Status:             models.RegistrationPending,
		RegistrationNumber: fmt.Sprintf("REG-T%d", regSeq),
		CreatedAt:          time.Now().UTC().Add(time.Duration(regSeq) * time.Millisecond),
	}
	for _, fn := range mutate {
		fn(r)
	}
	if err := NewRegistrationRepository(testDB).Create(context.Background(), r); err != nil {
		t.Fatalf("seed registration: %v", err)
	}
	return r
}

func ptr[T any](v T) *T { return &v }
