package services

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"insurance-service/internal/models"
)

// newTestDB opens a per-test in-memory database so tests stay isolated
// and need no running MySQL instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.InsuranceTransaction{},
		&models.Member{},
		&models.CallbackLog{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func basicSubmission(txnID, mobile string) SubmitRequest {
	return SubmitRequest{
		PlanType:      "basic",
		MobileNumber:  mobile,
		TransactionID: txnID,
		Amount:        "100.00",
		Currency:      "QAR",
		Email:         "a@x.com",
		Status:        "INITIATED",
		Members: []MemberInput{
			{Role: "self", Name: "A", Gender: "M", Dob: "1990-01-01"},
		},
	}
}

func strptr(s string) *string {
	return &s
}
