package handlers

import (
	"fmt"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"insurance-service/internal/models"
	"insurance-service/internal/services"
)

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

// newTestRouter wires the full route table against an in-memory store
// and a PayU adapter pointed at gatewayURL.
func newTestRouter(t *testing.T, gatewayURL string) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newTestDB(t)
	insuranceService := services.NewInsuranceService(db)
	payuService := &services.PayUService{Key: "key", Salt: "salt", BaseURL: gatewayURL}
	reconcileService := services.NewReconcileService(db, insuranceService, payuService, nil)

	insuranceHandler := NewInsuranceHandler(insuranceService)
	paymentHandler := NewPaymentHandler(payuService, reconcileService, "http://localhost:3000", "http://localhost:3000")

	r := gin.New()
	r.POST("/api/insurance/submit", insuranceHandler.Submit)
	r.GET("/api/insurance/all", insuranceHandler.GetAll)
	r.GET("/api/insurance/user/:mobileNumber", insuranceHandler.GetByMobile)
	r.POST("/api/insurance/update-status", insuranceHandler.UpdateStatus)
	r.POST("/api/payu/initiate-payment", paymentHandler.Initiate)
	r.GET("/api/payu/verify/:id", paymentHandler.Verify)
	r.POST("/api/payu/verify/:id", paymentHandler.Verify)
	r.GET("/api/payu/redirect/:id", paymentHandler.Redirect)

	return r, db
}

func submitTransaction(t *testing.T, db *gorm.DB, txnID string) {
	t.Helper()
	svc := services.NewInsuranceService(db)
	_, err := svc.Submit(services.SubmitRequest{
		PlanType:      "basic",
		MobileNumber:  "555",
		TransactionID: txnID,
		Amount:        "100.00",
		Currency:      "QAR",
		Email:         "a@x.com",
		Status:        "INITIATED",
		Members: []services.MemberInput{
			{Role: "self", Name: "A", Gender: "M", Dob: "1990-01-01"},
		},
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
}
