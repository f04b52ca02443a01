package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurance-service/internal/models"
)

func TestSubmitEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, "")

	body := map[string]interface{}{
		"planType":      "basic",
		"mobileNumber":  "555",
		"transactionId": "T1",
		"amount":        "100.00",
		"currency":      "QAR",
		"email":         "a@x.com",
		"status":        "INITIATED",
		"members": []map[string]string{
			{"role": "self", "name": "A", "gender": "M", "dob": "1990-01-01"},
		},
	}
	payload, _ := json.Marshal(body)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/insurance/submit", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Message string `json:"message"`
		Data    struct {
			ID            uint            `json:"id"`
			UserID        uint            `json:"user_id"`
			TransactionID string          `json:"transaction_id"`
			Members       []models.Member `json:"members"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Insurance submitted successfully", resp.Message)
	assert.Equal(t, "T1", resp.Data.TransactionID)
	assert.NotZero(t, resp.Data.UserID)
	assert.Len(t, resp.Data.Members, 1)
}

func TestSubmitEndpointRejectsMissingFields(t *testing.T) {
	r, _ := newTestRouter(t, "")

	payload := []byte(`{"planType":"basic","members":[]}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/insurance/submit", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStatusEndpoint(t *testing.T) {
	r, db := newTestRouter(t, "")
	submitTransaction(t, db, "T1")

	payload := []byte(`{"transactionId":"T1","status":"SUCCESS","mihpayid":"M1"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/insurance/update-status", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var row models.InsuranceTransaction
	require.NoError(t, db.Where("transaction_id = ?", "T1").First(&row).Error)
	assert.Equal(t, models.StatusSuccess, row.Status)

	// Repeat with the same status: still 200, data is null.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/insurance/update-status", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp["data"])
}

func TestUpdateStatusEndpointNotFound(t *testing.T) {
	r, _ := newTestRouter(t, "")

	payload := []byte(`{"transactionId":"NOPE","status":"SUCCESS"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/insurance/update-status", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetByMobileEndpoint(t *testing.T) {
	r, db := newTestRouter(t, "")
	submitTransaction(t, db, "T1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/insurance/user/555", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		MobileNumber   string                   `json:"mobileNumber"`
		InsurancePlans []map[string]interface{} `json:"insurancePlans"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "555", resp.MobileNumber)
	assert.Len(t, resp.InsurancePlans, 1)
}

func TestGetAllEndpoint(t *testing.T) {
	r, db := newTestRouter(t, "")
	submitTransaction(t, db, "T1")
	submitTransaction(t, db, "T2")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/insurance/all", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "T2", resp[0]["transaction_id"])
}
