package services

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"insurance-service/config"
	"insurance-service/pkg/common"
)

var (
	ErrGatewayNotConfigured = errors.New("missing PAYU_KEY or PAYU_SALT")
	ErrMissingPaymentFields = errors.New("missing required fields")
)

const (
	payuTestBaseURL = "https://test.payu.in"
	payuLiveBaseURL = "https://secure.payu.in"
)

// PayUService wraps the gateway's initiate and verify calls and owns
// the request-hash computation.
type PayUService struct {
	Key  string
	Salt string
	Mode string

	// BaseURL overrides the mode-derived gateway address when set.
	BaseURL string
}

func NewPayUService(cfg *config.Config) *PayUService {
	return &PayUService{
		Key:  cfg.PayUKey,
		Salt: cfg.PayUSalt,
		Mode: cfg.PayUMode,
	}
}

func (s *PayUService) baseURL() string {
	if s.BaseURL != "" {
		return s.BaseURL
	}
	if strings.EqualFold(s.Mode, "LIVE") {
		return payuLiveBaseURL
	}
	return payuTestBaseURL
}

// BuildHash computes the request signature the gateway expects: a
// sha512 hex digest over the pipe-joined field sequence
// key|txnid|amount|productinfo|firstname|email|udf1..udf5|udf6..udf10|salt,
// where every udf except udf5 is empty. Field order and placeholder
// count are part of the gateway contract and must not change.
func (s *PayUService) BuildHash(txnid, amount, productinfo, firstname, email, udf5 string) string {
	parts := []string{
		s.Key, txnid, amount, productinfo, firstname, email,
		"", "", "", "", // udf1..udf4
		udf5,
		"", "", "", "", "", // udf6..udf10
		s.Salt,
	}
	sum := sha512.Sum512([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// commandHash signs server-to-server API commands (verify_payment).
func (s *PayUService) commandHash(command, var1 string) string {
	sum := sha512.Sum512([]byte(strings.Join([]string{s.Key, command, var1, s.Salt}, "|")))
	return hex.EncodeToString(sum[:])
}

type InitiatePaymentRequest struct {
	TxnID       string `json:"txnid"`
	Amount      string `json:"amount"`
	ProductInfo string `json:"productinfo"`
	FirstName   string `json:"firstname"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Udf5        string `json:"udf5"`

	// CallbackURL is used for both the success and failure redirect.
	CallbackURL string `json:"-"`
}

// Initiate validates the request, signs it and posts the payment form
// to the gateway. The raw gateway response is returned to the caller.
func (s *PayUService) Initiate(req InitiatePaymentRequest) (interface{}, error) {
	if s.Key == "" || s.Salt == "" {
		return nil, ErrGatewayNotConfigured
	}
	if req.TxnID == "" || req.Amount == "" || req.ProductInfo == "" ||
		req.FirstName == "" || req.Email == "" || req.Phone == "" {
		return nil, ErrMissingPaymentFields
	}

	form := url.Values{}
	form.Set("key", s.Key)
	form.Set("txnid", req.TxnID)
	form.Set("amount", req.Amount)
	form.Set("currency", "QAR")
	form.Set("productinfo", req.ProductInfo)
	form.Set("firstname", req.FirstName)
	form.Set("email", req.Email)
	form.Set("phone", req.Phone)
	form.Set("udf5", req.Udf5)
	form.Set("surl", req.CallbackURL)
	form.Set("furl", req.CallbackURL)
	form.Set("hash", s.BuildHash(req.TxnID, req.Amount, req.ProductInfo, req.FirstName, req.Email, req.Udf5))

	resp, err := common.PostForm(s.baseURL()+"/_payment", form)
	if err != nil {
		return nil, fmt.Errorf("initiate payment failed: %w", err)
	}
	return resp, nil
}

// Verify polls the gateway for a transaction's current status and
// returns its per-transaction status object, or nil when the gateway
// has no record of the id.
func (s *PayUService) Verify(txnid string) (map[string]interface{}, error) {
	if s.Key == "" || s.Salt == "" {
		return nil, ErrGatewayNotConfigured
	}

	form := url.Values{}
	form.Set("key", s.Key)
	form.Set("command", "verify_payment")
	form.Set("var1", txnid)
	form.Set("hash", s.commandHash("verify_payment", txnid))

	resp, err := common.PostForm(s.baseURL()+"/merchant/postservice?form=2", form)
	if err != nil {
		return nil, fmt.Errorf("verify payment failed: %w", err)
	}

	respMap, ok := resp.(map[string]interface{})
	if !ok {
		return nil, nil
	}
	details, ok := respMap["transaction_details"].(map[string]interface{})
	if !ok {
		return nil, nil
	}
	statusObj, ok := details[txnid].(map[string]interface{})
	if !ok {
		return nil, nil
	}
	return statusObj, nil
}
