package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"insurance-service/internal/models"
	"insurance-service/internal/services"
)

type PaymentHandler struct {
	PayU      *services.PayUService
	Reconcile *services.ReconcileService

	// BaseURL is this service's public address; FrontendBaseURL hosts
	// the client screens we redirect to after reconciliation.
	BaseURL         string
	FrontendBaseURL string
}

func NewPaymentHandler(payu *services.PayUService, reconcile *services.ReconcileService, baseURL, frontendBaseURL string) *PaymentHandler {
	return &PaymentHandler{
		PayU:            payu,
		Reconcile:       reconcile,
		BaseURL:         baseURL,
		FrontendBaseURL: frontendBaseURL,
	}
}

func (h *PaymentHandler) Initiate(c *gin.Context) {
	var req services.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	req.CallbackURL = fmt.Sprintf("%s/api/payu/verify/%s", h.BaseURL, url.PathEscape(req.TxnID))

	resp, err := h.PayU.Initiate(req)
	if err != nil {
		if errors.Is(err, services.ErrGatewayNotConfigured) || errors.Is(err, services.ErrMissingPaymentFields) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Initiate payment error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "initiate_payment_failed"})
		return
	}

	// The gateway answers the initiation call with an HTML checkout
	// page to hand to the client as-is.
	if page, ok := resp.(string); ok {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Verify is both the gateway's callback target (POST with a form body)
// and the client's polling endpoint (GET). Both paths converge on the
// same reconciliation and always answer with an interstitial page that
// forwards to a terminal client screen, whatever the update did.
func (h *PaymentHandler) Verify(c *gin.Context) {
	txnID := c.Param("id")

	var outcome services.Outcome
	if c.Request.Method == http.MethodPost && c.PostForm("status") != "" {
		outcome = h.Reconcile.ReconcileCallback(txnID, postFormMap(c))
	} else {
		outcome = h.Reconcile.ReconcilePoll(txnID)
	}

	var target string
	switch {
	case outcome.Status == models.StatusSuccess:
		target = fmt.Sprintf("%s/PaymentSuccessfulScreen?txnid=%s", h.FrontendBaseURL, url.QueryEscape(txnID))
	case outcome.Cancelled:
		target = fmt.Sprintf("%s/PayUPayments", h.FrontendBaseURL)
	default:
		target = fmt.Sprintf("%s/PaymentFailedScreen?status=%s", h.FrontendBaseURL, url.QueryEscape(outcome.RawStatus))
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(loadingPage(target)))
}

// Redirect serves the gateway's return page and forwards the browser to
// the verification endpoint.
func (h *PaymentHandler) Redirect(c *gin.Context) {
	txnID := c.Param("id")
	target := fmt.Sprintf("%s/api/payu/verify/%s", h.BaseURL, url.PathEscape(txnID))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(loadingPage(target)))
}

func postFormMap(c *gin.Context) map[string]string {
	if err := c.Request.ParseForm(); err != nil {
		return map[string]string{}
	}
	params := make(map[string]string, len(c.Request.PostForm))
	for k, v := range c.Request.PostForm {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	return params
}

// loadingPage renders the interstitial shown while the browser is
// forwarded, so the user never sees a blank screen mid-flow.
func loadingPage(redirectURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Processing Payment</title>
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
      background: white;
      min-height: 100vh;
      display: flex;
      justify-content: center;
      align-items: center;
    }
    .container { text-align: center; max-width: 400px; width: 90%%; padding: 40px 20px; }
    .spinner {
      width: 50px;
      height: 50px;
      border: 5px solid #f3f3f3;
      border-top: 5px solid #FFCB08;
      border-radius: 50%%;
      animation: spin 1s linear infinite;
      margin: 0 auto 20px;
    }
    @keyframes spin { 0%% { transform: rotate(0deg); } 100%% { transform: rotate(360deg); } }
    .title { font-size: 24px; color: #333; margin-bottom: 10px; font-weight: 600; }
    .message { font-size: 16px; color: #666; margin-bottom: 20px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="spinner"></div>
    <div class="title">Processing Payment</div>
    <div class="message">Please wait while we verify your transaction...</div>
  </div>
  <script>
    setTimeout(function() { window.location.href = %q; }, 2000);
    history.pushState(null, null, location.href);
    window.onpopstate = function () { history.go(1); };
  </script>
</body>
</html>`, redirectURL)
}
