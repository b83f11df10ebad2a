package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/flexprice/gstbill/internal/config"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/httpclient"
	"github.com/flexprice/gstbill/internal/logger"
	"github.com/shopspring/decimal"
)

// Order is the subset of a Razorpay order the service keeps
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type createOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Gateway creates orders and verifies checkout signatures
type Gateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string, notes map[string]string) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}

type client struct {
	http      httpclient.Client
	baseURL   string
	keyID     string
	keySecret string
	logger    *logger.Logger
}

func NewClient(cfg *config.Configuration, log *logger.Logger) Gateway {
	return NewClientWithHTTP(cfg, httpclient.NewDefaultClient(httpclient.ClientConfig{
		Timeout: cfg.Razorpay.Timeout(),
	}, log), log)
}

func NewClientWithHTTP(cfg *config.Configuration, http httpclient.Client, log *logger.Logger) Gateway {
	return &client{
		http:      http,
		baseURL:   strings.TrimRight(cfg.Razorpay.BaseURL, "/"),
		keyID:     cfg.Razorpay.KeyID,
		keySecret: cfg.Razorpay.KeySecret,
		logger:    log,
	}
}

func (c *client) KeyID() string {
	return c.keyID
}

// ToPaise converts a rupee amount to the smallest currency unit
func ToPaise(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func (c *client) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string, notes map[string]string) (*Order, error) {
	if c.keyID == "" || c.keySecret == "" {
		return nil, ierr.NewError("razorpay credentials missing").
			WithHint("Online payments are not configured").
			Mark(ierr.ErrInvalidOperation)
	}
	paise := ToPaise(amount)
	if paise <= 0 {
		return nil, ierr.NewError("order amount must be positive").
			WithHint("Nothing is due on this invoice").
			Mark(ierr.ErrValidation)
	}

	body, err := json.Marshal(createOrderRequest{
		Amount:   paise,
		Currency: currency,
		Receipt:  receipt,
		Notes:    notes,
	})
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}

	resp, err := c.http.Send(ctx, &httpclient.Request{
		Method:    http.MethodPost,
		URL:       c.baseURL + "/v1/orders",
		Body:      body,
		BasicAuth: &httpclient.BasicAuth{Username: c.keyID, Password: c.keySecret},
	})
	if err != nil {
		c.logger.Errorw("razorpay order creation failed", "receipt", receipt, "error", err)
		return nil, ierr.WithError(err).
			WithHint("Could not create payment order, please retry").
			Mark(ierr.ErrHTTPClient)
	}

	var order Order
	if err := json.Unmarshal(resp.Body, &order); err != nil || order.ID == "" {
		return nil, ierr.NewError("unexpected razorpay response").
			WithHint("Could not create payment order, please retry").
			Mark(ierr.ErrHTTPClient)
	}

	c.logger.Infow("created razorpay order", "order_id", order.ID, "receipt", receipt, "amount", order.Amount)
	return &order, nil
}

// VerifySignature checks the checkout signature, an HMAC-SHA256 of
// order_id|payment_id keyed with the key secret
func (c *client) VerifySignature(orderID, paymentID, signature string) bool {
	if c.keySecret == "" || orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	expected := Sign(c.keySecret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// Sign computes the checkout signature for an order and payment
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
