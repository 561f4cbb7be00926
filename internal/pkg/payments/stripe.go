package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ManuelReschke/PixelMarket/internal/pkg/env"
)

const defaultStripeAPIBaseURL = "https://api.stripe.com/v1"

// StripeClient talks to the payment provider's REST API directly.
type StripeClient struct {
	SecretKey  string
	APIBaseURL string

	HTTPClient *http.Client
}

func NewStripeClientFromEnv() *StripeClient {
	return &StripeClient{
		SecretKey:  strings.TrimSpace(env.GetEnv("STRIPE_SECRET_KEY", "")),
		APIBaseURL: strings.TrimRight(env.GetEnv("STRIPE_API_BASE_URL", defaultStripeAPIBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateCheckoutSession creates a hosted one-time-payment session for a
// listing. All identifiers ride along as metadata and come back verbatim on
// the completion webhook.
func (c *StripeClient) CreateCheckoutSession(ctx context.Context, in CheckoutInput) (*CheckoutSession, error) {
	if strings.TrimSpace(c.SecretKey) == "" {
		return nil, errors.New("STRIPE_SECRET_KEY is not configured")
	}
	if in.AmountCents <= 0 {
		return nil, errors.New("amount must be positive")
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", in.SuccessURL)
	form.Set("cancel_url", in.CancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", strings.ToLower(in.Currency))
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(in.AmountCents, 10))
	form.Set("line_items[0][price_data][product_data][name]", in.ProductName)
	form.Set("metadata[listing_id]", strconv.FormatUint(uint64(in.ListingID), 10))
	form.Set("metadata[buyer_id]", strconv.FormatUint(uint64(in.BuyerID), 10))
	form.Set("metadata[seller_id]", strconv.FormatUint(uint64(in.SellerID), 10))
	form.Set("metadata[commission_cents]", strconv.FormatInt(in.CommissionCents, 10))

	return c.postCheckoutSession(ctx, form)
}

// CreateSubscriptionSession creates a hosted checkout in subscription mode.
func (c *StripeClient) CreateSubscriptionSession(ctx context.Context, in SubscriptionCheckoutInput) (*CheckoutSession, error) {
	if strings.TrimSpace(c.SecretKey) == "" {
		return nil, errors.New("STRIPE_SECRET_KEY is not configured")
	}
	if strings.TrimSpace(in.PriceRef) == "" {
		return nil, errors.New("subscription price ref is required")
	}

	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("success_url", in.SuccessURL)
	form.Set("cancel_url", in.CancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price]", in.PriceRef)
	form.Set("metadata[user_id]", strconv.FormatUint(uint64(in.UserID), 10))

	return c.postCheckoutSession(ctx, form)
}

func (c *StripeClient) postCheckoutSession(ctx context.Context, form url.Values) (*CheckoutSession, error) {
	body, err := c.postForm(ctx, "/checkout/sessions", form)
	if err != nil {
		return nil, err
	}

	var session CheckoutSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}
	if session.URL == "" {
		return nil, errors.New("checkout session response carried no url")
	}
	return &session, nil
}

// CreateConnectAccountLink returns the hosted onboarding link for a seller's
// payout account, creating the account first when the seller has none.
func (c *StripeClient) CreateConnectAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (accID string, linkURL string, err error) {
	if strings.TrimSpace(c.SecretKey) == "" {
		return "", "", errors.New("STRIPE_SECRET_KEY is not configured")
	}

	if strings.TrimSpace(accountID) == "" {
		form := url.Values{}
		form.Set("type", "express")
		body, err := c.postForm(ctx, "/accounts", form)
		if err != nil {
			return "", "", err
		}
		var account struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(body, &account); err != nil || account.ID == "" {
			return "", "", errors.New("failed to create payout account")
		}
		accountID = account.ID
	}

	form := url.Values{}
	form.Set("account", accountID)
	form.Set("refresh_url", refreshURL)
	form.Set("return_url", returnURL)
	form.Set("type", "account_onboarding")
	body, err := c.postForm(ctx, "/account_links", form)
	if err != nil {
		return "", "", err
	}

	var link struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &link); err != nil || link.URL == "" {
		return "", "", errors.New("failed to create onboarding link")
	}
	return accountID, link.URL, nil
}

// CancelSubscriptionAtPeriodEnd flags the provider subscription to stop
// renewing. The state change is mirrored locally via the next webhook too.
func (c *StripeClient) CancelSubscriptionAtPeriodEnd(ctx context.Context, providerSubscriptionID string) error {
	if strings.TrimSpace(c.SecretKey) == "" {
		return errors.New("STRIPE_SECRET_KEY is not configured")
	}
	if strings.TrimSpace(providerSubscriptionID) == "" {
		return errors.New("subscription id is required")
	}

	form := url.Values{}
	form.Set("cancel_at_period_end", "true")
	_, err := c.postForm(ctx, "/subscriptions/"+url.PathEscape(providerSubscriptionID), form)
	return err
}

func (c *StripeClient) postForm(ctx context.Context, path string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIBaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
