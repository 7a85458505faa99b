package promoflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"bazarBack/internal/models"
)

// Backend is the slice of the promotion API the purchase flow talks to.
type Backend interface {
	GetPublicConfig(ctx context.Context) (PublicConfig, error)
	CreatePromotion(ctx context.Context, req models.PromotionCreateRequest) (CreateResult, error)
	SubmitPaymentProof(ctx context.Context, promotionID int, req models.PaymentProofRequest) (models.Promotion, error)
	UploadImage(ctx context.Context, fileName string, contents []byte) (UploadResult, error)
	TrackClick(ctx context.Context, promotionID int) error
}

type PublicConfig struct {
	Prices          models.PriceTable     `json:"prices"`
	ChainsAvailable []string              `json:"chains_available"`
	Limits          models.ConfigLimits   `json:"limits"`
	Settings        models.ConfigSettings `json:"settings"`
}

// DurationOptions lists the selectable day tiers for a placement.
func (c PublicConfig) DurationOptions(placement string) []models.PriceOption {
	switch placement {
	case models.PlacementHomepage:
		return c.Prices.Homepage
	case models.PlacementCategoryTop:
		return c.Prices.CategoryTop
	}
	return nil
}

type PaymentDetails struct {
	WalletAddress string `json:"wallet_address"`
	QRDataURL     string `json:"qr_data_url"`
}

type CreateResult struct {
	Promotion models.Promotion `json:"promotion"`
	Payment   PaymentDetails   `json:"payment"`
}

type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Client is the HTTP implementation of Backend.
type Client struct {
	BaseURL    string
	AuthToken  string
	HTTPClient *http.Client
}

func NewClient(baseURL, authToken string) *Client {
	return &Client{
		BaseURL:    baseURL,
		AuthToken:  authToken,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AuthToken)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		if env.Message != "" {
			return errors.New(env.Message)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	return c.do(ctx, method, path, body, "application/json", out)
}

func (c *Client) GetPublicConfig(ctx context.Context) (PublicConfig, error) {
	var cfg PublicConfig
	err := c.doJSON(ctx, http.MethodGet, "/config/public", nil, &cfg)
	return cfg, err
}

func (c *Client) CreatePromotion(ctx context.Context, req models.PromotionCreateRequest) (CreateResult, error) {
	var result CreateResult
	err := c.doJSON(ctx, http.MethodPost, "/promotions", req, &result)
	return result, err
}

func (c *Client) SubmitPaymentProof(ctx context.Context, promotionID int, req models.PaymentProofRequest) (models.Promotion, error) {
	var result struct {
		Promotion models.Promotion `json:"promotion"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/promotions/"+strconv.Itoa(promotionID)+"/proof", req, &result)
	return result.Promotion, err
}

func (c *Client) UploadImage(ctx context.Context, fileName string, contents []byte) (UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", fileName)
	if err != nil {
		return UploadResult{}, err
	}
	if _, err := part.Write(contents); err != nil {
		return UploadResult{}, err
	}
	if err := writer.Close(); err != nil {
		return UploadResult{}, err
	}

	var result UploadResult
	err = c.do(ctx, http.MethodPost, "/upload/image", &buf, writer.FormDataContentType(), &result)
	return result, err
}

func (c *Client) TrackClick(ctx context.Context, promotionID int) error {
	return c.do(ctx, http.MethodPost, "/promotions/"+strconv.Itoa(promotionID)+"/click", nil, "", nil)
}

func (c *Client) ActiveTopForCategory(ctx context.Context, category string) ([]models.Promotion, error) {
	var promotions []models.Promotion
	err := c.doJSON(ctx, http.MethodGet, "/promotions/top/"+category, nil, &promotions)
	return promotions, err
}

func (c *Client) MyPromotions(ctx context.Context) ([]models.Promotion, error) {
	var promotions []models.Promotion
	err := c.doJSON(ctx, http.MethodGet, "/promotions/my", nil, &promotions)
	return promotions, err
}
