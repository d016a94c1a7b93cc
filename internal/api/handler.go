package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/eshaham/shufersal-receipts/internal/models"
	"github.com/eshaham/shufersal-receipts/internal/parser"
	"github.com/eshaham/shufersal-receipts/internal/promotion"
	"github.com/eshaham/shufersal-receipts/internal/writer"
)

const version = "1.0.0"

// ParseResponse is the JSON response from the /api/parse endpoint.
type ParseResponse struct {
	Success   bool                   `json:"success"`
	RequestID string                 `json:"requestId"`
	Error     string                 `json:"error,omitempty"`
	Receipt   *models.ReceiptDetails `json:"receipt,omitempty"`
	Warnings  []string               `json:"warnings,omitempty"`
	CSV       string                 `json:"csv,omitempty"`
	ItemCount int                    `json:"itemCount"`
	Version   string                 `json:"version,omitempty"`
}

// PromotionRequest is the JSON body for the /api/promotion endpoint.
type PromotionRequest struct {
	PromotionCode    string  `json:"promotionCode"`
	PromotionMessage string  `json:"promotionMessage"`
	CouponCode       string  `json:"couponCode"`
	BasePrice        float64 `json:"basePrice"`
	ActualPrice      float64 `json:"actualPrice"`
	Quantity         int     `json:"quantity"`
}

// PromotionResponse is the JSON response from the /api/promotion endpoint.
type PromotionResponse struct {
	Success   bool                  `json:"success"`
	RequestID string                `json:"requestId"`
	Error     string                `json:"error,omitempty"`
	Promotion *models.PromotionInfo `json:"promotion,omitempty"`
}

// RegisterRoutes sets up the API routes on the app.
func RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", HandleHealth)
	app.Post("/api/parse", HandleParse)
	app.Post("/api/promotion", HandlePromotion)
}

// HandleHealth reports service liveness.
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": version,
	})
}

// HandleParse parses an uploaded receipt text dump. The receipt comes in
// either as a multipart file upload (field "file") or as a raw form value
// (field "text").
func HandleParse(c *fiber.Ctx) error {
	requestID := uuid.NewString()

	text := c.FormValue("text")
	if text == "" {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return writeParseError(c, requestID, fiber.StatusBadRequest,
				"no receipt provided; use form field 'file' or 'text'")
		}
		f, err := fileHeader.Open()
		if err != nil {
			return writeParseError(c, requestID, fiber.StatusBadRequest,
				fmt.Sprintf("failed to open upload: %v", err))
		}
		defer f.Close()
		body, err := io.ReadAll(f)
		if err != nil {
			return writeParseError(c, requestID, fiber.StatusInternalServerError,
				fmt.Sprintf("failed to read upload: %v", err))
		}
		text = string(body)
	}

	if !parser.IsDeliveryNote(text) {
		return writeParseError(c, requestID, fiber.StatusUnprocessableEntity,
			"input does not look like a delivery document")
	}

	receipt, err := parser.ParseReceipt(text)
	if err != nil {
		status := fiber.StatusUnprocessableEntity
		if errors.Is(err, parser.ErrMissingSection) || errors.Is(err, parser.ErrNoItemsFound) {
			status = fiber.StatusBadRequest
		}
		return writeParseError(c, requestID, status, err.Error())
	}

	resp := ParseResponse{
		Success:   true,
		RequestID: requestID,
		Receipt:   receipt,
		ItemCount: len(receipt.Items),
		Version:   version,
	}

	// Cross-check failures are reported but do not fail the request:
	// the receipt itself parsed cleanly.
	if err := receipt.Validate(); err != nil {
		resp.Warnings = append(resp.Warnings, err.Error())
	}

	if c.FormValue("csv") == "true" {
		var buf bytes.Buffer
		w := &writer.CSVWriter{IncludeHeader: true}
		if err := w.Write(&buf, receipt); err != nil {
			return writeParseError(c, requestID, fiber.StatusInternalServerError,
				fmt.Sprintf("CSV generation failed: %v", err))
		}
		resp.CSV = buf.String()
	}

	return c.JSON(resp)
}

// HandlePromotion classifies one promotion message.
func HandlePromotion(c *fiber.Ctx) error {
	requestID := uuid.NewString()

	var req PromotionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(PromotionResponse{
			Success:   false,
			RequestID: requestID,
			Error:     fmt.Sprintf("invalid request body: %v", err),
		})
	}

	info := promotion.ExtractInfo(models.PromotionOrderEntry{
		PromotionCode:    req.PromotionCode,
		PromotionMessage: req.PromotionMessage,
		CouponCode:       req.CouponCode,
	}, req.BasePrice, req.ActualPrice, req.Quantity)

	return c.JSON(PromotionResponse{
		Success:   true,
		RequestID: requestID,
		Promotion: &info,
	})
}

func writeParseError(c *fiber.Ctx, requestID string, status int, msg string) error {
	return c.Status(status).JSON(ParseResponse{
		Success:   false,
		RequestID: requestID,
		Error:     msg,
	})
}
