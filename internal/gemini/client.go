// Package gemini talks to the two external interpretation services backed by
// the Gemini API: receipt image extraction and free-text command
// interpretation.
//
// Everything that comes back is untrusted. Responses are decoded and
// sanity-checked here, then handed to the caller as a proposal for the merge
// gate; this package never touches session state itself.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/splitbills/splitbills/internal/models"
	"github.com/splitbills/splitbills/pkg/metrics"
)

// DefaultModel is the model both services use unless configured otherwise.
const DefaultModel = "gemini-3-pro-preview"

// CommandResult is the interpretation service's answer to a free-text
// instruction. UpdatedReceipt is nil when the instruction was a question or
// no-op; only Message is surfaced then.
type CommandResult struct {
	Message        string
	UpdatedReceipt *models.Receipt
}

// Client calls Gemini for receipt extraction and command interpretation.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini-backed assistant client. The API key is
// required; a missing key is a startup-time configuration error, not
// something to discover on the first upload.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

const receiptPrompt = `Analyze this receipt image. Extract all line items with their prices.
Also extract the subtotal, tax, and total. If a tip is written or included, extract it (default to 0 if not found).
Return the data in a strict JSON format matching the schema.
Assign a unique 'id' to each item (e.g., '1', '2', '3').`

// ParseReceipt sends raw image bytes to the extraction service and returns
// the initial receipt. Every item's assignee list starts empty; the service
// never decides who had what.
func (c *Client) ParseReceipt(ctx context.Context, image []byte, mimeType string) (*models.Receipt, error) {
	start := time.Now()
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(receiptPrompt),
		}, genai.RoleUser),
	}

	raw, err := c.generate(ctx, contents, receiptSchema)
	metrics.RecordAssistantCall("parse_receipt", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	receipt, err := decodeReceipt(raw)
	if err != nil {
		slog.Error("extraction output rejected", "error", err, "raw_bytes", len(raw))
		return nil, err
	}
	slog.Info("receipt extracted",
		"items", len(receipt.Items),
		"subtotal", receipt.Subtotal,
		"total", receipt.Total,
		"currency", receipt.Currency,
	)
	return receipt, nil
}

const commandPromptFormat = `You are a helpful bill-splitting assistant.

Context - Attendees at the table:
%s

Current Receipt State:
%s

User Message:
%q

Instructions:
1. Interpret the user's message to assign items to people from the attendees list.
2. Update the 'assignedTo' array for the relevant items in the receipt.
3. If a user says "Tom had the burger", add "Tom" to the burger's assignedTo list.
   (Match "Tom" to the closest name in the attendees list if possible.)
4. If multiple people shared an item (e.g., "Tom and Jerry shared the fries"), add both names.
5. If the user asks a question about the bill, just answer it in the 'message' field and return the receipt unchanged.
6. If the user explicitly sets a tip (e.g., "Add $10 tip" or "20%% tip"), update the 'tip' field.
7. Return a JSON object with a 'message' (response to user) and 'updatedReceipt' (the full updated state).
8. Be smart about matching item names (fuzzy match).`

// InterpretCommand sends the current receipt, the roster, and one free-text
// instruction to the interpretation service. The returned receipt, if any,
// is a whole-snapshot proposal for the merge gate; fuzzy name matching
// happens on the service side, exact roster validation on ours.
func (c *Client) InterpretCommand(ctx context.Context, receipt *models.Receipt, attendees []string, text string) (*CommandResult, error) {
	attendeesJSON, err := json.Marshal(attendees)
	if err != nil {
		return nil, fmt.Errorf("marshal attendees: %w", err)
	}
	receiptJSON, err := json.MarshalIndent(receipt, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal receipt: %w", err)
	}

	prompt := fmt.Sprintf(commandPromptFormat, attendeesJSON, receiptJSON, text)
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	start := time.Now()
	raw, err := c.generate(ctx, contents, commandSchema)
	metrics.RecordAssistantCall("interpret_command", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	result, err := decodeCommand(raw)
	if err != nil {
		slog.Error("interpretation output rejected", "error", err, "raw_bytes", len(raw))
		return nil, err
	}
	slog.Info("command interpreted",
		"has_update", result.UpdatedReceipt != nil,
		"reply_len", len(result.Message),
	)
	return result, nil
}

// generate runs one schema-constrained JSON generation and returns the raw
// response text.
func (c *Client) generate(ctx context.Context, contents []*genai.Content, schema *genai.Schema) ([]byte, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	return []byte(text), nil
}
