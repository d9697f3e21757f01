package gemini

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/splitbills/splitbills/internal/merge"
	"github.com/splitbills/splitbills/internal/models"
)

// receiptSchema constrains extraction responses. Mirrors the wire contract:
// items/subtotal/tax/total/currency required, tip optional.
var receiptSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"items": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id":    {Type: genai.TypeString, Description: "A unique identifier for the item (e.g., item_1)"},
					"name":  {Type: genai.TypeString},
					"price": {Type: genai.TypeNumber},
				},
				Required: []string{"name", "price", "id"},
			},
		},
		"subtotal": {Type: genai.TypeNumber},
		"tax":      {Type: genai.TypeNumber},
		"tip":      {Type: genai.TypeNumber},
		"total":    {Type: genai.TypeNumber},
		"currency": {Type: genai.TypeString, Description: "Currency symbol, e.g., $, €, £"},
	},
	Required: []string{"items", "subtotal", "tax", "total", "currency"},
}

// commandSchema constrains interpretation responses: a conversational
// message, plus optionally the full updated receipt.
var commandSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"message": {Type: genai.TypeString, Description: "A conversational response to the user."},
		"updatedReceipt": {
			Type:        genai.TypeObject,
			Description: "The fully updated receipt object with modified assignments.",
			Properties: map[string]*genai.Schema{
				"items": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"id":    {Type: genai.TypeString},
							"name":  {Type: genai.TypeString},
							"price": {Type: genai.TypeNumber},
							"assignedTo": {
								Type:  genai.TypeArray,
								Items: &genai.Schema{Type: genai.TypeString},
							},
						},
					},
				},
				"subtotal": {Type: genai.TypeNumber},
				"tax":      {Type: genai.TypeNumber},
				"tip":      {Type: genai.TypeNumber},
				"total":    {Type: genai.TypeNumber},
				"currency": {Type: genai.TypeString},
			},
		},
	},
	Required: []string{"message"},
}

// extractedItem is the extraction wire shape: no assignees yet.
type extractedItem struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
}

// extractedReceipt uses pointers for the required fields so absence is
// distinguishable from zero.
type extractedReceipt struct {
	Items    []extractedItem `json:"items"`
	Subtotal *float64        `json:"subtotal"`
	Tax      *float64        `json:"tax"`
	Tip      *float64        `json:"tip"`
	Total    *float64        `json:"total"`
	Currency string          `json:"currency"`
}

// decodeReceipt turns a raw extraction response into the initial receipt.
// Item ids from the service are kept as-is; an item the service forgot to
// id gets a generated one so single-item patches can still target it.
func decodeReceipt(raw []byte) (*models.Receipt, error) {
	var payload extractedReceipt
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if payload.Subtotal == nil || payload.Tax == nil || payload.Total == nil {
		return nil, fmt.Errorf("%w: missing subtotal, tax or total", ErrMalformedOutput)
	}
	if payload.Currency == "" {
		return nil, fmt.Errorf("%w: missing currency", ErrMalformedOutput)
	}
	if len(payload.Items) == 0 {
		return nil, fmt.Errorf("%w: no items", ErrMalformedOutput)
	}

	receipt := &models.Receipt{
		Items:    make([]models.Item, 0, len(payload.Items)),
		Subtotal: *payload.Subtotal,
		Tax:      *payload.Tax,
		Total:    *payload.Total,
		Currency: payload.Currency,
	}
	if payload.Tip != nil {
		receipt.Tip = *payload.Tip
	}
	for _, item := range payload.Items {
		if item.Price == nil {
			return nil, fmt.Errorf("%w: item %q has no price", ErrMalformedOutput, item.Name)
		}
		id := item.ID
		if id == "" {
			id = uuid.NewString()
		}
		receipt.Items = append(receipt.Items, models.Item{
			ID:    id,
			Name:  item.Name,
			Price: *item.Price,
		})
	}

	// Same numeric-sanity rule the merge gate applies to proposals.
	if err := merge.CheckNumbers(receipt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return receipt, nil
}

type commandPayload struct {
	Message        string          `json:"message"`
	UpdatedReceipt *models.Receipt `json:"updatedReceipt"`
}

// decodeCommand turns a raw interpretation response into a CommandResult.
// Numeric sanity of an updated receipt is left to the merge gate, which
// vets every proposal anyway.
func decodeCommand(raw []byte) (*CommandResult, error) {
	var payload commandPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if payload.Message == "" {
		return nil, fmt.Errorf("%w: missing message", ErrMalformedOutput)
	}
	return &CommandResult{
		Message:        payload.Message,
		UpdatedReceipt: payload.UpdatedReceipt,
	}, nil
}
