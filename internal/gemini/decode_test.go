package gemini

import (
	"errors"
	"testing"
)

func TestDecodeReceipt(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		check   func(t *testing.T, err error)
	}{
		{
			name: "well-formed extraction",
			raw: `{
				"items": [
					{"id": "1", "name": "Burger", "price": 12.0},
					{"id": "2", "name": "Fries", "price": 5.0}
				],
				"subtotal": 17.0, "tax": 1.7, "total": 18.7, "currency": "$"
			}`,
		},
		{
			name: "tip defaults to zero when absent",
			raw: `{
				"items": [{"id": "1", "name": "Burger", "price": 12.0}],
				"subtotal": 12.0, "tax": 1.2, "total": 13.2, "currency": "$"
			}`,
		},
		{
			name:    "not JSON",
			raw:     `sorry, I could not read that receipt`,
			wantErr: true,
		},
		{
			name:    "missing total",
			raw:     `{"items": [{"id": "1", "name": "Burger", "price": 12.0}], "subtotal": 12.0, "tax": 1.2, "currency": "$"}`,
			wantErr: true,
		},
		{
			name:    "missing currency",
			raw:     `{"items": [{"id": "1", "name": "Burger", "price": 12.0}], "subtotal": 12.0, "tax": 1.2, "total": 13.2}`,
			wantErr: true,
		},
		{
			name:    "no items",
			raw:     `{"items": [], "subtotal": 0, "tax": 0, "total": 0, "currency": "$"}`,
			wantErr: true,
		},
		{
			name:    "negative price fails the sanity check",
			raw:     `{"items": [{"id": "1", "name": "Refund", "price": -4.0}], "subtotal": 10.0, "tax": 1.0, "total": 11.0, "currency": "$"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			receipt, err := decodeReceipt([]byte(tt.raw))
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedOutput) {
					t.Errorf("decodeReceipt() error = %v, want ErrMalformedOutput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeReceipt() error = %v", err)
			}
			if receipt.Tip != 0 && tt.name == "tip defaults to zero when absent" {
				t.Errorf("tip = %v, want 0", receipt.Tip)
			}
			for _, item := range receipt.Items {
				if item.ID == "" {
					t.Error("item with empty id survived decode")
				}
				if len(item.AssignedTo) != 0 {
					t.Errorf("item %q has assignees straight out of extraction", item.ID)
				}
			}
		})
	}
}

func TestDecodeReceiptGeneratesMissingIDs(t *testing.T) {
	raw := `{
		"items": [{"name": "Burger", "price": 12.0}],
		"subtotal": 12.0, "tax": 0, "total": 12.0, "currency": "$"
	}`
	receipt, err := decodeReceipt([]byte(raw))
	if err != nil {
		t.Fatalf("decodeReceipt() error = %v", err)
	}
	if receipt.Items[0].ID == "" {
		t.Error("missing item id was not generated")
	}
}

func TestDecodeCommand(t *testing.T) {
	t.Run("message only is a no-op result", func(t *testing.T) {
		result, err := decodeCommand([]byte(`{"message": "The burger costs $12."}`))
		if err != nil {
			t.Fatalf("decodeCommand() error = %v", err)
		}
		if result.UpdatedReceipt != nil {
			t.Error("no-op result carries an updated receipt")
		}
		if result.Message == "" {
			t.Error("message lost in decode")
		}
	})

	t.Run("updated receipt passes through", func(t *testing.T) {
		raw := `{
			"message": "Done! Assigned the burger to Ana.",
			"updatedReceipt": {
				"items": [{"id": "1", "name": "Burger", "price": 12.0, "assignedTo": ["Ana"]}],
				"subtotal": 12.0, "tax": 1.2, "tip": 0, "total": 13.2, "currency": "$"
			}
		}`
		result, err := decodeCommand([]byte(raw))
		if err != nil {
			t.Fatalf("decodeCommand() error = %v", err)
		}
		if result.UpdatedReceipt == nil {
			t.Fatal("updated receipt dropped in decode")
		}
		if got := result.UpdatedReceipt.Items[0].AssignedTo; len(got) != 1 || got[0] != "Ana" {
			t.Errorf("assignees = %v, want [Ana]", got)
		}
	})

	t.Run("missing message rejected", func(t *testing.T) {
		_, err := decodeCommand([]byte(`{"updatedReceipt": null}`))
		if !errors.Is(err, ErrMalformedOutput) {
			t.Errorf("decodeCommand() error = %v, want ErrMalformedOutput", err)
		}
	})
}
