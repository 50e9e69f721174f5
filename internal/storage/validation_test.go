package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/shopspring/decimal"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name      string
		str       string
		paramName string
		wantErr   bool
	}{
		{
			name:      "valid string",
			str:       "test",
			paramName: "param",
			wantErr:   false,
		},
		{
			name:      "empty string",
			str:       "",
			paramName: "param",
			wantErr:   true,
		},
		{
			name:      "whitespace only",
			str:       "   ",
			paramName: "param",
			wantErr:   true,
		},
		{
			name:      "string with spaces",
			str:       "  test  ",
			paramName: "param",
			wantErr:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.str, tt.paramName)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), tt.paramName) {
				t.Errorf("validateString() error should contain param name %s, got %v", tt.paramName, err)
			}
		})
	}
}

func TestValidateCategory(t *testing.T) {
	tests := []struct {
		category *model.Category
		wantErr  error
		name     string
	}{
		{name: "valid", category: &model.Category{Name: "Food"}},
		{name: "nil", category: nil, wantErr: ErrNilParameter},
		{name: "blank name", category: &model.Category{Name: "  "}, wantErr: ErrInvalidCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCategory(tt.category)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateCategory() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateEntry(t *testing.T) {
	valid := func() *model.Entry {
		return &model.Entry{
			Name:       "Rent",
			Type:       model.EntryTypeExpense,
			Amount:     decimal.NewFromInt(1200),
			Date:       model.NewDate(2024, 3, 1),
			Paid:       true,
			CategoryID: 1,
		}
	}

	tests := []struct {
		mutate  func(*model.Entry)
		wantErr error
		name    string
	}{
		{name: "valid", mutate: func(*model.Entry) {}},
		{name: "missing name", mutate: func(e *model.Entry) { e.Name = "" }, wantErr: ErrInvalidEntry},
		{name: "unknown type", mutate: func(e *model.Entry) { e.Type = "transfer" }, wantErr: ErrInvalidEntry},
		{name: "missing date", mutate: func(e *model.Entry) { e.Date = model.Date{} }, wantErr: ErrInvalidEntry},
		{name: "missing category", mutate: func(e *model.Entry) { e.CategoryID = 0 }, wantErr: ErrInvalidEntry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := valid()
			tt.mutate(entry)
			err := validateEntry(entry)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateEntry() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := validateEntry(nil); !errors.Is(err, ErrNilParameter) {
		t.Errorf("validateEntry(nil) error = %v, want %v", err, ErrNilParameter)
	}
}
