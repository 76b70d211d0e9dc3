// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package websocket

import (
	"errors"
	"testing"

	"github.com/tomtom215/canarymap/internal/dashboard"
	"github.com/tomtom215/canarymap/internal/validation"
)

func TestParseMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		intent  dashboard.Intent
		wantErr error
	}{
		{"ping", `{"type":"ping"}`, nil, nil},
		{"back", `{"type":"back"}`, dashboard.NavigateBack{}, nil},
		{"select", `{"type":"select_country","data":{"country":"Singapore"}}`, dashboard.SelectCountry{Country: "Singapore"}, nil},
		{"toggle group zero", `{"type":"toggle_group","data":{"group":0}}`, dashboard.ToggleGroup{Group: 0}, nil},
		{"toggle api", `{"type":"toggle_api","data":{"group":1,"api":3}}`, dashboard.ToggleAPI{Group: 1, API: 3}, nil},
		{"select without country", `{"type":"select_country","data":{}}`, nil, ErrInvalidMessage},
		{"select without data", `{"type":"select_country"}`, nil, ErrInvalidMessage},
		{"toggle group missing", `{"type":"toggle_group","data":{}}`, nil, ErrInvalidMessage},
		{"toggle group negative", `{"type":"toggle_group","data":{"group":-1}}`, nil, ErrInvalidMessage},
		{"toggle api missing api", `{"type":"toggle_api","data":{"group":0}}`, nil, ErrInvalidMessage},
		{"wrong field type", `{"type":"toggle_group","data":{"group":"zero"}}`, nil, ErrInvalidMessage},
		{"not json", `hello`, nil, ErrInvalidMessage},
		{"unknown type", `{"type":"subscribe"}`, nil, ErrUnknownMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, intent, err := ParseMessage([]byte(tt.raw))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if intent != tt.intent {
				t.Errorf("intent = %#v, want %#v", intent, tt.intent)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	_, _, err := ParseMessage([]byte(`{"type":"toggle_group","data":{}}`))
	msg := errorMessage(err)
	data, ok := msg.Data.(ErrorData)
	if msg.Type != MessageTypeError || !ok {
		t.Fatalf("message = %+v", msg)
	}
	if data.Code != "VALIDATION_ERROR" || data.Details == nil {
		t.Errorf("error data = %+v", data)
	}
	var verr *validation.Error
	if !errors.As(err, &verr) || len(verr.Fields()) != 1 {
		t.Errorf("expected one field error, got %v", err)
	}

	_, _, err = ParseMessage([]byte(`{"type":"nope"}`))
	if got := errorMessage(err).Data.(ErrorData).Code; got != "UNKNOWN_MESSAGE" {
		t.Errorf("code = %q, want UNKNOWN_MESSAGE", got)
	}
}
