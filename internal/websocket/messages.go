// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package websocket

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/canarymap/internal/charts"
	"github.com/tomtom215/canarymap/internal/dashboard"
	"github.com/tomtom215/canarymap/internal/geo"
	"github.com/tomtom215/canarymap/internal/validation"
)

// Client message types
const (
	MessageTypePing          = "ping"
	MessageTypeSelectCountry = "select_country"
	MessageTypeToggleGroup   = "toggle_group"
	MessageTypeToggleAPI     = "toggle_api"
	MessageTypeBack          = "back"
)

// Server message types
const (
	MessageTypePong           = "pong"
	MessageTypeMap            = "map"
	MessageTypeMapWarning     = "map_warning"
	MessageTypeLoading        = "loading"
	MessageTypeCountry        = "country"
	MessageTypeGroupBreakdown = "group_breakdown"
	MessageTypeGroupExpanded  = "group_expanded"
	MessageTypeAPIExpanded    = "api_expanded"
	MessageTypeChart          = "chart"
	MessageTypeDestroy        = "destroy"
	MessageTypeError          = "error"
)

var (
	// ErrUnknownMessage is returned for a message type the server does not handle.
	ErrUnknownMessage = errors.New("unknown message type")

	// ErrInvalidMessage is returned for a malformed or invalid message body.
	ErrInvalidMessage = errors.New("invalid message")
)

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// SelectCountryData is the body of a select_country message.
type SelectCountryData struct {
	Country string `json:"country" validate:"required,max=100"`
}

// ToggleGroupData is the body of a toggle_group message.
type ToggleGroupData struct {
	Group *int `json:"group" validate:"required,gte=0"`
}

// ToggleAPIData is the body of a toggle_api message.
type ToggleAPIData struct {
	Group *int `json:"group" validate:"required,gte=0"`
	API   *int `json:"api" validate:"required,gte=0"`
}

// ParseMessage decodes a client message. For ping it returns a nil intent.
func ParseMessage(raw []byte) (msgType string, intent dashboard.Intent, err error) {
	var in inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}

	switch in.Type {
	case MessageTypePing:
		return in.Type, nil, nil
	case MessageTypeBack:
		return in.Type, dashboard.NavigateBack{}, nil
	case MessageTypeSelectCountry:
		var d SelectCountryData
		if err := decodeData(in.Data, &d); err != nil {
			return in.Type, nil, err
		}
		return in.Type, dashboard.SelectCountry{Country: d.Country}, nil
	case MessageTypeToggleGroup:
		var d ToggleGroupData
		if err := decodeData(in.Data, &d); err != nil {
			return in.Type, nil, err
		}
		return in.Type, dashboard.ToggleGroup{Group: *d.Group}, nil
	case MessageTypeToggleAPI:
		var d ToggleAPIData
		if err := decodeData(in.Data, &d); err != nil {
			return in.Type, nil, err
		}
		return in.Type, dashboard.ToggleAPI{Group: *d.Group, API: *d.API}, nil
	default:
		return in.Type, nil, fmt.Errorf("%w: %q", ErrUnknownMessage, in.Type)
	}
}

func decodeData(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, verr)
	}
	return nil
}

// MapData is the body of a map message.
type MapData struct {
	WidgetID string       `json:"widget_id"`
	Regions  []geo.Region `json:"regions"`
	Markers  []geo.Marker `json:"markers"`
}

// WarningData is the body of a map_warning message.
type WarningData struct {
	Message string `json:"message"`
}

// LoadingData is the body of a loading message.
type LoadingData struct {
	Country string `json:"country"`
}

// BreakdownData is the body of a group_breakdown message.
type BreakdownData struct {
	Group int                `json:"group"`
	Rows  []dashboard.APIRow `json:"rows"`
}

// ExpandedData is the body of group_expanded and api_expanded messages.
type ExpandedData struct {
	Group    int  `json:"group"`
	API      *int `json:"api,omitempty"`
	Expanded bool `json:"expanded"`
}

// ChartData is the body of a chart message.
type ChartData struct {
	WidgetID string `json:"widget_id"`
	Kind     string `json:"kind"`
	Group    int    `json:"group"`
	API      *int   `json:"api,omitempty"`
	URL      string `json:"url"`
	charts.LineChart
}

// DestroyData is the body of a destroy message.
type DestroyData struct {
	WidgetID string `json:"widget_id"`
}

// ErrorData is the body of an error message.
type ErrorData struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// errorMessage builds the reply to a message that could not be handled.
func errorMessage(err error) Message {
	data := ErrorData{Code: "INVALID_MESSAGE", Message: err.Error()}
	if errors.Is(err, ErrUnknownMessage) {
		data.Code = "UNKNOWN_MESSAGE"
	}
	var verr *validation.Error
	if errors.As(err, &verr) {
		data.Code = "VALIDATION_ERROR"
		data.Details = verr.Details()
	}
	return Message{Type: MessageTypeError, Data: data}
}
