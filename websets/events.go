package websets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	exa "github.com/erayack/exa-go"
)

// EventType identifies what happened to a webset resource.
type EventType string

const (
	EventWebsetCreated    EventType = "webset.created"
	EventWebsetDeleted    EventType = "webset.deleted"
	EventWebsetIdle       EventType = "webset.idle"
	EventWebsetPaused     EventType = "webset.paused"
	EventItemCreated      EventType = "webset.item.created"
	EventItemEnriched     EventType = "webset.item.enriched"
	EventSearchCreated    EventType = "webset.search.created"
	EventSearchCompleted  EventType = "webset.search.completed"
	EventImportCreated    EventType = "import.created"
	EventImportCompleted  EventType = "import.completed"
	EventImportProcessing EventType = "import.processing"
)

// Event is one entry of the account-wide event feed.
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ListEventsOptions parameterizes EventsClient.List.
type ListEventsOptions struct {
	Cursor string
	Limit  int
	Types  []EventType
}

// ListEventsResponse is one page of events.
type ListEventsResponse struct {
	Data       []Event `json:"data"`
	HasMore    bool    `json:"hasMore"`
	NextCursor string  `json:"nextCursor,omitempty"`
}

// EventsClient calls the events API.
type EventsClient struct {
	api *exa.Client
}

// List returns one page of events, newest first.
func (c *EventsClient) List(ctx context.Context, opts *ListEventsOptions) (*ListEventsResponse, error) {
	path := "/websets/v0/events" + eventsQuery(opts)
	var out ListEventsResponse
	if err := c.api.Request(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// All returns a source over the event feed, fetching pages lazily. Range
// over it with [exa.All]; stopping early releases the source.
func (c *EventsClient) All(ctx context.Context, opts *ListEventsOptions) exa.Source[Event] {
	base := ListEventsOptions{}
	if opts != nil {
		base = *opts
	}
	return exa.PageSource(ctx, func(ctx context.Context, cursor string) (exa.Page[Event], error) {
		pageOpts := base
		pageOpts.Cursor = cursor
		page, err := c.List(ctx, &pageOpts)
		if err != nil {
			return exa.Page[Event]{}, err
		}
		return exa.Page[Event]{Data: page.Data, HasMore: page.HasMore, NextCursor: page.NextCursor}, nil
	})
}

func eventsQuery(opts *ListEventsOptions) string {
	if opts == nil {
		return ""
	}
	q := url.Values{}
	if opts.Cursor != "" {
		q.Set("cursor", opts.Cursor)
	}
	if opts.Limit > 0 {
		q.Set("limit", fmt.Sprint(opts.Limit))
	}
	if len(opts.Types) > 0 {
		types := make([]string, len(opts.Types))
		for i, t := range opts.Types {
			types[i] = string(t)
		}
		q.Set("types", strings.Join(types, ","))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
