// Package httpapi provides a log source adapter for an HTTP log store.
//
// It is imported as a side effect to register the "http" source type:
//
//	import _ "github.com/logsift/logsift/pkg/logs/httpapi"
//
// The store is expected to expose a Loki-style API: GET /api/v1/query for
// historical windows and a WebSocket at /api/v1/tail for live streaming.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/logsift/logsift/pkg/logs"
)

func init() {
	logs.Register("http", func(endpoint string) (logs.Source, error) {
		return New(endpoint)
	})
}

// Source implements logs.Source and logs.Tailer against an HTTP log store.
type Source struct {
	endpoint string
	client   *http.Client
}

// New creates an HTTP source pointed at the given base URL
// (e.g. "http://localhost:3100").
func New(endpoint string) (*Source, error) {
	endpoint = strings.TrimRight(endpoint, "/")
	if endpoint == "" {
		return nil, fmt.Errorf("http source endpoint must not be empty")
	}
	return &Source{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// ---------------------------------------------------------------------------
// Query (historical)
// ---------------------------------------------------------------------------

// Query retrieves historical records from the store.
func (s *Source) Query(ctx context.Context, p logs.Predicate) ([]logs.RawRecord, error) {
	params := url.Values{}
	params.Set("start", strconv.FormatInt(p.Start.UnixNano(), 10))
	if !p.End.IsZero() {
		params.Set("end", strconv.FormatInt(p.End.UnixNano(), 10))
	}

	reqURL := fmt.Sprintf("%s/api/v1/query?%s", s.endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("log store query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("log store returned %d: %s", resp.StatusCode, string(body))
	}

	var queryResp queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&queryResp); err != nil {
		return nil, fmt.Errorf("failed to decode log store response: %w", err)
	}

	records := make([]logs.RawRecord, 0, len(queryResp.Data.Records))
	for _, w := range queryResp.Data.Records {
		records = append(records, w.toRaw())
	}
	return records, nil
}

// ---------------------------------------------------------------------------
// Tail (live streaming via WebSocket)
// ---------------------------------------------------------------------------

// Tail connects to the store's /api/v1/tail WebSocket endpoint and returns
// a Stream that emits records as they arrive.
func (s *Source) Tail(ctx context.Context, p logs.Predicate) (*logs.Stream, error) {
	params := url.Values{}
	if !p.Start.IsZero() {
		params.Set("start", strconv.FormatInt(p.Start.UnixNano(), 10))
	}

	// Build WebSocket URL (http→ws, https→wss)
	wsURL := strings.Replace(s.endpoint, "http://", "ws://", 1)
	wsURL = strings.Replace(wsURL, "https://", "wss://", 1)
	wsURL = fmt.Sprintf("%s/api/v1/tail?%s", wsURL, params.Encode())

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to tail endpoint: %w", err)
	}

	records := make(chan logs.RawRecord, 100)
	errs := make(chan error, 1)

	// Read loop in a goroutine
	go func() {
		defer close(records)
		defer close(errs)
		defer conn.Close()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					return
				}
				if ctx.Err() != nil {
					return
				}
				errs <- fmt.Errorf("tail read error: %w", err)
				return
			}

			var batch tailMessage
			if err := json.Unmarshal(msg, &batch); err != nil {
				errs <- fmt.Errorf("failed to decode tail message: %w", err)
				return
			}

			for _, w := range batch.Records {
				select {
				case records <- w.toRaw():
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	closer := func() {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}

	return logs.NewStream(records, errs, closer), nil
}

// ---------------------------------------------------------------------------
// Wire types
// ---------------------------------------------------------------------------

type queryResponse struct {
	Status string    `json:"status"`
	Data   queryData `json:"data"`
}

type queryData struct {
	Records []wireRecord `json:"records"`
}

type tailMessage struct {
	Records []wireRecord `json:"records"`
}

type wireRecord struct {
	Kind      string `json:"kind"`
	Timestamp int64  `json:"timestamp"` // unix nanoseconds
	Level     int    `json:"level"`
	Subsystem string `json:"subsystem"`
	Category  string `json:"category"`
	Message   string `json:"message"`
}

func (w wireRecord) toRaw() logs.RawRecord {
	return logs.RawRecord{
		Kind:      parseKind(w.Kind),
		Timestamp: time.Unix(0, w.Timestamp),
		Level:     w.Level,
		Subsystem: w.Subsystem,
		Category:  w.Category,
		Message:   w.Message,
	}
}

func parseKind(kind string) logs.RecordKind {
	switch kind {
	case "", "log":
		return logs.KindLog
	case "signpost":
		return logs.KindSignpost
	default:
		return logs.KindActivity
	}
}
