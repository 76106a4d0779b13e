package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"kopikurir/internal/broadcast"

	"github.com/labstack/echo/v4"
)

// sseSink writes broadcast events as Server-Sent Events frames. Each Send
// flushes immediately; a write failure means the consumer is gone and the
// stream engine stops on the returned error.
type sseSink struct {
	response *echo.Response
	flusher  http.Flusher
}

func newSSESink(response *echo.Response) (*sseSink, error) {
	flusher, ok := response.Writer.(http.Flusher)
	if !ok {
		return nil, errors.New("response writer does not support streaming")
	}

	header := response.Header()
	header.Set(echo.HeaderContentType, "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	response.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &sseSink{response: response, flusher: flusher}, nil
}

// Send writes one SSE frame: an event line, then the JSON payload as data.
// Events without a payload carry an empty object so every frame parses the
// same way on the client.
func (s *sseSink) Send(event broadcast.Event) error {
	data := []byte("{}")
	if event.Data != nil {
		encoded, err := json.Marshal(event.Data)
		if err != nil {
			return fmt.Errorf("encode %s event: %w", event.Type, err)
		}
		data = encoded
	}

	if _, err := fmt.Fprintf(s.response, "event: %s\ndata: %s\n\n", event.Type, data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
