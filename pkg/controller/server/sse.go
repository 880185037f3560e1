package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/secmon-lab/argus/pkg/domain/interfaces"
	"github.com/secmon-lab/argus/pkg/domain/model"
)

// serveEvents streams pipeline updates to the browser as server-sent events.
// The stream opens with the current connection status and then carries one
// diff event per flush until the client goes away.
func serveEvents(uc interfaces.UseCase, w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeSSE(w, "connection", uc.ConnectionState()); err != nil {
		return
	}
	flusher.Flush()

	// a slow client drops diffs rather than blocking the flush path
	diffs := make(chan *model.StateDiff, 16)
	sub := uc.Subscribe(func(ctx context.Context, diff *model.StateDiff) {
		select {
		case diffs <- diff:
		default:
		}
	})
	defer uc.Unsubscribe(sub)

	for {
		select {
		case <-r.Context().Done():
			return
		case diff := <-diffs:
			if err := writeSSE(w, "diff", diff); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeSSE(w io.Writer, event string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, body)
	return err
}
