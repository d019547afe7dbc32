// Package stream exposes store subscriptions over websockets: each relevant
// mutation pushes the full filtered snapshot as one JSON frame.
package stream

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/OmerBikec/Enid-Beauty/pkg/logging"
)

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Browsers enforce cookie/token auth before this point; origin checks are
	// handled by the CORS middleware on the HTTP side.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Snapshots upgrades the request to a websocket and writes every delivered
// snapshot as a JSON array until the client goes away. The subscription is
// cancelled before return, so no timers or goroutines leak per connection.
func Snapshots[T any](w http.ResponseWriter, r *http.Request, logger *logging.Logger, subscribe func(deliver func([]T)) (cancel func())) {
	if logger == nil {
		logger = logging.Default()
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", "error", err, "path", r.URL.Path)
		return
	}
	defer conn.Close()

	// Latest-wins buffer between the subscription goroutine and the single
	// websocket writer.
	snaps := make(chan []T, 1)
	cancel := subscribe(func(snapshot []T) {
		for {
			select {
			case snaps <- snapshot:
				return
			default:
				select {
				case <-snaps:
				default:
				}
			}
		}
	})
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case snapshot := <-snaps:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(snapshot); err != nil {
				return
			}
		}
	}
}
