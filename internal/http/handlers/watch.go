package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS policy is enforced by the HTTP middleware; the origin has
	// already been vetted by the time the upgrade happens.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// EditsWatch streams lifecycle snapshots over a WebSocket so the editor can
// render spinner/result/error without polling. The current snapshot is sent
// immediately, then every transition until the client disconnects.
func (a *App) EditsWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("watch: websocket upgrade failed")
		return
	}
	defer conn.Close()

	updates, cancel := a.Studio.Subscribe()
	defer cancel()

	if err := conn.WriteJSON(toSnapshotResponse(a.Studio.Snapshot(), nil)); err != nil {
		return
	}

	// Reader goroutine: we never expect client messages, but reading is the
	// only way to notice the peer going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snap := <-updates:
			if err := conn.WriteJSON(toSnapshotResponse(snap, nil)); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
