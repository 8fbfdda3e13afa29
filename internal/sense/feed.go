package sense

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/jwulff/picolor-go/internal/domain"
)

// Socket events of the live sensor channel.
const (
	EventSubscribe   = "subscribe_to_sensors"
	EventUnsubscribe = "unsubscribe_from_sensors"
	EventSensorData  = "sensor_data"
)

// Envelope frames every message on the socket.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Feed is a live connection to a device's sensor socket. Readings arrive
// only while subscribed; listeners registered on the feed never fire after
// they are removed or after the feed is closed.
type Feed struct {
	conn   *websocket.Conn
	logger zerolog.Logger

	writeMu sync.Mutex

	mu        sync.Mutex
	listeners map[int]func(domain.SensorData)
	nextID    int
	closed    bool

	done chan struct{}
}

// FeedURL derives the websocket endpoint from a device base URL.
func FeedURL(baseURL string) string {
	url := baseURL
	switch {
	case strings.HasPrefix(url, "https://"):
		url = "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		url = "ws://" + strings.TrimPrefix(url, "http://")
	case !strings.Contains(url, "://"):
		url = "ws://" + url
	}
	return strings.TrimSuffix(url, "/") + "/ws"
}

// Connect dials the device's sensor socket and starts reading.
func Connect(ctx context.Context, baseURL string, logger zerolog.Logger) (*Feed, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, FeedURL(baseURL), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", baseURL, err)
	}

	feed := &Feed{
		conn:      conn,
		logger:    logger,
		listeners: make(map[int]func(domain.SensorData)),
		done:      make(chan struct{}),
	}
	go feed.readLoop()
	return feed, nil
}

// Subscribe asks the device to start pushing readings.
func (f *Feed) Subscribe() error {
	return f.send(Envelope{Event: EventSubscribe})
}

// Unsubscribe asks the device to stop pushing readings.
func (f *Feed) Unsubscribe() error {
	return f.send(Envelope{Event: EventUnsubscribe})
}

func (f *Feed) send(env Envelope) error {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	return f.conn.WriteJSON(env)
}

// OnSensorData registers a listener for incoming readings and returns its
// removal function.
func (f *Feed) OnSensorData(fn func(domain.SensorData)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.listeners, id)
	}
}

// Close tears the connection down. No listener fires afterwards.
func (f *Feed) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	f.mu.Unlock()
	return f.conn.Close()
}

// Done is closed once the read loop has ended, whether by Close or by the
// server going away.
func (f *Feed) Done() <-chan struct{} {
	return f.done
}

func (f *Feed) readLoop() {
	defer close(f.done)
	for {
		var env Envelope
		if err := f.conn.ReadJSON(&env); err != nil {
			f.mu.Lock()
			closed := f.closed
			f.closed = true
			f.mu.Unlock()
			if !closed {
				f.logger.Debug().Err(err).Msg("sensor socket closed")
			}
			return
		}
		if env.Event != EventSensorData {
			continue
		}
		var data domain.SensorData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			f.logger.Warn().Err(err).Msg("invalid sensor_data payload")
			continue
		}
		f.dispatch(data)
	}
}

func (f *Feed) dispatch(data domain.SensorData) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	listeners := make([]func(domain.SensorData), 0, len(f.listeners))
	for _, fn := range f.listeners {
		listeners = append(listeners, fn)
	}
	f.mu.Unlock()

	for _, fn := range listeners {
		fn(data)
	}
}
