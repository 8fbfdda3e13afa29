// Package server implements the device-side HTTP API: pattern updates for
// the LED matrix, one-shot sensor reads and the live sensor socket.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/jwulff/picolor-go/internal/domain"
	"github.com/jwulff/picolor-go/internal/sense"
)

// DefaultPushInterval is how often a subscribed socket receives a reading.
const DefaultPushInterval = time.Second

// Display renders matrix configs, on real hardware or a stand-in.
type Display interface {
	Apply(config domain.MatrixConfig) error
}

// Provider reads the current sensors.
type Provider interface {
	Read(ctx context.Context) (domain.SensorData, error)
}

// Server is the device-side API.
type Server struct {
	display      Display
	provider     Provider
	logger       zerolog.Logger
	pushInterval time.Duration
	upgrader     websocket.Upgrader
	engine       *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithPushInterval sets the cadence of readings on a subscribed socket.
func WithPushInterval(interval time.Duration) Option {
	return func(s *Server) {
		if interval > 0 {
			s.pushInterval = interval
		}
	}
}

// NewServer wires the routes over the given display and sensor provider.
func NewServer(display Display, provider Provider, logger zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		display:      display,
		provider:     provider,
		logger:       logger,
		pushInterval: DefaultPushInterval,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())
	engine.PUT("/pattern", s.putPattern)
	engine.GET("/sensors", s.getSensors)
	engine.GET("/ws", s.serveSocket)
	s.engine = engine
	return s
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves the API on addr until the listener fails.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

type patternRequest struct {
	Matrix domain.MatrixConfig `json:"matrix"`
}

func (s *Server) putPattern(c *gin.Context) {
	var req patternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pattern: " + err.Error()})
		return
	}
	if err := s.display.Apply(req.Matrix); err != nil {
		s.logger.Error().Err(err).Str("matrix", req.Matrix.ID).Msg("display update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.logger.Info().
		Str("matrix", req.Matrix.ID).
		Str("name", req.Matrix.Name).
		Int("pixels", req.Matrix.Matrix.PixelCount()).
		Msg("pattern applied")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) getSensors(c *gin.Context) {
	data, err := s.provider.Read(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, data)
}

func (s *Server) serveSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("socket upgrade failed")
		return
	}
	defer conn.Close()

	subscribed := false
	ticker := time.NewTicker(s.pushInterval)
	defer ticker.Stop()

	incoming := make(chan sense.Envelope)
	go func() {
		defer close(incoming)
		for {
			var env sense.Envelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			incoming <- env
		}
	}()

	for {
		select {
		case env, ok := <-incoming:
			if !ok {
				return
			}
			switch env.Event {
			case sense.EventSubscribe:
				subscribed = true
			case sense.EventUnsubscribe:
				subscribed = false
			}
		case <-ticker.C:
			if !subscribed {
				continue
			}
			if err := s.pushReading(c.Request.Context(), conn); err != nil {
				return
			}
		}
	}
}

func (s *Server) pushReading(ctx context.Context, conn *websocket.Conn) error {
	data, err := s.provider.Read(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("sensor read failed")
		return nil
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return conn.WriteJSON(sense.Envelope{Event: sense.EventSensorData, Data: payload})
}
