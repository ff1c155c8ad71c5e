package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/bucketledger/backend/internal/domain/shared"
	"github.com/bucketledger/backend/internal/infrastructure/event"
	"github.com/bucketledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StreamClient is one connected SSE consumer
type StreamClient struct {
	ID   string
	Chan chan StreamMessage
}

// StreamMessage is one SSE frame
type StreamMessage struct {
	Event string
	ID    string
	Data  string
}

// StreamEvent is the data of a forwarded domain event
type StreamEvent struct {
	ID          uuid.UUID    `json:"id"`
	AggregateID uuid.UUID    `json:"aggregate_id"`
	Type        string       `json:"type"`
	Payload     ledger.Event `json:"payload"`
}

// StreamHandler forwards ledger events to connected clients over SSE
type StreamHandler struct {
	BaseHandler
	bus          shared.EventSubscriber
	logger       *zap.Logger
	clients      sync.Map // map[string]*StreamClient
	clientCount  atomic.Int64
	ctx          context.Context
	cancel       context.CancelFunc
	heartbeat    time.Duration
	maxClients   int
	bufferSize   int
	subscription *event.Subscription
	startMu      sync.Mutex
	stopOnce     sync.Once
}

// StreamOption configures a StreamHandler
type StreamOption func(*StreamHandler)

// WithStreamLogger sets the logger
func WithStreamLogger(logger *zap.Logger) StreamOption {
	return func(h *StreamHandler) {
		h.logger = logger
	}
}

// WithStreamHeartbeat sets the heartbeat interval
func WithStreamHeartbeat(interval time.Duration) StreamOption {
	return func(h *StreamHandler) {
		if interval > 0 {
			h.heartbeat = interval
		}
	}
}

// WithStreamMaxClients caps concurrent connections. Zero means unlimited.
func WithStreamMaxClients(max int) StreamOption {
	return func(h *StreamHandler) {
		h.maxClients = max
	}
}

// WithStreamClientBuffer sets the per-client queue length
func WithStreamClientBuffer(size int) StreamOption {
	return func(h *StreamHandler) {
		if size > 0 {
			h.bufferSize = size
		}
	}
}

// NewStreamHandler creates a stream handler reading from bus
func NewStreamHandler(bus shared.EventSubscriber, opts ...StreamOption) *StreamHandler {
	ctx, cancel := context.WithCancel(context.Background())
	h := &StreamHandler{
		bus:        bus,
		logger:     zap.NewNop(),
		ctx:        ctx,
		cancel:     cancel,
		heartbeat:  30 * time.Second,
		maxClients: 1000,
		bufferSize: 64,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Start subscribes to every ledger event and begins the heartbeat
func (h *StreamHandler) Start() error {
	h.startMu.Lock()
	defer h.startMu.Unlock()

	if h.subscription != nil {
		return fmt.Errorf("stream handler already started")
	}
	h.subscription = event.SubscribeTyped(h.bus, h.handleEvent)
	go h.sendHeartbeats()

	h.logger.Info("event stream started")
	return nil
}

// Stop unsubscribes and disconnects every client
func (h *StreamHandler) Stop() {
	h.stopOnce.Do(func() {
		h.cancel()
		h.startMu.Lock()
		h.subscription.Close()
		h.startMu.Unlock()
		h.logger.Info("event stream stopped")
	})
}

func (h *StreamHandler) handleEvent(_ context.Context, e ledger.Event) error {
	data, err := json.Marshal(StreamEvent{
		ID:          e.EventID(),
		AggregateID: e.AggregateID(),
		Type:        e.EventType(),
		Payload:     e,
	})
	if err != nil {
		return fmt.Errorf("marshal stream event: %w", err)
	}

	h.broadcast(StreamMessage{
		Event: e.EventType(),
		ID:    e.EventID().String(),
		Data:  string(data),
	})
	return nil
}

// broadcast never blocks: a full client queue drops the message
func (h *StreamHandler) broadcast(msg StreamMessage) {
	h.clients.Range(func(_, value any) bool {
		client := value.(*StreamClient)
		select {
		case client.Chan <- msg:
		default:
			h.logger.Warn("client queue full, dropping message",
				zap.String("client_id", client.ID),
				zap.String("event", msg.Event))
		}
		return true
	})
}

func (h *StreamHandler) sendHeartbeats() {
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-ticker.C:
			h.broadcast(StreamMessage{
				Event: "heartbeat",
				Data:  fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix()),
			})
		}
	}
}

// acquireSlot counts a new client unless the cap is reached. Rejected
// connections never show up in ClientCount.
func (h *StreamHandler) acquireSlot() bool {
	for {
		n := h.clientCount.Load()
		if h.maxClients > 0 && n >= int64(h.maxClients) {
			return false
		}
		if h.clientCount.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// Stream handles GET /stream
func (h *StreamHandler) Stream(c *gin.Context) {
	if !h.acquireSlot() {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeTooManyClients, "Maximum number of stream connections reached")
		return
	}
	defer h.clientCount.Add(-1)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	client := &StreamClient{
		ID:   uuid.New().String(),
		Chan: make(chan StreamMessage, h.bufferSize),
	}
	h.clients.Store(client.ID, client)
	defer h.clients.Delete(client.ID)

	h.logger.Info("stream client connected", zap.String("client_id", client.ID))

	writeFrame(c.Writer, StreamMessage{
		Event: "connected",
		Data:  fmt.Sprintf(`{"client_id":%q,"timestamp":%d}`, client.ID, time.Now().Unix()),
	})
	c.Writer.Flush()

	reqCtx := c.Request.Context()
	for {
		select {
		case <-reqCtx.Done():
			h.logger.Info("stream client disconnected", zap.String("client_id", client.ID))
			return
		case <-h.ctx.Done():
			return
		case msg := <-client.Chan:
			writeFrame(c.Writer, msg)
			c.Writer.Flush()
		}
	}
}

// ClientCount returns the number of connected clients
func (h *StreamHandler) ClientCount() int {
	return int(h.clientCount.Load())
}

func writeFrame(w io.Writer, msg StreamMessage) {
	if msg.Event != "" {
		fmt.Fprintf(w, "event: %s\n", msg.Event)
	}
	if msg.ID != "" {
		fmt.Fprintf(w, "id: %s\n", msg.ID)
	}
	fmt.Fprintf(w, "data: %s\n\n", msg.Data)
}
