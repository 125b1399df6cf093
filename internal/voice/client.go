// Package voice implements the realtime client for the managed voice
// platform that runs the actual interview call. The platform owns the
// audio path end to end; this client only starts/stops calls and consumes
// the event stream over a websocket.
package voice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Mikael-duru/mockwise/internal/agent"
)

// startMessage is the first frame sent after dialing; it configures the
// call in one of the two supported shapes.
type startMessage struct {
	Type        string             `json:"type"`
	WorkflowID  string             `json:"workflowId,omitempty"`
	Variables   map[string]string  `json:"variableValues,omitempty"`
	Interviewer *interviewerConfig `json:"interviewer,omitempty"`
}

type interviewerConfig struct {
	SystemPrompt string `json:"systemPrompt"`
	Questions    string `json:"questions"`
}

// serverMessage is one frame from the platform's event stream.
type serverMessage struct {
	Type           string `json:"type"`
	Role           string `json:"role,omitempty"`
	TranscriptType string `json:"transcriptType,omitempty"`
	Transcript     string `json:"transcript,omitempty"`
	Message        string `json:"message,omitempty"`
}

// Client is a single-call websocket client for the voice platform. It
// satisfies agent.VoiceCaller. One Client serves one call; create a new
// one per session.
type Client struct {
	apiKey  string
	baseURL string
	logger  *zap.Logger

	mu        sync.RWMutex
	conn      *websocket.Conn
	connected bool
	stopCh    chan struct{}

	emitter Emitter
}

// NewClient constructs a client for the given platform endpoint
// (wss://...). The API key is sent as a bearer token on dial.
func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{apiKey: apiKey, baseURL: baseURL, logger: logger}
}

// On registers a listener for one event kind and returns its handle.
func (c *Client) On(kind agent.EventKind, fn func(agent.Event)) agent.Subscription {
	return c.emitter.Subscribe(kind, fn)
}

// Start dials the platform and sends the call configuration, then runs the
// read loop until the connection or the context ends. Events are delivered
// sequentially from that single loop.
func (c *Client) Start(ctx context.Context, cfg agent.CallConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connected {
		return errors.New("call already in progress")
	}
	if c.apiKey == "" {
		return errors.New("voice platform api key is empty")
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	headers := http.Header{"Authorization": {"Bearer " + c.apiKey}}

	conn, resp, err := dialer.DialContext(ctx, c.baseURL+"/call/web", headers)
	if err != nil {
		if resp != nil {
			c.logger.Warn("voice platform dial failed", zap.Int("status", resp.StatusCode))
		}
		return fmt.Errorf("failed to connect to voice platform: %w", err)
	}

	start := startMessage{Type: "start", WorkflowID: cfg.WorkflowID, Variables: cfg.Variables}
	if cfg.Interviewer != nil {
		start.Interviewer = &interviewerConfig{
			SystemPrompt: cfg.Interviewer.SystemPrompt,
			Questions:    cfg.Interviewer.Questions,
		}
	}
	if err := conn.WriteJSON(start); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to start call: %w", err)
	}

	c.conn = conn
	c.connected = true
	c.stopCh = make(chan struct{})

	go c.readLoop(ctx, conn)
	return nil
}

// Stop requests call teardown and closes the connection. It does not wait
// for the platform to confirm; the call-end event may or may not arrive.
func (c *Client) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return nil
	}
	close(c.stopCh)
	_ = c.conn.WriteJSON(map[string]string{"type": "end"})
	_ = c.conn.Close()
	c.conn = nil
	c.connected = false
	return nil
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer c.markDisconnected()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopCh:
			return
		default:
		}

		var msg serverMessage
		if err := conn.ReadJSON(&msg); err != nil {
			select {
			case <-c.stopCh:
			case <-ctx.Done():
			default:
				c.logger.Warn("voice platform read failed", zap.Error(err))
				c.emitter.Emit(agent.Event{Kind: agent.EventError, Err: err})
				c.emitter.Emit(agent.Event{Kind: agent.EventCallEnd})
			}
			return
		}
		c.dispatch(msg)
	}
}

func (c *Client) dispatch(msg serverMessage) {
	switch msg.Type {
	case "call-start":
		c.emitter.Emit(agent.Event{Kind: agent.EventCallStart})
	case "call-end":
		c.emitter.Emit(agent.Event{Kind: agent.EventCallEnd})
	case "speech-start":
		c.emitter.Emit(agent.Event{Kind: agent.EventSpeechStart})
	case "speech-end":
		c.emitter.Emit(agent.Event{Kind: agent.EventSpeechEnd})
	case "transcript":
		c.emitter.Emit(agent.Event{
			Kind:           agent.EventTranscript,
			Role:           agent.Role(msg.Role),
			TranscriptType: agent.TranscriptType(msg.TranscriptType),
			Content:        msg.Transcript,
		})
	case "error":
		c.emitter.Emit(agent.Event{Kind: agent.EventError, Err: errors.New(msg.Message)})
	default:
		c.logger.Debug("ignoring unknown event", zap.String("type", msg.Type))
	}
}

func (c *Client) markDisconnected() {
	c.mu.Lock()
	if c.connected {
		c.connected = false
		c.conn = nil
	}
	c.mu.Unlock()
}
