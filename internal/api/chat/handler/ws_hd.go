package chatHandler

import (
	"WidgetBackend/internal/api/chat"
	"WidgetBackend/internal/middleware"
	contextPkg "WidgetBackend/pkg/context"
	"WidgetBackend/pkg/log"
	"WidgetBackend/pkg/response"
	"context"
	"errors"
	"time"

	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
)

const (
	socketReadTimeout  = 5 * time.Minute
	socketWriteTimeout = 10 * time.Second
	socketReplyTimeout = 60 * time.Second

	clientIPKey = "client_ip"
)

// handleChatWebSocket answers one ChatRequest frame with one ChatResponse
// frame. Bad frames get a SocketError and the connection stays open.
func (h *ChatHandler) handleChatWebSocket(c *websocket.Conn) {
	connID, _ := c.Locals(middleware.RequestIDKey).(string)
	clientIP, _ := c.Locals(clientIPKey).(string)
	h.log.WithFields(log.Fields{"connection_id": connID}).Info("Chat WebSocket client connected")
	defer h.log.WithFields(log.Fields{"connection_id": connID}).Info("Chat WebSocket client disconnected")

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	for {
		if err := c.SetReadDeadline(time.Now().Add(socketReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Errorf("Chat WebSocket error: %v", err)
			}
			break
		}

		if messageType != websocket.TextMessage {
			h.log.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		requestID, err := h.utils.NewULIDFromTimestamp(time.Now())
		if err != nil {
			requestID = connID
		}

		if err := h.writeFrame(c, h.limitedReply(clientIP, requestID, message)); err != nil {
			h.log.Errorf("Error writing chat frame: %v", err)
			break
		}
	}
}

// limitedReply charges the frame to the client's rate limit bucket before
// answering it.
func (h *ChatHandler) limitedReply(clientIP, requestID string, message []byte) interface{} {
	if !h.middleware.AllowIP(clientIP) {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"ip":         clientIP,
		}).Warn("Too many chat frames")
		return chat.SocketError{Error: middleware.ErrTooManyRequests.Error(), Code: "RATE_LIMITED", RequestID: requestID}
	}
	return h.replyToFrame(requestID, message)
}

func (h *ChatHandler) replyToFrame(requestID string, message []byte) interface{} {
	var req chat.ChatRequest
	if err := jsoniter.Unmarshal(message, &req); err != nil {
		return chat.SocketError{Error: "invalid JSON frame", Code: "VALIDATION_ERROR", RequestID: requestID}
	}
	if err := h.validator.Struct(req); err != nil {
		return chat.SocketError{Error: "Validation failed: " + err.Error(), Code: "VALIDATION_ERROR", RequestID: requestID}
	}

	ctx, cancel := context.WithTimeout(contextPkg.WithRequestID(context.Background(), requestID), socketReplyTimeout)
	defer cancel()

	res, err := h.chatService.Respond(ctx, req)
	if err != nil {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Chat frame failed")

		frame := chat.SocketError{Error: "An unexpected error occurred", RequestID: requestID}
		var respErr *response.Error
		if errors.As(err, &respErr) {
			frame.Error = respErr.Message()
		}
		switch {
		case errors.Is(err, chat.ErrLanguageModelFailed):
			frame.Code = "LLM_UNAVAILABLE"
		case errors.Is(err, chat.ErrTenantRequired):
			frame.Code = "TENANT_REQUIRED"
		case errors.Is(err, chat.ErrMessageRequired):
			frame.Code = "VALIDATION_ERROR"
		}
		return frame
	}

	return res
}

func (h *ChatHandler) writeFrame(c *websocket.Conn, frame interface{}) error {
	if err := c.SetWriteDeadline(time.Now().Add(socketWriteTimeout)); err != nil {
		return err
	}
	if err := c.WriteJSON(frame); err != nil {
		return err
	}
	return c.SetWriteDeadline(time.Time{})
}
