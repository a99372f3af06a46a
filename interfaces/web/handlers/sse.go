package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"fixtrack/interfaces/web/templates/components/ui"
	"fixtrack/logging"
	"fixtrack/platform/events"
)

// SSEClient represents a connected Server-Sent Events client.
type SSEClient struct {
	id       string
	writer   http.ResponseWriter
	flusher  http.Flusher
	done     chan struct{}
	lastSent time.Time
}

// SSEManager manages Server-Sent Events connections and real-time
// broadcasting of job list refreshes and notification prompts.
type SSEManager struct {
	clients map[string]*SSEClient
	mu      sync.RWMutex
	logger  *logging.Logger
}

// SSEManager is the sink the notification handlers push into.
var _ events.NotificationSink = (*SSEManager)(nil)

// NewSSEManager creates a new SSE connection manager with cleanup routines.
// The cleanup routine stops when appCtx is cancelled.
func NewSSEManager(appCtx context.Context) *SSEManager {
	manager := &SSEManager{
		clients: make(map[string]*SSEClient),
		logger:  logging.Default().WithComponent("sse_manager"),
	}

	// Start cleanup routine for stale connections
	go manager.cleanupRoutine(appCtx)

	return manager
}

// AddClient adds a new SSE client connection
func (s *SSEManager) AddClient(clientID string, w http.ResponseWriter) *SSEClient {
	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.logger.Error("Response writer does not support flushing")
		return nil
	}

	// Immediate flush to establish connection
	flusher.Flush()

	client := &SSEClient{
		id:       clientID,
		writer:   w,
		flusher:  flusher,
		done:     make(chan struct{}),
		lastSent: time.Now(),
	}

	s.mu.Lock()
	s.clients[clientID] = client
	s.mu.Unlock()

	s.logger.Info("SSE client connected", "client_id", clientID)

	// Send initial connection message as comment (won't trigger HTMX)
	s.sendToClient(client, "connected", fmt.Sprintf("Connected client %s", clientID))

	return client
}

// RemoveClient removes an SSE client connection
func (s *SSEManager) RemoveClient(clientID string) {
	s.mu.Lock()
	client, exists := s.clients[clientID]
	if exists {
		delete(s.clients, clientID)
	}
	s.mu.Unlock()

	if exists {
		// Close channel outside of lock to prevent double-close panic
		select {
		case <-client.done:
			// Already closed
		default:
			close(client.done)
		}
		s.logger.Info("SSE client disconnected", "client_id", clientID)
	}
}

// snapshotClients copies the client map so broadcasts never hold the
// lock during I/O.
func (s *SSEManager) snapshotClients() map[string]*SSEClient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clientList := make(map[string]*SSEClient, len(s.clients))
	for id, client := range s.clients {
		clientList[id] = client
	}
	return clientList
}

// broadcast sends an event to every connected client and drops the
// clients that fail.
func (s *SSEManager) broadcast(event, data string) {
	clientList := s.snapshotClients()
	if len(clientList) == 0 {
		s.logger.Debug("No SSE clients connected, skipping broadcast", "event", event)
		return
	}

	failedClients := []string{}
	for clientID, client := range clientList {
		if err := s.sendToClient(client, event, data); err != nil {
			s.logger.Warn("Failed to send event to client",
				"client_id", clientID,
				"event", event,
				"error", err)
			failedClients = append(failedClients, clientID)
		}
	}

	// Remove failed clients after broadcasting
	for _, clientID := range failedClients {
		s.RemoveClient(clientID)
	}

	s.logger.Debug("Broadcasted event",
		"event", event,
		"total_clients", len(clientList),
		"failed", len(failedClients))
}

// BroadcastJobListUpdate broadcasts that the job list has changed
func (s *SSEManager) BroadcastJobListUpdate() {
	message := `{"action": "refresh", "timestamp": "` + time.Now().Format(time.RFC3339) + `"}`
	s.broadcast("jobs-updated", message)
}

// PushNotification pushes a composed WhatsApp prompt to every
// connected dashboard.
func (s *SSEManager) PushNotification(notification events.OutboundNotification) {
	payload, err := json.Marshal(notification)
	if err != nil {
		s.logger.Error("Failed to serialize notification",
			"job_sheet_number", notification.JobSheetNumber,
			"error", err)
		return
	}
	s.broadcast("notification", string(payload))

	var buf bytes.Buffer
	prompt := ui.WhatsAppPrompt(notification.JobSheetNumber, notification.CustomerName, notification.Link)
	if err := prompt.Render(context.Background(), &buf); err != nil {
		s.logger.Error("Failed to render notification prompt",
			"job_sheet_number", notification.JobSheetNumber,
			"error", err)
		return
	}
	s.broadcast("notification-prompt", buf.String())
}

// PushWarning pushes a toast for jobs whose notification could not be
// composed.
func (s *SSEManager) PushWarning(jobSheetNumber, message string) {
	var buf bytes.Buffer
	toast := ui.ToastNotification(fmt.Sprintf("%s: %s", jobSheetNumber, message), "warning")
	if err := toast.Render(context.Background(), &buf); err != nil {
		s.logger.Error("Failed to render warning toast",
			"job_sheet_number", jobSheetNumber,
			"error", err)
		return
	}
	s.broadcast("toast", buf.String())
}

// sendToClient sends an SSE message to a specific client
func (s *SSEManager) sendToClient(client *SSEClient, event, data string) error {
	select {
	case <-client.done:
		return fmt.Errorf("client connection closed")
	default:
	}

	// Send the SSE formatted message with proper format
	var message string
	if event == "keepalive" || event == "connected" {
		// Special events - send as comments to avoid triggering HTMX
		message = fmt.Sprintf(": %s\n\n", data)
	} else {
		// Regular events - use proper SSE format
		message = fmt.Sprintf("event: %s\ndata: %s\n\n", event, data)
	}

	_, err := client.writer.Write([]byte(message))
	if err != nil {
		return fmt.Errorf("write error: %w", err)
	}

	client.flusher.Flush()
	client.lastSent = time.Now()

	return nil
}

// SendKeepAlive sends keep-alive messages to all clients
func (s *SSEManager) SendKeepAlive() {
	clientList := s.snapshotClients()

	failedClients := []string{}
	for clientID, client := range clientList {
		if err := s.sendToClient(client, "keepalive", `{"timestamp": "`+time.Now().Format(time.RFC3339)+`"}`); err != nil {
			s.logger.Debug("Keep-alive failed, removing client", "client_id", clientID)
			failedClients = append(failedClients, clientID)
		}
	}

	// Remove failed clients after keep-alive
	for _, clientID := range failedClients {
		s.RemoveClient(clientID)
	}
}

// cleanupRoutine periodically cleans up stale connections
func (s *SSEManager) cleanupRoutine(appCtx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-appCtx.Done():
			return
		case <-ticker.C:
		}

		s.SendKeepAlive()

		// Remove clients that haven't received messages in a while
		s.mu.Lock()
		staleThreshold := time.Now().Add(-2 * time.Minute)
		staleClients := []string{}
		for clientID, client := range s.clients {
			if client.lastSent.Before(staleThreshold) {
				s.logger.Info("Removing stale SSE client", "client_id", clientID)
				staleClients = append(staleClients, clientID)
			}
		}
		s.mu.Unlock()

		// Remove stale clients outside of lock
		for _, clientID := range staleClients {
			s.RemoveClient(clientID)
		}
	}
}

// CloseAll drops every client connection during shutdown.
func (s *SSEManager) CloseAll() {
	for clientID := range s.snapshotClients() {
		s.RemoveClient(clientID)
	}
}

// HandleSSEConnection handles the SSE endpoint
func (s *SSEManager) HandleSSEConnection(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		clientID = fmt.Sprintf("client_%d", time.Now().UnixNano())
	}

	client := s.AddClient(clientID, w)
	if client == nil {
		http.Error(w, "Failed to establish SSE connection", http.StatusInternalServerError)
		return
	}

	// Wait for client disconnect - global cleanup routine handles keep-alives
	select {
	case <-r.Context().Done():
		s.RemoveClient(clientID)
	case <-client.done:
		s.RemoveClient(clientID)
	}
}
