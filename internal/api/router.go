package api

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"data-agent-chat/internal/db"
	"data-agent-chat/internal/endpoint"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush implements http.Flusher interface for SSE support
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Router holds the HTTP multiplexer and dependencies
type Router struct {
	mux                 *http.ServeMux
	agentHandler        *AgentHandler
	endpointHandler     *EndpointHandler
	chatRequestHandler  *ChatRequestHandler
	conversationHandler *ConversationHandler
	folderHandler       *FolderHandler
	eventsHandler       *ConversationEventsHandler
	broadcaster         *EventBroadcaster
	staticDir           string
}

// NewRouter creates a new router with all routes configured
func NewRouter(database *db.DB, resolver *endpoint.Resolver, staticDir string) *Router {
	broadcaster := NewEventBroadcaster()

	convHandler := NewConversationHandler(database)
	convHandler.SetBroadcaster(broadcaster)

	r := &Router{
		mux:                 http.NewServeMux(),
		agentHandler:        NewAgentHandler(),
		endpointHandler:     NewEndpointHandler(resolver),
		chatRequestHandler:  NewChatRequestHandler(database, resolver),
		conversationHandler: convHandler,
		folderHandler:       NewFolderHandler(database),
		eventsHandler:       NewConversationEventsHandler(broadcaster),
		broadcaster:         broadcaster,
		staticDir:           staticDir,
	}
	r.setupRoutes()
	return r
}

// setupRoutes configures all HTTP routes
func (r *Router) setupRoutes() {
	// Health check
	r.mux.HandleFunc("GET /health", HealthHandler)

	// Agent catalog
	r.mux.HandleFunc("GET /api/agents", r.agentHandler.List)
	r.mux.HandleFunc("GET /api/agents/{id}", r.agentHandler.Get)

	// Endpoint resolution
	r.mux.HandleFunc("GET /api/endpoints", r.endpointHandler.Get)

	// Conversation routes
	r.mux.HandleFunc("GET /api/conversations", r.conversationHandler.List)
	r.mux.HandleFunc("POST /api/conversations", r.conversationHandler.Create)
	r.mux.HandleFunc("GET /api/conversations/{id}", r.conversationHandler.Get)
	r.mux.HandleFunc("PUT /api/conversations/{id}", r.conversationHandler.Update)
	r.mux.HandleFunc("DELETE /api/conversations/{id}", r.conversationHandler.Delete)

	// Message routes
	r.mux.HandleFunc("GET /api/conversations/{id}/messages", r.conversationHandler.GetMessages)
	r.mux.HandleFunc("POST /api/conversations/{id}/messages", r.conversationHandler.SendMessage)
	r.mux.HandleFunc("GET /api/conversations/{id}/chat-request", r.chatRequestHandler.Get)

	// SSE events route
	r.mux.HandleFunc("GET /api/conversations/{id}/events", r.eventsHandler.HandleEvents)

	// Folder routes
	r.mux.HandleFunc("GET /api/folders", r.folderHandler.List)
	r.mux.HandleFunc("POST /api/folders", r.folderHandler.Create)
	r.mux.HandleFunc("DELETE /api/folders/{id}", r.folderHandler.Delete)

	// Static file serving (for frontend)
	if r.staticDir != "" {
		r.mux.HandleFunc("GET /", r.serveStatic)
	}
}

// serveStatic serves static files from the static directory
func (r *Router) serveStatic(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path
	if path == "/" {
		path = "/index.html"
	}

	filePath := filepath.Join(r.staticDir, filepath.Clean("/"+path))

	// Check if file exists
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		// Serve index.html for SPA routing
		filePath = filepath.Join(r.staticDir, "index.html")
	}

	http.ServeFile(w, req, filePath)
}

// ServeHTTP implements the http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()

	// CORS headers for the development frontend
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if req.Method == "OPTIONS" {
		log.Printf("[HTTP] CORS preflight method=OPTIONS path=%s", req.URL.Path)
		w.WriteHeader(http.StatusOK)
		return
	}

	// Skip logging for static files, health checks, and SSE endpoints
	shouldLog := strings.HasPrefix(req.URL.Path, "/api/") && !strings.HasSuffix(req.URL.Path, "/events")

	if shouldLog {
		log.Printf("[HTTP] Request started method=%s path=%s", req.Method, req.URL.Path)
	}

	// Wrap response writer to capture status code
	wrapped := newResponseWriter(w)
	r.mux.ServeHTTP(wrapped, req)

	if shouldLog {
		log.Printf("[HTTP] Request completed method=%s path=%s status=%d duration=%v",
			req.Method, req.URL.Path, wrapped.statusCode, time.Since(start))
	}
}

// GetBroadcaster returns the event broadcaster
func (r *Router) GetBroadcaster() *EventBroadcaster {
	return r.broadcaster
}
