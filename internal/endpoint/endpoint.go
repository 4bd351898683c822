package endpoint

import "data-agent-chat/internal/agent"

const (
	ChatPath      = "/api/chat"
	RecommendPath = "/api/recommend"
)

// Resolver maps agents to the endpoint that serves their chat requests.
// Agents without a route use the default chat endpoint. A Resolver is
// read-only after construction and safe for concurrent use.
type Resolver struct {
	chat      string
	recommend string
	routes    map[agent.ID]string
}

// Option configures a Resolver
type Option func(*Resolver)

// WithChatEndpoint overrides the default chat endpoint
func WithChatEndpoint(path string) Option {
	return func(r *Resolver) {
		if path != "" {
			r.chat = path
		}
	}
}

// WithRecommendationEndpoint overrides the recommendation endpoint
func WithRecommendationEndpoint(path string) Option {
	return func(r *Resolver) {
		if path != "" {
			r.recommend = path
		}
	}
}

// WithRoute sends chat requests for one agent to path
func WithRoute(id agent.ID, path string) Option {
	return func(r *Resolver) {
		if path != "" {
			r.routes[id] = path
		}
	}
}

// NewResolver creates a resolver that sends every agent to ChatPath unless
// configured otherwise.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		chat:      ChatPath,
		recommend: RecommendPath,
		routes:    make(map[agent.ID]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Chat returns the chat endpoint for a
func (r *Resolver) Chat(a agent.Agent) string {
	if path, ok := r.routes[a.ID]; ok {
		return path
	}
	return r.chat
}

// Recommendation returns the recommendation endpoint
func (r *Resolver) Recommendation() string {
	return r.recommend
}

// Default routes every agent to ChatPath
var Default = NewResolver()

// ResolveChatEndpoint returns the chat endpoint for a using Default
func ResolveChatEndpoint(a agent.Agent) string {
	return Default.Chat(a)
}

// ResolveRecommendationEndpoint returns the recommendation endpoint using Default
func ResolveRecommendationEndpoint() string {
	return Default.Recommendation()
}
