package agent

import "fmt"

// ID identifies an agent in the catalog
type ID string

const (
	DataAgent ID = "data-agent"
)

// FallbackID is the agent used whenever a conversation has none selected
const FallbackID = DataAgent

// LLM describes the language model an agent is bound to
type LLM struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Agent is a selectable configuration for a conversational backend
type Agent struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	// MaxLength is the character budget for prompt plus history
	MaxLength int `json:"maxLength"`
	// TokenLimit caps the response size in tokens
	TokenLimit int `json:"tokenLimit"`
	// LLM is nil until the agent is bound to a model
	LLM *LLM `json:"llm"`
}

// catalog lists every agent in declaration order. It is never written after init.
var catalog = []Agent{
	{
		ID:         DataAgent,
		Name:       "Data Agent",
		MaxLength:  12000,
		TokenLimit: 4000,
	},
}

var byID map[ID]int

func init() {
	if err := validate(catalog); err != nil {
		panic(err)
	}
	byID = make(map[ID]int, len(catalog))
	for i, a := range catalog {
		byID[a.ID] = i
	}
}

// validate checks the static table: non-empty, unique ids, positive limits
// and a resolvable fallback.
func validate(agents []Agent) error {
	if len(agents) == 0 {
		return fmt.Errorf("agent catalog is empty")
	}
	seen := make(map[ID]struct{}, len(agents))
	for _, a := range agents {
		if a.ID == "" {
			return fmt.Errorf("agent %q has an empty id", a.Name)
		}
		if _, dup := seen[a.ID]; dup {
			return fmt.Errorf("duplicate agent id %q", a.ID)
		}
		if a.MaxLength <= 0 || a.TokenLimit <= 0 {
			return fmt.Errorf("agent %q has non-positive limits", a.ID)
		}
		seen[a.ID] = struct{}{}
	}
	if _, ok := seen[FallbackID]; !ok {
		return fmt.Errorf("fallback agent %q is not in the catalog", FallbackID)
	}
	return nil
}

// List returns every agent in declaration order.
// The returned slice is a copy; modifying it does not affect the catalog.
func List() []Agent {
	agents := make([]Agent, len(catalog))
	for i, a := range catalog {
		agents[i] = a.clone()
	}
	return agents
}

// Lookup returns the agent with the given id. The boolean is false when no
// agent matches.
func Lookup(id ID) (Agent, bool) {
	i, ok := byID[id]
	if !ok {
		return Agent{}, false
	}
	return catalog[i].clone(), true
}

// Fallback returns the catalog entry for FallbackID
func Fallback() Agent {
	a, _ := Lookup(FallbackID)
	return a
}

func (a Agent) clone() Agent {
	if a.LLM != nil {
		llm := *a.LLM
		a.LLM = &llm
	}
	return a
}
