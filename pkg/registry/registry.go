// Package registry holds the provisioned topology of every guild for the lifetime of the process.
package registry

import (
	"sync"

	"github.com/Jacobbrewer1/den/pkg/entities"
)

// Registry is a guild ID to topology store. Entries are only ever replaced as a whole.
type Registry interface {
	// Get returns a copy of the guild's topology.
	Get(guildID string) (*entities.GuildTopology, bool)

	// Replace stores the topology for its guild, replacing any previous entry.
	Replace(topology *entities.GuildTopology)

	// ReplaceIfAbsent stores the topology only if the guild has no entry yet. It reports whether it was stored.
	ReplaceIfAbsent(topology *entities.GuildTopology) bool

	// Remove drops the guild's entry.
	Remove(guildID string)

	// GuildIDs returns the IDs of every guild with an entry.
	GuildIDs() []string
}

type memoryRegistry struct {
	mu      sync.RWMutex
	entries map[string]*entities.GuildTopology
}

// New creates an empty in-memory registry.
func New() Registry {
	return &memoryRegistry{
		entries: make(map[string]*entities.GuildTopology),
	}
}

func (r *memoryRegistry) Get(guildID string) (*entities.GuildTopology, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.entries[guildID]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

func (r *memoryRegistry) Replace(topology *entities.GuildTopology) {
	if topology == nil || topology.GuildID == "" {
		return
	}

	c := topology.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[c.GuildID] = c
}

func (r *memoryRegistry) ReplaceIfAbsent(topology *entities.GuildTopology) bool {
	if topology == nil || topology.GuildID == "" {
		return false
	}

	c := topology.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[c.GuildID]; ok {
		return false
	}
	r.entries[c.GuildID] = c
	return true
}

func (r *memoryRegistry) Remove(guildID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, guildID)
}

func (r *memoryRegistry) GuildIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	return ids
}
