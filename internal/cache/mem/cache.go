package mem

import (
	"sort"
	"sync"

	"github.com/goserg/matchrating/internal/domain"
	"github.com/goserg/matchrating/internal/normalize"
)

// Cache keeps known players by normalized name.
type Cache struct {
	mu      sync.RWMutex
	valid   bool
	players map[string]domain.Player
}

func New() *Cache {
	return &Cache{
		players: make(map[string]domain.Player),
	}
}

// Update replaces the cached contents and marks the cache as complete.
func (c *Cache) Update(players []domain.Player) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.players = make(map[string]domain.Player, len(players))
	for i := range players {
		c.players[normalize.Name(players[i].Name)] = players[i]
	}
	c.valid = true
}

func (c *Cache) Put(player domain.Player) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.players[normalize.Name(player.Name)] = player
}

func (c *Cache) GetPlayerByName(name string) (domain.Player, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	player, ok := c.players[normalize.Name(name)]
	return player, ok
}

// Valid reports whether the cache was filled with the full player list.
func (c *Cache) Valid() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.valid
}

// Players returns the cached players sorted by name.
func (c *Cache) Players() []domain.Player {
	c.mu.RLock()
	players := make([]domain.Player, 0, len(c.players))
	for _, player := range c.players {
		players = append(players, player)
	}
	c.mu.RUnlock()

	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Name < players[j].Name
	})
	return players
}
