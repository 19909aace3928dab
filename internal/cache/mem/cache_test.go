package mem

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goserg/matchrating/internal/domain"
)

func TestCache_PutGet(t *testing.T) {
	c := New()
	p := domain.Player{ID: uuid.New(), Name: "Ana Paula"}
	c.Put(p)

	tests := []struct {
		name   string
		lookup string
		found  bool
	}{
		{name: "exact", lookup: "Ana Paula", found: true},
		{name: "extra whitespace", lookup: "  Ana   Paula ", found: true},
		{name: "different case", lookup: "ana paula", found: false},
		{name: "unknown", lookup: "Beto", found: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.GetPlayerByName(tt.lookup)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, p.ID, got.ID)
			}
		})
	}
}

func TestCache_Update(t *testing.T) {
	c := New()
	assert.False(t, c.Valid())
	c.Put(domain.Player{ID: uuid.New(), Name: "stale"})

	c.Update([]domain.Player{
		{ID: uuid.New(), Name: "Caro"},
		{ID: uuid.New(), Name: "Ana"},
	})
	assert.True(t, c.Valid())

	_, ok := c.GetPlayerByName("stale")
	assert.False(t, ok)

	players := c.Players()
	require.Len(t, players, 2)
	assert.Equal(t, "Ana", players[0].Name)
	assert.Equal(t, "Caro", players[1].Name)
}

func TestCache_Concurrent(t *testing.T) {
	c := New()
	p := domain.Player{ID: uuid.New(), Name: "Ana"}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Put(p)
		}()
		go func() {
			defer wg.Done()
			c.GetPlayerByName("Ana")
		}()
	}
	wg.Wait()

	got, ok := c.GetPlayerByName("Ana")
	require.True(t, ok)
	assert.Equal(t, p.ID, got.ID)
}
