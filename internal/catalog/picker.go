package catalog

import (
	"math/rand"
	"sync"

	"github.com/glowshop/backend/internal/models"
)

// Picker selects random products when no bestseller is flagged. The random
// source is injected so tests can seed it.
type Picker struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewPicker(r *rand.Rand) *Picker {
	return &Picker{r: r}
}

func (p *Picker) Pick(items []models.Product, count int) []models.Product {
	list := make([]models.Product, len(items))
	copy(list, items)

	p.mu.Lock()
	p.r.Shuffle(len(list), func(i, j int) {
		list[i], list[j] = list[j], list[i]
	})
	p.mu.Unlock()

	if count > len(list) {
		count = len(list)
	}
	return list[:count]
}
