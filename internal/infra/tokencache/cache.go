package tokencache

import (
	"sync"
	"time"
)

// Cache guarda um único token de acesso com expiração. Vale só para o processo atual;
// cada instância do serviço mantém o seu.
type Cache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
	skew      time.Duration
	now       func() time.Time
}

func New(skew time.Duration) *Cache {
	return &Cache{skew: skew, now: time.Now}
}

// Get devolve o token se ainda falta mais que o skew para ele expirar.
func (c *Cache) Get() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token == "" || !c.now().Add(c.skew).Before(c.expiresAt) {
		return "", false
	}
	return c.token, true
}

func (c *Cache) Set(token string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = token
	c.expiresAt = c.now().Add(ttl)
}

func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = ""
	c.expiresAt = time.Time{}
}

func (c *Cache) ExpiresAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expiresAt
}
