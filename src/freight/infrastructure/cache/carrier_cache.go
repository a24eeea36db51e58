package cache

import (
	"database/sql"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Carrier representa una transportadora en el cache
type Carrier struct {
	ID   uuid.UUID
	Code string
	Name string
}

// CarrierCache cache en memoria de transportadoras activas
type CarrierCache struct {
	carriers map[uuid.UUID]Carrier
	mu       sync.RWMutex
}

// NewCarrierCache crea un nuevo cache de transportadoras
func NewCarrierCache() *CarrierCache {
	return &CarrierCache{
		carriers: make(map[uuid.UUID]Carrier),
	}
}

// LoadFromDB carga las transportadoras activas desde la base de datos
func (c *CarrierCache) LoadFromDB(db *sql.DB) error {
	log.Println("🔄 Loading carriers into cache...")

	query := `
		SELECT id, code, name
		FROM carriers
		WHERE is_active = true
	`

	rows, err := db.Query(query)
	if err != nil {
		log.Printf("⚠️  Warning: Could not load carriers: %v", err)
		log.Println("⚠️  Continuing without carrier cache")
		return err
	}
	defer rows.Close()

	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for rows.Next() {
		var carrier Carrier
		err := rows.Scan(&carrier.ID, &carrier.Code, &carrier.Name)
		if err != nil {
			log.Printf("⚠️  Error scanning carrier: %v", err)
			continue
		}
		c.carriers[carrier.ID] = carrier
		count++
	}

	log.Printf("✅ Loaded %d carriers into cache", count)

	return nil
}

// Get obtiene una transportadora por ID
func (c *CarrierCache) Get(id uuid.UUID) (Carrier, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	carrier, ok := c.carriers[id]
	return carrier, ok
}

// GetName obtiene solo el nombre de una transportadora por ID
func (c *CarrierCache) GetName(id uuid.UUID) string {
	carrier, ok := c.Get(id)
	if !ok {
		return "Unknown"
	}
	return carrier.Name
}
