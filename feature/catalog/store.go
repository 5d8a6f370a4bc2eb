package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// countriesKey is the cache row holding the country/provider catalog.
const countriesKey = "countries"

// catalogRow is one persisted cache entry.
type catalogRow struct {
	Key       string    `gorm:"primaryKey;column:key"`
	Payload   []byte    `gorm:"column:payload"`
	FetchedAt time.Time `gorm:"column:fetched_at"`
}

// TableName implements the gorm naming override.
func (catalogRow) TableName() string {
	return "catalog_cache"
}

// CatalogStore persists the long-lived provider catalog next to the
// rest of the application state, so a weekly refresh survives restarts.
type CatalogStore struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewCatalogStore migrates the cache table and returns the store.
func NewCatalogStore(db *gorm.DB, ttl time.Duration) (*CatalogStore, error) {
	if err := db.AutoMigrate(&catalogRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate catalog cache: %w", err)
	}
	return &CatalogStore{db: db, ttl: ttl}, nil
}

// GetCountries returns the persisted catalog if present and fresh.
func (cs *CatalogStore) GetCountries() (map[string]Country, bool) {
	var row catalogRow
	err := cs.db.First(&row, "key = ?", countriesKey).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			// Treat storage failures as a miss; the caller refetches.
			return nil, false
		}
		return nil, false
	}

	if cs.ttl > 0 && time.Since(row.FetchedAt) > cs.ttl {
		return nil, false
	}

	var countries map[string]Country
	if err := json.Unmarshal(row.Payload, &countries); err != nil {
		return nil, false
	}
	return countries, true
}

// PutCountries stores the catalog with a fresh timestamp.
func (cs *CatalogStore) PutCountries(countries map[string]Country) error {
	payload, err := json.Marshal(countries)
	if err != nil {
		return fmt.Errorf("failed to encode country catalog: %w", err)
	}

	row := catalogRow{Key: countriesKey, Payload: payload, FetchedAt: time.Now()}
	return cs.db.Save(&row).Error
}
