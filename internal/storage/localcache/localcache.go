package localcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// Cache is the local fallback for availability blocks: a JSON file that
// stands in for the browser localStorage the frontend used. Records are
// partitioned per designer so a load never scans other designers' data.
// Files written by older clients held one flat array under a single key;
// those are migrated to the partitioned layout on first read.
//
// The cache is mutex-guarded within the process only. Two processes writing
// the same file can still overwrite each other, which mirrors the accepted
// two-tabs limitation of the original design.
type Cache struct {
	path string
	mu   sync.Mutex
}

// Record is the tolerant on-disk shape of a cached block. Canonical records
// use the camelCase keys; records synced from the remote table may instead
// carry the snake_case keys and the inverted is_available flag. The
// availability package owns the normalization between the two.
type Record struct {
	ID           any    `json:"id"`
	DesignerID   string `json:"designerId"`
	DayOfWeek    int    `json:"dayOfWeek"`
	SpecificDate string `json:"specificDate"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	IsActive     *bool  `json:"isActive,omitempty"`

	AltDesignerID   string `json:"designer_id,omitempty"`
	AltSpecificDate string `json:"specific_date,omitempty"`
	AltStartTime    string `json:"start_time,omitempty"`
	AltEndTime      string `json:"end_time,omitempty"`
	IsAvailable     *bool  `json:"is_available,omitempty"`
}

// IDString coerces the record id to a string, so that numeric ids written by
// older clients compare equal to their string form.
func (r Record) IDString() string {
	switch v := r.ID.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Designer returns the owning designer id regardless of key style.
func (r Record) Designer() string {
	if r.DesignerID != "" {
		return r.DesignerID
	}

	return r.AltDesignerID
}

func New(path string) *Cache {
	return &Cache{path: path}
}

func (c *Cache) read() (map[string][]Record, error) {
	const op = "storage.localcache.read"

	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string][]Record{}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(data) == 0 {
		return map[string][]Record{}, nil
	}

	var partitioned map[string][]Record
	if err := json.Unmarshal(data, &partitioned); err == nil {
		return partitioned, nil
	}

	// legacy layout: one flat array shared by every designer
	var flat []Record
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	partitioned = map[string][]Record{}
	for _, rec := range flat {
		key := rec.Designer()
		partitioned[key] = append(partitioned[key], rec)
	}

	return partitioned, nil
}

func (c *Cache) write(partitioned map[string][]Record) error {
	const op = "storage.localcache.write"

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	data, err := json.Marshal(partitioned)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Load returns the cached records for one designer.
func (c *Cache) Load(designerID string) ([]Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	partitioned, err := c.read()
	if err != nil {
		return nil, err
	}

	return partitioned[designerID], nil
}

// Append adds a record to the designer's partition.
func (c *Cache) Append(designerID string, rec Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	partitioned, err := c.read()
	if err != nil {
		return err
	}

	partitioned[designerID] = append(partitioned[designerID], rec)

	return c.write(partitioned)
}

// Find locates a record by string-coerced id across all partitions.
func (c *Cache) Find(id string) (Record, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	partitioned, err := c.read()
	if err != nil {
		return Record{}, false, err
	}

	for _, recs := range partitioned {
		for _, rec := range recs {
			if rec.IDString() == id {
				return rec, true, nil
			}
		}
	}

	return Record{}, false, nil
}

// Replace rewrites the record with the matching id in place. Returns false
// when no record matched.
func (c *Cache) Replace(id string, rec Record) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	partitioned, err := c.read()
	if err != nil {
		return false, err
	}

	for key, recs := range partitioned {
		for i := range recs {
			if recs[i].IDString() == id {
				recs[i] = rec
				partitioned[key] = recs
				return true, c.write(partitioned)
			}
		}
	}

	return false, nil
}

// Delete removes the record with the matching id. Deleting an id that is not
// present is a no-op, not an error.
func (c *Cache) Delete(id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	partitioned, err := c.read()
	if err != nil {
		return false, err
	}

	for key, recs := range partitioned {
		for i, rec := range recs {
			if rec.IDString() == id {
				partitioned[key] = append(recs[:i:i], recs[i+1:]...)
				return true, c.write(partitioned)
			}
		}
	}

	return false, nil
}
