package availability

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"regexp"
	"time"

	"github.com/Djatila/studionailart-sub001/internal/models"
	"github.com/Djatila/studionailart-sub001/internal/slots"
	"github.com/Djatila/studionailart-sub001/internal/storage/localcache"
	"github.com/Djatila/studionailart-sub001/pkg/sl"
)

// Remote is the designer-scoped slice of the remote collection API the store
// needs. The postgres storage satisfies it.
type Remote interface {
	ListAvailability(ctx context.Context, designerID string) ([]*models.AvailabilityRow, error)
	InsertAvailability(ctx context.Context, row *models.AvailabilityRow) (string, error)
	UpdateAvailabilityFlag(ctx context.Context, id string, isAvailable bool) error
	DeleteAvailability(ctx context.Context, id string) error
}

// WriteResult reports which backend a two-phase write reached. The two can
// diverge; that divergence is an accepted outcome of the dual-write design
// and is surfaced here instead of being swallowed.
type WriteResult struct {
	RemoteOK bool
	LocalOK  bool
}

var uuidPattern = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// IsRemoteID reports whether the id came from the remote store. Ids minted
// locally look like local-<unixmillis>-<index>-<random> and never reach the
// remote delete path.
func IsRemoteID(id string) bool {
	return uuidPattern.MatchString(id)
}

// Store owns a designer's blocked intervals across both backends and is the
// single place the is_available/isActive inversion is applied.
type Store struct {
	remote Remote
	cache  *localcache.Cache
	log    *slog.Logger
}

func New(remote Remote, cache *localcache.Cache, log *slog.Logger) *Store {
	return &Store{remote: remote, cache: cache, log: log}
}

// NormalizeRow maps a remote row onto the block shape every caller consumes.
// The remote column is is_available; a live block is the inverse.
func NormalizeRow(row *models.AvailabilityRow) (models.AvailabilityBlock, bool) {
	if row == nil || row.SpecificDate == nil || *row.SpecificDate == "" {
		return models.AvailabilityBlock{}, false
	}

	return models.AvailabilityBlock{
		ID:           row.ID,
		DesignerID:   row.DesignerID,
		DayOfWeek:    row.DayOfWeek,
		SpecificDate: *row.SpecificDate,
		StartTime:    row.StartTime,
		EndTime:      row.EndTime,
		IsActive:     !row.IsAvailable,
	}, true
}

// NormalizeRecord maps a cached record onto the same shape, coalescing the
// camelCase and snake_case key styles. When a record carries is_available it
// wins over isActive, inverted; records with neither flag default to active.
func NormalizeRecord(rec localcache.Record) (models.AvailabilityBlock, bool) {
	date := rec.SpecificDate
	if date == "" {
		date = rec.AltSpecificDate
	}
	if date == "" {
		return models.AvailabilityBlock{}, false
	}

	start := rec.StartTime
	if start == "" {
		start = rec.AltStartTime
	}

	end := rec.EndTime
	if end == "" {
		end = rec.AltEndTime
	}

	active := true
	switch {
	case rec.IsAvailable != nil:
		active = !*rec.IsAvailable
	case rec.IsActive != nil:
		active = *rec.IsActive
	}

	return models.AvailabilityBlock{
		ID:           rec.IDString(),
		DesignerID:   rec.Designer(),
		DayOfWeek:    rec.DayOfWeek,
		SpecificDate: date,
		StartTime:    start,
		EndTime:      end,
		IsActive:     active,
	}, true
}

// LoadBlocks returns the designer's normalized blocks. The remote store is
// tried first; on any failure the local cache answers instead. Total failure
// yields an empty list, never an error: a failed load must not block the
// whole calendar.
func (s *Store) LoadBlocks(ctx context.Context, designerID string) []models.AvailabilityBlock {
	const op = "availability.Store.LoadBlocks"

	rows, err := s.remote.ListAvailability(ctx, designerID)
	if err == nil {
		blocks := make([]models.AvailabilityBlock, 0, len(rows))
		for _, row := range rows {
			if block, ok := NormalizeRow(row); ok {
				blocks = append(blocks, block)
			}
		}
		if len(blocks) > 0 {
			return blocks
		}
	} else {
		s.log.Warn("Remote availability load failed, falling back to cache",
			slog.String("op", op),
			slog.String("designer_id", designerID),
			sl.Err(err),
		)
	}

	recs, err := s.cache.Load(designerID)
	if err != nil {
		s.log.Error("Local availability load failed", slog.String("op", op), sl.Err(err))
		return []models.AvailabilityBlock{}
	}

	blocks := make([]models.AvailabilityBlock, 0, len(recs))
	for _, rec := range recs {
		if block, ok := NormalizeRecord(rec); ok {
			blocks = append(blocks, block)
		}
	}

	return blocks
}

// CreateBlock persists a new active block for the date. The write is
// two-phase: remote insert first, then the local cache unconditionally, so
// the block survives a remote outage. When the remote insert succeeds the
// remote id is kept; otherwise a local id is minted.
func (s *Store) CreateBlock(ctx context.Context, designerID, specificDate, startTime, endTime string) (models.AvailabilityBlock, WriteResult) {
	const op = "availability.Store.CreateBlock"

	var res WriteResult

	block := models.AvailabilityBlock{
		DesignerID:   designerID,
		DayOfWeek:    dayOfWeek(specificDate),
		SpecificDate: specificDate,
		StartTime:    startTime,
		EndTime:      endTime,
		IsActive:     true,
	}

	row := &models.AvailabilityRow{
		DesignerID:   designerID,
		DayOfWeek:    block.DayOfWeek,
		StartTime:    startTime,
		EndTime:      endTime,
		IsAvailable:  false,
		SpecificDate: &specificDate,
	}

	id, err := s.remote.InsertAvailability(ctx, row)
	if err != nil {
		s.log.Warn("Remote block insert failed, keeping local copy",
			slog.String("op", op),
			slog.String("designer_id", designerID),
			sl.Err(err),
		)
	} else {
		res.RemoteOK = true
		block.ID = id
	}

	if block.ID == "" {
		block.ID = newLocalID(0)
	}

	active := true
	rec := localcache.Record{
		ID:           block.ID,
		DesignerID:   designerID,
		DayOfWeek:    block.DayOfWeek,
		SpecificDate: specificDate,
		StartTime:    startTime,
		EndTime:      endTime,
		IsActive:     &active,
	}

	if err := s.cache.Append(designerID, rec); err != nil {
		s.log.Error("Local block write failed", slog.String("op", op), sl.Err(err))
	} else {
		res.LocalOK = true
	}

	return block, res
}

// BlockHour expands a single-hour selection into a one-hour window and
// creates the block: hour 8 becomes 08:00-09:00, hour 23 wraps to 00:00.
func (s *Store) BlockHour(ctx context.Context, designerID, specificDate string, hour int) (models.AvailabilityBlock, WriteResult) {
	start := fmt.Sprintf("%02d:00", hour)
	end := fmt.Sprintf("%02d:00", (hour+1)%24)

	return s.CreateBlock(ctx, designerID, specificDate, start, end)
}

// DeleteBlock removes a block from both backends. Only UUID-shaped ids are
// attempted remotely; a local-format id is the designed signal that there is
// nothing to delete there. The local removal always runs. A missing id is a
// no-op on either side.
func (s *Store) DeleteBlock(ctx context.Context, id string) WriteResult {
	const op = "availability.Store.DeleteBlock"

	var res WriteResult

	if IsRemoteID(id) {
		if err := s.remote.DeleteAvailability(ctx, id); err != nil {
			s.log.Warn("Remote block delete failed",
				slog.String("op", op),
				slog.String("id", id),
				sl.Err(err),
			)
		} else {
			res.RemoteOK = true
		}
	}

	if _, err := s.cache.Delete(id); err != nil {
		s.log.Error("Local block delete failed", slog.String("op", op), sl.Err(err))
	} else {
		res.LocalOK = true
	}

	return res
}

// ToggleBlock flips the block's active flag and rewrites the record, keeping
// its id. The remote update pushes the inverted flag: a block that was live
// becomes is_available=true.
func (s *Store) ToggleBlock(ctx context.Context, id string) (models.AvailabilityBlock, WriteResult, bool) {
	const op = "availability.Store.ToggleBlock"

	var res WriteResult

	rec, found, err := s.cache.Find(id)
	if err != nil || !found {
		if err != nil {
			s.log.Error("Local block lookup failed", slog.String("op", op), sl.Err(err))
		}
		return models.AvailabilityBlock{}, res, false
	}

	block, ok := NormalizeRecord(rec)
	if !ok {
		return models.AvailabilityBlock{}, res, false
	}

	if IsRemoteID(id) {
		// newIsAvailable mirrors the old active state
		if err := s.remote.UpdateAvailabilityFlag(ctx, id, block.IsActive); err != nil {
			s.log.Warn("Remote block toggle failed",
				slog.String("op", op),
				slog.String("id", id),
				sl.Err(err),
			)
		} else {
			res.RemoteOK = true
		}
	}

	block.IsActive = !block.IsActive

	active := block.IsActive
	updated := localcache.Record{
		ID:           rec.ID,
		DesignerID:   block.DesignerID,
		DayOfWeek:    block.DayOfWeek,
		SpecificDate: block.SpecificDate,
		StartTime:    block.StartTime,
		EndTime:      block.EndTime,
		IsActive:     &active,
	}

	if _, err := s.cache.Replace(id, updated); err != nil {
		s.log.Error("Local block toggle failed", slog.String("op", op), sl.Err(err))
	} else {
		res.LocalOK = true
	}

	return block, res, true
}

func dayOfWeek(specificDate string) int {
	t, err := time.Parse("2006-01-02", slots.NormalizeDate(specificDate))
	if err != nil {
		return 0
	}

	return int(t.Weekday())
}

func newLocalID(index int) string {
	return fmt.Sprintf("local-%d-%d-%s", time.Now().UnixMilli(), index, randomSuffix(9))
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36[rand.Intn(len(base36))]
	}

	return string(b)
}
