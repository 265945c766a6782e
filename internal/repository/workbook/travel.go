package workbook

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/odpc9/attendance-backend-go/internal/domain/meta"
	"github.com/odpc9/attendance-backend-go/internal/domain/travel"
)

var travelColumns = []column{
	{key: "id", header: "id", aliases: []string{"รหัส"}},
	{key: "group_id", header: "รหัสกลุ่ม", aliases: []string{"group"}},
	{key: "person_name", header: "ชื่อ-สกุล", aliases: []string{"ชื่อ", "name", "full_name", "person"}},
	{key: "work_group", header: "กลุ่มงาน", aliases: []string{"department"}},
	{key: "activity", header: "กิจกรรม", aliases: []string{"โครงการ", "project"}},
	{key: "location", header: "สถานที่", aliases: []string{"place"}},
	{key: "start_date", header: "วันที่เริ่ม", aliases: []string{"start", "from"}},
	{key: "end_date", header: "วันที่สิ้นสุด", aliases: []string{"end", "to"}},
	{key: "total_days", header: "จำนวนวัน", aliases: []string{"days"}},
	{key: "companions", header: "ผู้ร่วมเดินทาง", aliases: []string{"ผู้ร่วมเดินทางอื่น"}},
	{key: "attachment_url", header: "ไฟล์แนบ", aliases: []string{"attachment", "file"}},
	{key: "created_at", header: "วันที่บันทึก", aliases: []string{"timestamp", "submitted_at"}},
	{key: "updated_at", header: "วันที่แก้ไข"},
}

var travelCodec = codec[travel.TravelRecord]{
	sheet:   "travel",
	columns: travelColumns,
	decode: func(r sheetRow) travel.TravelRecord {
		t := travel.TravelRecord{
			ID:            rowID(r.get("id"), r.line),
			GroupID:       r.get("group_id"),
			PersonName:    r.get("person_name"),
			WorkGroup:     r.get("work_group"),
			Activity:      r.get("activity"),
			Location:      r.get("location"),
			StartDate:     readDate(r, "start_date"),
			EndDate:       readDate(r, "end_date"),
			Companions:    r.get("companions"),
			AttachmentURL: r.optional("attachment_url"),
			CreatedAt:     readTimestamp(r, "created_at"),
			UpdatedAt:     readTimestamp(r, "updated_at"),
		}
		if t.GroupID == "" {
			t.GroupID = t.ID
		}
		if n, ok := r.count("total_days"); ok {
			t.TotalDays = n
		} else if !t.StartDate.IsZero() && !t.EndDate.IsZero() {
			t.TotalDays = meta.DayCount(t.StartDate, t.EndDate)
		}
		if t.UpdatedAt.IsZero() {
			t.UpdatedAt = t.CreatedAt
		}
		return t
	},
	encode: func(t travel.TravelRecord, _ int) map[string]any {
		return map[string]any{
			"id":             t.ID,
			"group_id":       t.GroupID,
			"person_name":    t.PersonName,
			"work_group":     t.WorkGroup,
			"activity":       t.Activity,
			"location":       t.Location,
			"start_date":     dateCell(t.StartDate),
			"end_date":       dateCell(t.EndDate),
			"total_days":     t.TotalDays,
			"companions":     t.Companions,
			"attachment_url": stringCell(t.AttachmentURL),
			"created_at":     timestampCell(t.CreatedAt),
			"updated_at":     timestampCell(t.UpdatedAt),
		}
	},
}

type travelRepository struct {
	tbl *table[travel.TravelRecord]
}

func NewTravelRepository(store Store, file string) travel.TravelRepository {
	return &travelRepository{tbl: &table[travel.TravelRecord]{store: store, file: file, codec: travelCodec}}
}

func prepareTravel(t travel.TravelRecord, now time.Time) travel.TravelRecord {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.GroupID == "" {
		t.GroupID = t.ID
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	return t
}

// CreateGroup implements travel.TravelRepository.
func (r *travelRepository) CreateGroup(ctx context.Context, records []travel.TravelRecord) ([]travel.TravelRecord, error) {
	now := time.Now()
	created := make([]travel.TravelRecord, len(records))
	for i, t := range records {
		created[i] = prepareTravel(t, now)
	}

	err := r.tbl.mutate(ctx, func(existing []travel.TravelRecord) ([]travel.TravelRecord, error) {
		return append(existing, created...), nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID implements travel.TravelRepository.
func (r *travelRepository) GetByID(ctx context.Context, id string) (travel.TravelRecord, error) {
	records, err := r.tbl.load(ctx)
	if err != nil {
		return travel.TravelRecord{}, err
	}
	for _, t := range records {
		if t.ID == id {
			return t, nil
		}
	}
	return travel.TravelRecord{}, travel.ErrTravelNotFound
}

// ListByGroup implements travel.TravelRepository.
func (r *travelRepository) ListByGroup(ctx context.Context, groupID string) ([]travel.TravelRecord, error) {
	records, err := r.tbl.load(ctx)
	if err != nil {
		return nil, err
	}
	var out []travel.TravelRecord
	for _, t := range records {
		if t.GroupID == groupID {
			out = append(out, t)
		}
	}
	return out, nil
}

// List implements travel.TravelRepository.
func (r *travelRepository) List(ctx context.Context, filter travel.TravelFilter) ([]travel.TravelRecord, int64, error) {
	records, err := r.tbl.load(ctx)
	if err != nil {
		return nil, 0, err
	}

	from, hasFrom := filterDate(filter.StartDate)
	to, hasTo := filterDate(filter.EndDate)

	var matched []travel.TravelRecord
	for _, t := range records {
		if filter.PersonName != nil && *filter.PersonName != "" && !containsFold(t.PersonName, *filter.PersonName) {
			continue
		}
		if filter.WorkGroup != nil && *filter.WorkGroup != "" && t.WorkGroup != *filter.WorkGroup {
			continue
		}
		if filter.GroupID != nil && *filter.GroupID != "" && t.GroupID != *filter.GroupID {
			continue
		}
		if hasFrom && t.EndDate.Before(from) {
			continue
		}
		if hasTo && t.StartDate.After(to) {
			continue
		}
		matched = append(matched, t)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].StartDate.Equal(matched[j].StartDate) {
			return matched[i].StartDate.After(matched[j].StartDate)
		}
		return matched[i].GroupID < matched[j].GroupID
	})

	return paginate(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}

// ListBetween implements travel.TravelRepository. Rows with unreadable dates
// are included.
func (r *travelRepository) ListBetween(ctx context.Context, start, end time.Time) ([]travel.TravelRecord, error) {
	records, err := r.tbl.load(ctx)
	if err != nil {
		return nil, err
	}
	var out []travel.TravelRecord
	for _, t := range records {
		if intersects(t.StartDate, t.EndDate, start, end) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Update implements travel.TravelRepository.
func (r *travelRepository) Update(ctx context.Context, record travel.TravelRecord) error {
	return r.tbl.mutate(ctx, func(records []travel.TravelRecord) ([]travel.TravelRecord, error) {
		for i, t := range records {
			if t.ID == record.ID {
				record.CreatedAt = t.CreatedAt
				record.UpdatedAt = time.Now()
				if record.GroupID == "" {
					record.GroupID = t.GroupID
				}
				records[i] = record
				return records, nil
			}
		}
		return nil, travel.ErrTravelNotFound
	})
}

// Delete implements travel.TravelRepository.
func (r *travelRepository) Delete(ctx context.Context, id string) error {
	return r.tbl.mutate(ctx, func(records []travel.TravelRecord) ([]travel.TravelRecord, error) {
		for i, t := range records {
			if t.ID == id {
				return append(records[:i], records[i+1:]...), nil
			}
		}
		return nil, travel.ErrTravelNotFound
	})
}

// ReplaceAll implements travel.TravelRepository.
func (r *travelRepository) ReplaceAll(ctx context.Context, records []travel.TravelRecord) error {
	now := time.Now()
	out := make([]travel.TravelRecord, len(records))
	for i, t := range records {
		out[i] = prepareTravel(t, now)
	}

	r.tbl.mu.Lock()
	defer r.tbl.mu.Unlock()
	return r.tbl.save(ctx, out)
}
