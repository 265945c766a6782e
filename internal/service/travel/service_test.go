package travel

import (
	"context"
	"errors"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/odpc9/attendance-backend-go/internal/domain/meta"
	"github.com/odpc9/attendance-backend-go/internal/domain/travel"
	"github.com/odpc9/attendance-backend-go/internal/service/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memTravelRepo keeps rows in insertion order.
type memTravelRepo struct {
	rows []travel.TravelRecord
}

func (m *memTravelRepo) CreateGroup(_ context.Context, records []travel.TravelRecord) ([]travel.TravelRecord, error) {
	m.rows = append(m.rows, records...)
	return records, nil
}

func (m *memTravelRepo) GetByID(_ context.Context, id string) (travel.TravelRecord, error) {
	for _, r := range m.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return travel.TravelRecord{}, travel.ErrTravelNotFound
}

func (m *memTravelRepo) ListByGroup(_ context.Context, groupID string) ([]travel.TravelRecord, error) {
	var out []travel.TravelRecord
	for _, r := range m.rows {
		if r.GroupID == groupID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memTravelRepo) List(_ context.Context, f travel.TravelFilter) ([]travel.TravelRecord, int64, error) {
	var out []travel.TravelRecord
	for _, r := range m.rows {
		if f.GroupID != nil && r.GroupID != *f.GroupID {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PersonName < out[j].PersonName })
	return out, int64(len(out)), nil
}

func (m *memTravelRepo) ListBetween(context.Context, time.Time, time.Time) ([]travel.TravelRecord, error) {
	return nil, errors.New("not used")
}

func (m *memTravelRepo) Update(_ context.Context, record travel.TravelRecord) error {
	for i, r := range m.rows {
		if r.ID == record.ID {
			m.rows[i] = record
			return nil
		}
	}
	return travel.ErrTravelNotFound
}

func (m *memTravelRepo) Delete(_ context.Context, id string) error {
	for i, r := range m.rows {
		if r.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return travel.ErrTravelNotFound
}

func (m *memTravelRepo) ReplaceAll(_ context.Context, records []travel.TravelRecord) error {
	m.rows = records
	return nil
}

type stubFileService struct{}

func (stubFileService) UploadLeaveAttachment(context.Context, io.Reader, string) (string, error) {
	return "", errors.New("not used")
}

func (stubFileService) UploadTravelAttachment(_ context.Context, groupID string, _ io.Reader, filename string) (string, error) {
	return "https://files.example/travel/" + groupID + "/" + filename, nil
}

func groupRequest(travelers ...string) travel.CreateTravelRequest {
	return travel.CreateTravelRequest{
		Travelers: travelers,
		WorkGroup: meta.WorkGroups[1],
		Activity:  "สอบสวนโรค",
		Location:  "จ.บุรีรัมย์",
		StartDate: "2025-05-13",
		EndDate:   "2025-05-14",
	}
}

func companionsOf(rows []travel.TravelRecord) map[string]string {
	out := map[string]string{}
	for _, r := range rows {
		out[r.PersonName] = r.Companions
	}
	return out
}

func TestCreateTravel_ExpandsGroup(t *testing.T) {
	// Arrange
	repo := &memTravelRepo{}
	svc := NewTravelService(repo, stubFileService{}, nil)

	// Act
	resp, err := svc.CreateTravel(context.Background(), groupRequest("A", "B", "C", " B "))

	// Assert
	require.NoError(t, err)
	require.Len(t, resp.Travels, 3)
	for _, tr := range resp.Travels {
		assert.Equal(t, resp.GroupID, tr.GroupID)
		assert.Equal(t, 2, tr.TotalDays)
		assert.Len(t, tr.Companions, 2)
		assert.NotContains(t, tr.Companions, tr.PersonName)
	}
	assert.Equal(t, map[string]string{"A": "B, C", "B": "A, C", "C": "A, B"}, companionsOf(repo.rows))
}

func TestCreateTravel_MergesSpellingsOfOnePerson(t *testing.T) {
	// Arrange
	repo := &memTravelRepo{}
	svc := NewTravelService(repo, stubFileService{}, nil)

	// Act
	resp, err := svc.CreateTravel(context.Background(), groupRequest("Anan", "anan", "สมชาย ใจดี", "สมชาย  ใจดี"))

	// Assert
	require.NoError(t, err)
	require.Len(t, resp.Travels, 2)
	assert.Equal(t, map[string]string{"Anan": "สมชาย ใจดี", "สมชาย ใจดี": "Anan"}, companionsOf(repo.rows))
}

func TestCreateTravel_UsesIdentityAliases(t *testing.T) {
	// Arrange
	repo := &memTravelRepo{}
	identity := reconcile.NewIdentity(reconcile.IdentityPolicy{
		Aliases:     map[string]string{"Tom": "Thomas"},
		StripTitles: true,
	})
	svc := NewTravelService(repo, stubFileService{}, identity)

	// Act
	resp, err := svc.CreateTravel(context.Background(), groupRequest("Thomas", "Tom", "นายสมชาย", "สมชาย"))

	// Assert
	require.NoError(t, err)
	require.Len(t, resp.Travels, 2)
	assert.Equal(t, map[string]string{"Thomas": "นายสมชาย", "นายสมชาย": "Thomas"}, companionsOf(repo.rows))
}

func TestCreateTravel_RequiresTraveler(t *testing.T) {
	svc := NewTravelService(&memTravelRepo{}, stubFileService{}, nil)

	_, err := svc.CreateTravel(context.Background(), groupRequest())

	assert.Error(t, err)
}

func TestUpdateTravel_RenameSyncsCompanions(t *testing.T) {
	// Arrange
	repo := &memTravelRepo{}
	svc := NewTravelService(repo, stubFileService{}, nil)
	created, err := svc.CreateTravel(context.Background(), groupRequest("A", "B", "C"))
	require.NoError(t, err)
	newName := "D"

	// Act
	updated, err := svc.UpdateTravel(context.Background(), travel.UpdateTravelRequest{
		ID:         created.Travels[1].ID,
		PersonName: &newName,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "D", updated.PersonName)
	assert.Equal(t, map[string]string{"A": "D, C", "D": "A, C", "C": "A, D"}, companionsOf(repo.rows))
}

func TestDeleteTravel_DropsFromCompanions(t *testing.T) {
	repo := &memTravelRepo{}
	svc := NewTravelService(repo, stubFileService{}, nil)
	created, err := svc.CreateTravel(context.Background(), groupRequest("A", "B", "C"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTravel(context.Background(), created.Travels[0].ID))

	assert.Equal(t, map[string]string{"B": "C", "C": "B"}, companionsOf(repo.rows))
}

func TestReplaceTravels_RemapsLegacyGroups(t *testing.T) {
	// Arrange
	repo := &memTravelRepo{}
	svc := NewTravelService(repo, stubFileService{}, nil)
	keep := uuid.NewString()

	// Act
	n, err := svc.ReplaceTravels(context.Background(), travel.ReplaceTravelsRequest{Travels: []travel.TravelRow{
		{ID: keep, GroupID: "row-2", PersonName: "A", StartDate: "2568-05-01", EndDate: "2568-05-02", Companions: "B"},
		{ID: "row-3", GroupID: "row-2", PersonName: "B", StartDate: "2025-05-01", EndDate: "2025-05-02", Companions: "A"},
		{PersonName: "C", StartDate: "2025-06-01", EndDate: "2025-06-01"},
	}})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, repo.rows, 3)
	assert.Equal(t, keep, repo.rows[0].ID)
	assert.Equal(t, repo.rows[0].GroupID, repo.rows[1].GroupID)
	_, err = uuid.Parse(repo.rows[0].GroupID)
	assert.NoError(t, err)
	assert.Equal(t, repo.rows[2].ID, repo.rows[2].GroupID)
	assert.Equal(t, 2, repo.rows[0].TotalDays)
	assert.Equal(t, "2025-05-01", repo.rows[0].StartDate.Format("2006-01-02"))
}

func TestListTravels_Showing(t *testing.T) {
	repo := &memTravelRepo{}
	svc := NewTravelService(repo, stubFileService{}, nil)
	created, err := svc.CreateTravel(context.Background(), groupRequest("A", "B"))
	require.NoError(t, err)

	resp, err := svc.ListTravels(context.Background(), travel.TravelFilter{GroupID: &created.GroupID})

	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.TotalCount)
	assert.Equal(t, "1-2 of 2 results", resp.Showing)
	assert.Equal(t, 1, resp.TotalPages)
}
