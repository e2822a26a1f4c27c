package note

import (
	"context"
	"sort"

	"github.com/go-notes-nosql/internal/domain"
)

// memIndex mimics the store's ordering: note_date on the date index and
// note_id on the base table, both strictly after the start key. DynamoDB
// does not promise an order among date-index rows with equal note_date; the
// fake breaks those ties by note_id only to stay deterministic.
type memIndex struct {
	notes []domain.Note
	calls int
	err   error
}

func (m *memIndex) QueryByDate(_ context.Context, userID string, rng domain.DateRange, after *domain.NoteKey, limit int) ([]domain.Note, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	rows := m.owned(userID)
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].NoteDate != rows[j].NoteDate {
			return rows[i].NoteDate < rows[j].NoteDate
		}
		return rows[i].NoteID < rows[j].NoteID
	})
	var out []domain.Note
	for _, n := range rows {
		if !rng.Contains(n.NoteDate) {
			continue
		}
		if after != nil && (n.NoteDate < after.NoteDate || (n.NoteDate == after.NoteDate && n.NoteID <= after.NoteID)) {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, n)
	}
	return out, nil
}

func (m *memIndex) QueryByOwner(_ context.Context, userID string, after *domain.NoteKey, limit int) ([]domain.Note, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	rows := m.owned(userID)
	sort.Slice(rows, func(i, j int) bool { return rows[i].NoteID < rows[j].NoteID })
	var out []domain.Note
	for _, n := range rows {
		if after != nil && n.NoteID <= after.NoteID {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, n)
	}
	return out, nil
}

func (m *memIndex) owned(userID string) []domain.Note {
	var rows []domain.Note
	for _, n := range m.notes {
		if n.UserID == userID {
			rows = append(rows, n)
		}
	}
	return rows
}
