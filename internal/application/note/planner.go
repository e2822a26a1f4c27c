package note

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/go-notes-nosql/internal/domain"
	"github.com/go-notes-nosql/internal/pkg/cursor"
	"github.com/go-notes-nosql/internal/pkg/timebucket"
)

// Index reads raw note rows in key order, starting strictly after after.
// Rows are returned whether or not they are soft-deleted.
type Index interface {
	QueryByDate(ctx context.Context, userID string, rng domain.DateRange, after *domain.NoteKey, limit int) ([]domain.Note, error)
	QueryByOwner(ctx context.Context, userID string, after *domain.NoteKey, limit int) ([]domain.Note, error)
}

// Predicate selects the notes a page is drawn from: either a time bucket,
// served by the date index, or a title search over the owner's partition.
type Predicate struct {
	kind  cursor.Kind
	scope string
	rng   domain.DateRange
	query string
}

// BucketPredicate matches notes whose note_date falls in rng.
func BucketPredicate(b timebucket.Bucket, rng domain.DateRange) Predicate {
	return Predicate{kind: cursor.KindDate, scope: string(b), rng: rng}
}

// TitleContains matches notes whose title contains q, ignoring case.
func TitleContains(q string) (Predicate, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return Predicate{}, fmt.Errorf("search query is required: %w", domain.ErrValidation)
	}
	return Predicate{
		kind:  cursor.KindOwner,
		scope: "q:" + strconv.FormatUint(xxhash.Sum64String(q), 36),
		query: q,
	}, nil
}

func (p Predicate) keep(n *domain.Note) bool {
	if n.IsDeleted {
		return false
	}
	if p.query != "" && !strings.Contains(strings.ToLower(n.Title), p.query) {
		return false
	}
	return true
}

// Page is one slice of a listing. NextCursor is nil once the sequence is exhausted.
type Page struct {
	Items      []domain.Note `json:"items"`
	NextCursor *string       `json:"next_cursor"`
}

// Planner turns a predicate into bounded rounds of index reads, filtering each
// batch until a full page is collected.
type Planner struct {
	index     Index
	maxRounds int
}

func NewPlanner(index Index, maxRounds int) *Planner {
	if maxRounds < 1 {
		maxRounds = 1
	}
	return &Planner{index: index, maxRounds: maxRounds}
}

// Page returns up to limit notes matching pred, resuming after rawCursor.
//
// Each round requests limit+1 raw rows. Filtering continues from the last
// examined raw row, not the last kept one. When maxRounds is reached before
// the page fills, the cursor points at the last examined row so the client
// can continue from there.
func (p *Planner) Page(ctx context.Context, userID string, pred Predicate, rawCursor string, limit int) (*Page, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive: %w", domain.ErrValidation)
	}
	after, empty, err := p.resume(userID, pred, rawCursor)
	if err != nil {
		return nil, err
	}
	items := make([]domain.Note, 0, limit)
	if empty {
		return &Page{Items: items}, nil
	}

	for rounds := 1; ; rounds++ {
		rows, err := p.fetch(ctx, userID, pred, after, limit+1)
		if err != nil {
			return nil, err
		}
		for i := range rows {
			if len(items) == limit {
				// A raw row exists past the last kept item.
				return p.page(items, pred, items[limit-1].Key()), nil
			}
			k := rows[i].Key()
			after = &k
			if pred.keep(&rows[i]) {
				items = append(items, rows[i])
			}
		}
		if len(rows) < limit+1 {
			return &Page{Items: items}, nil
		}
		if rounds >= p.maxRounds {
			return p.page(items, pred, *after), nil
		}
	}
}

// resume validates rawCursor against the caller and predicate. A date cursor
// that has fallen below the bucket's range restarts at the range start; one
// beyond its end leaves nothing to read.
func (p *Planner) resume(userID string, pred Predicate, rawCursor string) (after *domain.NoteKey, empty bool, err error) {
	k, err := cursor.Decode(rawCursor)
	if err != nil || k == nil {
		return nil, false, err
	}
	if k.Kind != pred.kind || k.Scope != pred.scope || k.UserID != userID {
		return nil, false, fmt.Errorf("cursor belongs to another listing: %w", domain.ErrInvalidCursor)
	}
	nk := k.NoteKey()
	if pred.kind == cursor.KindDate {
		if pred.rng.From != nil && nk.NoteDate < *pred.rng.From {
			return nil, false, nil
		}
		if pred.rng.To != nil && nk.NoteDate >= *pred.rng.To {
			return nil, true, nil
		}
	}
	return &nk, false, nil
}

func (p *Planner) fetch(ctx context.Context, userID string, pred Predicate, after *domain.NoteKey, n int) ([]domain.Note, error) {
	if pred.kind == cursor.KindDate {
		return p.index.QueryByDate(ctx, userID, pred.rng, after, n)
	}
	return p.index.QueryByOwner(ctx, userID, after, n)
}

func (p *Planner) page(items []domain.Note, pred Predicate, last domain.NoteKey) *Page {
	next := cursor.Encode(cursor.Key{
		Kind:     pred.kind,
		Scope:    pred.scope,
		UserID:   last.UserID,
		NoteDate: last.NoteDate,
		NoteID:   last.NoteID,
	})
	return &Page{Items: items, NextCursor: &next}
}
