// Package store provides the indexed in-memory tables backing cognate's
// content and concept-graph data.
package store

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Rec carries the fields shared by every stored row. Row types embed it.
type Rec struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Rec) rec() *Rec { return r }

// Row is implemented by any pointer-to-struct that embeds Rec.
type Row interface {
	rec() *Rec
}

// Query configures a List call. Where maps a registered field name to the
// set of accepted values; a row matches when any of its keys for that field
// is in the set. OrderBy names a registered ordering. Offset is applied
// before Limit.
type Query struct {
	Where   map[string][]string
	OrderBy string
	Desc    bool
	Limit   int
	Offset  int
}

// Table is a single named table of rows keyed by id, with optional
// secondary indexes over registered fields. It is not safe for concurrent
// use; callers serialize access (the engine holds one lock around whole
// operations).
type Table[T Row] struct {
	name     string
	rows     map[string]T
	keys     map[string]func(T) []string
	orders   map[string]func(a, b T) bool
	indexes  map[string]map[string]map[string]struct{}
	onMutate func()
	now      func() time.Time
}

// NewTable creates an empty table. now is used to stamp createdAt/updatedAt
// and is injectable for tests.
func NewTable[T Row](name string, now func() time.Time) *Table[T] {
	if now == nil {
		now = time.Now
	}
	return &Table[T]{
		name:    name,
		rows:    make(map[string]T),
		keys:    make(map[string]func(T) []string),
		orders:  make(map[string]func(a, b T) bool),
		indexes: make(map[string]map[string]map[string]struct{}),
		now:     now,
	}
}

// Name returns the table name used in snapshots.
func (t *Table[T]) Name() string { return t.name }

// Key registers a field extractor. The extractor yields the row's key
// values for that field: one for scalar fields, several for slice fields.
// Registered fields are usable in Query.Where, Search, ByIndex and Join.
func (t *Table[T]) Key(field string, fn func(T) []string) {
	t.keys[field] = fn
}

// Order registers a named ordering usable in Query.OrderBy.
func (t *Table[T]) Order(field string, less func(a, b T) bool) {
	t.orders[field] = less
}

// Index builds a secondary index over a registered field. The index maps
// each key value to the id set of rows holding it, and is maintained by
// every insert, update and delete before the call returns. Index keys are
// scoped to the field, so values from differently-typed fields cannot
// collide.
func (t *Table[T]) Index(field string) {
	idx := make(map[string]map[string]struct{})
	fn := t.keys[field]
	for id, row := range t.rows {
		for _, k := range fn(row) {
			addIndexEntry(idx, k, id)
		}
	}
	t.indexes[field] = idx
}

// OnMutate sets a hook invoked after every successful mutation, once the
// table and its indexes are consistent. The store uses it for autosave.
func (t *Table[T]) OnMutate(fn func()) {
	t.onMutate = fn
}

// Insert stores a row, assigning an id if absent and stamping timestamps.
// An existing id is upserted. Returns the row id. Never fails on
// well-formed input.
func (t *Table[T]) Insert(row T) string {
	r := row.rec()
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	now := t.now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = now
	}
	if old, ok := t.rows[r.ID]; ok {
		t.unindex(old)
	}
	t.rows[r.ID] = row
	t.index(row)
	t.mutated()
	return r.ID
}

// Get returns the row for id.
func (t *Table[T]) Get(id string) (T, bool) {
	row, ok := t.rows[id]
	return row, ok
}

// Update applies mutate to the row for id. Reports false without calling
// mutate when the id is absent. The row's id and createdAt are preserved,
// updatedAt is refreshed, and only indexes whose keys changed are touched.
func (t *Table[T]) Update(id string, mutate func(T)) bool {
	row, ok := t.rows[id]
	if !ok {
		return false
	}
	before := t.indexKeys(row)
	created := row.rec().CreatedAt
	mutate(row)
	r := row.rec()
	r.ID = id
	r.CreatedAt = created
	r.UpdatedAt = t.now()
	after := t.indexKeys(row)
	for field, oldKeys := range before {
		newKeys := after[field]
		if equalKeys(oldKeys, newKeys) {
			continue
		}
		idx := t.indexes[field]
		for _, k := range oldKeys {
			removeIndexEntry(idx, k, id)
		}
		for _, k := range newKeys {
			addIndexEntry(idx, k, id)
		}
	}
	t.mutated()
	return true
}

// Delete removes the row and its index entries. Reports whether a row
// existed. Cascades are the caller's responsibility.
func (t *Table[T]) Delete(id string) bool {
	row, ok := t.rows[id]
	if !ok {
		return false
	}
	t.unindex(row)
	delete(t.rows, id)
	t.mutated()
	return true
}

// Len returns the number of rows.
func (t *Table[T]) Len() int { return len(t.rows) }

// All returns every row ordered by createdAt, then id.
func (t *Table[T]) All() []T {
	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, row)
	}
	sortStable(out)
	return out
}

// List returns rows matching the query. Where is exact- or set-membership
// match on registered fields, OrderBy a registered single-field sort, and
// pagination is offset-then-limit over the sorted slice.
func (t *Table[T]) List(q Query) []T {
	var out []T
	if ids, ok := t.whereViaIndex(q.Where); ok {
		out = make([]T, 0, len(ids))
		for id := range ids {
			row := t.rows[id]
			if t.matches(row, q.Where) {
				out = append(out, row)
			}
		}
		sortStable(out)
	} else {
		for _, row := range t.All() {
			if t.matches(row, q.Where) {
				out = append(out, row)
			}
		}
	}
	if less, ok := t.orders[q.OrderBy]; ok {
		sort.SliceStable(out, func(i, j int) bool {
			if q.Desc {
				return less(out[j], out[i])
			}
			return less(out[i], out[j])
		})
	}
	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// ByIndex returns the rows whose field key equals value, ordered by
// createdAt then id. Uses the secondary index when one exists and falls
// back to a full scan otherwise; the result set is identical either way.
func (t *Table[T]) ByIndex(field, value string) []T {
	if idx, ok := t.indexes[field]; ok {
		ids := idx[value]
		out := make([]T, 0, len(ids))
		for id := range ids {
			out = append(out, t.rows[id])
		}
		sortStable(out)
		return out
	}
	fn, ok := t.keys[field]
	if !ok {
		return nil
	}
	var out []T
	for _, row := range t.All() {
		for _, k := range fn(row) {
			if k == value {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// Search returns rows where term is a case-insensitive substring of any key
// of the listed fields. An empty term matches nothing.
func (t *Table[T]) Search(term string, fields ...string) []T {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	var out []T
	for _, row := range t.All() {
		if t.rowMatchesTerm(row, term, fields) {
			out = append(out, row)
		}
	}
	return out
}

func (t *Table[T]) rowMatchesTerm(row T, term string, fields []string) bool {
	for _, field := range fields {
		fn, ok := t.keys[field]
		if !ok {
			continue
		}
		for _, k := range fn(row) {
			if strings.Contains(strings.ToLower(k), term) {
				return true
			}
		}
	}
	return false
}

// whereViaIndex narrows the candidate id set using the first where clause
// that has an index. Returns ok=false when no clause is indexed.
func (t *Table[T]) whereViaIndex(where map[string][]string) (map[string]struct{}, bool) {
	for field, values := range where {
		idx, ok := t.indexes[field]
		if !ok {
			continue
		}
		ids := make(map[string]struct{})
		for _, v := range values {
			for id := range idx[v] {
				ids[id] = struct{}{}
			}
		}
		return ids, true
	}
	return nil, false
}

func (t *Table[T]) matches(row T, where map[string][]string) bool {
	for field, values := range where {
		fn, ok := t.keys[field]
		if !ok {
			return false
		}
		hit := false
		for _, k := range fn(row) {
			for _, v := range values {
				if k == v {
					hit = true
					break
				}
			}
			if hit {
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func (t *Table[T]) indexKeys(row T) map[string][]string {
	out := make(map[string][]string, len(t.indexes))
	for field := range t.indexes {
		out[field] = t.keys[field](row)
	}
	return out
}

func (t *Table[T]) index(row T) {
	id := row.rec().ID
	for field, idx := range t.indexes {
		for _, k := range t.keys[field](row) {
			addIndexEntry(idx, k, id)
		}
	}
}

func (t *Table[T]) unindex(row T) {
	id := row.rec().ID
	for field, idx := range t.indexes {
		for _, k := range t.keys[field](row) {
			removeIndexEntry(idx, k, id)
		}
	}
}

func (t *Table[T]) mutated() {
	if t.onMutate != nil {
		t.onMutate()
	}
}

func addIndexEntry(idx map[string]map[string]struct{}, key, id string) {
	set, ok := idx[key]
	if !ok {
		set = make(map[string]struct{})
		idx[key] = set
	}
	set[id] = struct{}{}
}

func removeIndexEntry(idx map[string]map[string]struct{}, key, id string) {
	set, ok := idx[key]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(idx, key)
	}
}

func equalKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sortStable[T Row](rows []T) {
	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := rows[i].rec(), rows[j].rec()
		if ri.CreatedAt.Equal(rj.CreatedAt) {
			return ri.ID < rj.ID
		}
		return ri.CreatedAt.Before(rj.CreatedAt)
	})
}
