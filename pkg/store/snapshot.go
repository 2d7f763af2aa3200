package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SnapshotVersion stamps serialized blobs to allow future migration.
const SnapshotVersion = 1

// ErrCorruptSnapshot indicates a blob that could not be decoded into the
// current schema. Restore fails atomically on it; startup load treats it as
// an empty store.
var ErrCorruptSnapshot = errors.New("corrupt snapshot blob")

// snapshotBlob is the wire shape: {version, timestamp, tables:{name:[rows]}}.
type snapshotBlob struct {
	Version   int                        `json:"version"`
	Timestamp time.Time                  `json:"timestamp"`
	Tables    map[string]json.RawMessage `json:"tables"`
}

// Snapshot serializes every table into a single versioned JSON blob.
func (s *Store) Snapshot() ([]byte, error) {
	blob := snapshotBlob{
		Version:   SnapshotVersion,
		Timestamp: s.now(),
		Tables:    make(map[string]json.RawMessage, 5),
	}
	if err := addTable(blob.Tables, TableContents, s.Contents.All()); err != nil {
		return nil, err
	}
	if err := addTable(blob.Tables, TableAnalyses, s.Analyses.All()); err != nil {
		return nil, err
	}
	if err := addTable(blob.Tables, TableConcepts, s.Concepts.All()); err != nil {
		return nil, err
	}
	if err := addTable(blob.Tables, TableRelationships, s.Relationships.All()); err != nil {
		return nil, err
	}
	if err := addTable(blob.Tables, TableLinks, s.Links.All()); err != nil {
		return nil, err
	}
	return json.Marshal(blob)
}

func addTable[T Row](tables map[string]json.RawMessage, name string, rows []T) error {
	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal table %s: %w", name, err)
	}
	tables[name] = raw
	return nil
}

// staging holds a fully decoded snapshot before any table is touched, so a
// failed decode leaves the prior in-memory state untouched.
type staging struct {
	contents      []*Content
	analyses      []*Analysis
	concepts      []*Concept
	relationships []*Relationship
	links         []*ConceptContent
}

// Restore replaces all tables from a snapshot blob, atomically from the
// caller's perspective: the blob is decoded in full first, then the tables
// are cleared, reloaded and every index rebuilt. A corrupt blob returns
// ErrCorruptSnapshot and changes nothing.
func (s *Store) Restore(data []byte) error {
	st, err := decodeSnapshot(data)
	if err != nil {
		return err
	}
	s.muted = true
	s.initTables()
	for _, c := range st.contents {
		s.Contents.Insert(c)
	}
	for _, a := range st.analyses {
		s.Analyses.Insert(a)
	}
	for _, c := range st.concepts {
		s.Concepts.Insert(c)
	}
	for _, r := range st.relationships {
		s.Relationships.Insert(r)
	}
	for _, l := range st.links {
		s.Links.Insert(l)
	}
	s.muted = false
	s.autosave()
	return nil
}

func decodeSnapshot(data []byte) (*staging, error) {
	var blob snapshotBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if blob.Version < 1 || blob.Version > SnapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptSnapshot, blob.Version)
	}
	st := &staging{}
	if err := decodeTable(blob.Tables, TableContents, &st.contents); err != nil {
		return nil, err
	}
	if err := decodeTable(blob.Tables, TableAnalyses, &st.analyses); err != nil {
		return nil, err
	}
	if err := decodeTable(blob.Tables, TableConcepts, &st.concepts); err != nil {
		return nil, err
	}
	if err := decodeTable(blob.Tables, TableRelationships, &st.relationships); err != nil {
		return nil, err
	}
	if err := decodeTable(blob.Tables, TableLinks, &st.links); err != nil {
		return nil, err
	}
	return st, nil
}

func decodeTable[T any](tables map[string]json.RawMessage, name string, into *[]T) error {
	raw, ok := tables[name]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("%w: table %s: %v", ErrCorruptSnapshot, name, err)
	}
	return nil
}
