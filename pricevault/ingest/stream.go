package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/ellavondegurechaff/pricevault/internal/domain/pricetree"
	"github.com/ellavondegurechaff/pricevault/pricevault/errs"
)

// dataKey is the top-level member holding uuid -> tree.
const dataKey = "data"

// Record is one uuid and its price tree as read from a snapshot.
type Record struct {
	UUID string
	Tree pricetree.Tree
}

type streamState int

const (
	stateStart streamState = iota
	stateInData
	stateDone
)

// SnapshotStream reads the records of a price snapshot one at a time.
// Members next to "data" (meta and the like) are skipped token by token, so
// memory use is bounded by the largest single record.
type SnapshotStream struct {
	src     *watchedReader
	dec     *json.Decoder
	name    string
	state   streamState
	records int
	err     error
}

// NewSnapshotStream wraps r. If r has a Name method (as *os.File does) the
// name is used in IOError.
func NewSnapshotStream(r io.Reader) *SnapshotStream {
	name := "snapshot"
	if n, ok := r.(interface{ Name() string }); ok {
		name = n.Name()
	}
	src := &watchedReader{r: r}
	dec := json.NewDecoder(src)
	dec.UseNumber()
	return &SnapshotStream{src: src, dec: dec, name: name}
}

// Records returns how many records have been decoded so far.
func (s *SnapshotStream) Records() int { return s.records }

// Offset is the byte offset of the decoder in the source.
func (s *SnapshotStream) Offset() int64 { return s.dec.InputOffset() }

// Next returns the next record, or io.EOF once the document has been fully
// and validly consumed. After any other error the stream is dead and keeps
// returning that error.
func (s *SnapshotStream) Next() (Record, error) {
	if s.err != nil {
		return Record{}, s.err
	}
	if s.state == stateStart {
		if err := s.enterData(); err != nil {
			return Record{}, s.fail(err)
		}
	}
	if s.state == stateDone {
		return Record{}, io.EOF
	}

	if !s.dec.More() {
		if err := s.finish(); err != nil {
			return Record{}, s.fail(err)
		}
		return Record{}, io.EOF
	}

	tok, err := s.dec.Token()
	if err != nil {
		return Record{}, s.fail(err)
	}
	uuid, ok := tok.(string)
	if !ok {
		return Record{}, s.fail(fmt.Errorf("record key is %v, not a string", tok))
	}
	tree, err := pricetree.DecodeFrom(s.dec)
	if err != nil {
		return Record{}, s.fail(fmt.Errorf("record %s: %w", uuid, err))
	}
	s.records++
	return Record{UUID: uuid, Tree: tree}, nil
}

// All yields the remaining records in source order. It stops at the end of
// the document or at the first error; check Err afterwards.
func (s *SnapshotStream) All() iter.Seq2[string, pricetree.Tree] {
	return func(yield func(string, pricetree.Tree) bool) {
		for {
			rec, err := s.Next()
			if err != nil {
				return
			}
			if !yield(rec.UUID, rec.Tree) {
				return
			}
		}
	}
}

// Err returns the error that ended the stream, if it was not a clean EOF.
func (s *SnapshotStream) Err() error {
	return s.err
}

// enterData walks the top-level object up to the opening brace of "data".
// A document without "data" has no records.
func (s *SnapshotStream) enterData() error {
	if err := s.expectDelim('{'); err != nil {
		return err
	}
	for s.dec.More() {
		tok, err := s.dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		if key != dataKey {
			if err := skipValue(s.dec); err != nil {
				return err
			}
			continue
		}
		tok, err = s.dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return fmt.Errorf("%q is not an object", dataKey)
		}
		s.state = stateInData
		return nil
	}
	return s.closeDocument()
}

// finish closes "data" and skips whatever members follow it.
func (s *SnapshotStream) finish() error {
	if _, err := s.dec.Token(); err != nil { // '}' of data
		return err
	}
	for s.dec.More() {
		if _, err := s.dec.Token(); err != nil {
			return err
		}
		if err := skipValue(s.dec); err != nil {
			return err
		}
	}
	return s.closeDocument()
}

func (s *SnapshotStream) closeDocument() error {
	if _, err := s.dec.Token(); err != nil { // top-level '}'
		return err
	}
	if _, err := s.dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return err
		}
		return fmt.Errorf("unexpected data after snapshot document")
	}
	s.state = stateDone
	return nil
}

func (s *SnapshotStream) expectDelim(want json.Delim) error {
	tok, err := s.dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// fail classifies err, records it and returns it.
func (s *SnapshotStream) fail(err error) error {
	if s.src.err != nil {
		s.err = &errs.IOError{Path: s.name, Err: s.src.err}
		return s.err
	}
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	s.err = &errs.ParseError{Offset: s.dec.InputOffset(), Record: s.records, Err: err}
	return s.err
}

func skipValue(dec *json.Decoder) error {
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
		if depth == 0 {
			return nil
		}
	}
}

// watchedReader remembers the last non-EOF read error so decoder failures
// caused by the source can be told apart from malformed input.
type watchedReader struct {
	r   io.Reader
	err error
}

func (w *watchedReader) Read(p []byte) (int, error) {
	n, err := w.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		w.err = err
	}
	return n, err
}

// ReadAll decodes every record of a snapshot into memory, in source order.
func ReadAll(r io.Reader) ([]Record, error) {
	stream := NewSnapshotStream(r)
	var out []Record
	for {
		rec, err := stream.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}
