package record

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/cgpa/core"
	"github.com/trezcool/cgpa/core/grade"
)

// KeyPrefix prefixes the store key of every saved semester.
const KeyPrefix = "cgpa:semester:"

var (
	// errors
	ErrNotFound        = errors.New("record not found")
	ErrUnknownTerm     = errors.New("no curriculum for this semester")
	ErrInvalidIndex    = errors.New("semester index must be 1 or greater")
	ErrNothingToImport = errors.New("nothing to import")
	ErrInvalidPayload  = errors.New("invalid data format")
)

type (
	// Store is a string key-value store. Get returns ErrNotFound for missing keys.
	Store interface {
		Get(ctx context.Context, key string) (string, error)
		Set(ctx context.Context, key, value string) error
		Delete(ctx context.Context, keys ...string) error
		Keys(ctx context.Context, prefix string) ([]string, error)
	}

	Service interface {
		// Save validates raw grades, computes the semester's SGPA with its curriculum and stores both.
		Save(ctx context.Context, index int, grades []string) (Record, error)
		// Put stores rec as is.
		Put(ctx context.Context, index int, rec Record) error
		// Get returns the stored record; its SGPA is not recomputed.
		Get(ctx context.Context, index int) (Record, error)
		All(ctx context.Context) (Records, error)
		// Cumulative pools the grades of every saved semester that has a curriculum.
		Cumulative(ctx context.Context) (float64, error)
		Delete(ctx context.Context, index int) error
		Clear(ctx context.Context) error
		Export(ctx context.Context) ([]byte, error)
		// Import replaces every saved record with the exported data.
	// New records are written first; stale ones are removed only once every write succeeded.
		Import(ctx context.Context, data []byte) (Records, error)
	}

	service struct {
		store    Store
		validate *validator.Validate
	}
)

var _ Service = (*service)(nil) // interface compliance check

func NewService(store Store, validate *validator.Validate) Service {
	return &service{store: store, validate: validate}
}

// Key returns the store key of semester index.
func Key(index int) string {
	return KeyPrefix + strconv.Itoa(index)
}

func indexFromKey(key string) (int, bool) {
	if !strings.HasPrefix(key, KeyPrefix) {
		return 0, false
	}
	idx, err := strconv.Atoi(strings.TrimPrefix(key, KeyPrefix))
	if err != nil || idx < 1 {
		return 0, false
	}
	return idx, true
}

func checkIndex(index int) error {
	if index < 1 {
		return core.NewValidationError(ErrInvalidIndex, core.FieldError{Field: "index", Error: ErrInvalidIndex.Error()})
	}
	return nil
}

// Compute validates the raw grades of semester index against its curriculum and returns the record to save.
func Compute(index int, grades []string) (Record, error) {
	if err := checkIndex(index); err != nil {
		return Record{}, err
	}
	cur, ok := grade.CurriculumFor(index)
	if !ok {
		return Record{}, ErrUnknownTerm
	}
	if len(grades) != len(cur.Subjects) {
		msg := "expected " + strconv.Itoa(len(cur.Subjects)) + " grades"
		return Record{}, core.NewValidationError(nil, core.FieldError{Field: "grades", Error: msg})
	}

	scores, err := ParseGrades(grades)
	if err != nil {
		return Record{}, err
	}
	return Record{
		Grades: append([]string(nil), grades...),
		SGPA:   cur.Average(scores),
	}, nil
}

func (svc *service) Save(ctx context.Context, index int, grades []string) (Record, error) {
	rec, err := Compute(index, grades)
	if err != nil {
		return Record{}, err
	}
	if err = svc.put(ctx, index, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (svc *service) Put(ctx context.Context, index int, rec Record) error {
	if err := checkIndex(index); err != nil {
		return err
	}
	if err := rec.Validate(svc.validate); err != nil {
		return err
	}
	return svc.put(ctx, index, rec)
}

func (svc *service) put(ctx context.Context, index int, rec Record) error {
	if rec.Grades == nil {
		rec.Grades = []string{}
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "encoding record")
	}
	if err = svc.store.Set(ctx, Key(index), string(data)); err != nil {
		return errors.Wrap(err, "saving record")
	}
	return nil
}

func (svc *service) Get(ctx context.Context, index int) (Record, error) {
	if err := checkIndex(index); err != nil {
		return Record{}, err
	}
	val, err := svc.store.Get(ctx, Key(index))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Record{}, ErrNotFound
		}
		return Record{}, errors.Wrap(err, "loading record")
	}
	var rec Record
	if err = json.Unmarshal([]byte(val), &rec); err != nil {
		return Record{}, errors.Wrapf(err, "decoding record %d", index)
	}
	return rec, nil
}

func (svc *service) All(ctx context.Context) (Records, error) {
	keys, err := svc.store.Keys(ctx, KeyPrefix)
	if err != nil {
		return nil, errors.Wrap(err, "listing records")
	}
	recs := make(Records, len(keys))
	for _, key := range keys {
		idx, ok := indexFromKey(key)
		if !ok {
			continue
		}
		rec, err := svc.Get(ctx, idx)
		if err != nil {
			if err == ErrNotFound { // deleted meanwhile
				continue
			}
			return nil, err
		}
		recs[idx] = rec
	}
	return recs, nil
}

func (svc *service) Cumulative(ctx context.Context) (float64, error) {
	recs, err := svc.All(ctx)
	if err != nil {
		return 0, err
	}
	scores := make(map[int][]float64, len(recs))
	for idx, rec := range recs {
		if sc, err := rec.Scores(); err == nil {
			scores[idx] = sc
		}
	}
	return grade.FixedCumulative(scores), nil
}

func (svc *service) Delete(ctx context.Context, index int) error {
	if err := checkIndex(index); err != nil {
		return err
	}
	if err := svc.store.Delete(ctx, Key(index)); err != nil {
		return errors.Wrap(err, "deleting record")
	}
	return nil
}

func (svc *service) Clear(ctx context.Context) error {
	keys, err := svc.store.Keys(ctx, KeyPrefix)
	if err != nil {
		return errors.Wrap(err, "listing records")
	}
	if len(keys) == 0 {
		return nil
	}
	if err = svc.store.Delete(ctx, keys...); err != nil {
		return errors.Wrap(err, "clearing records")
	}
	return nil
}

func (svc *service) Export(ctx context.Context) ([]byte, error) {
	recs, err := svc.All(ctx)
	if err != nil {
		return nil, err
	}
	for idx, rec := range recs {
		if rec.Grades == nil {
			rec.Grades = []string{}
			recs[idx] = rec
		}
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding records")
	}
	return data, nil
}

func (svc *service) Import(ctx context.Context, data []byte) (Records, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, core.NewValidationError(ErrNothingToImport)
	}
	var recs Records
	if err := json.Unmarshal(data, &recs); err != nil || recs == nil {
		return nil, core.NewValidationError(ErrInvalidPayload)
	}
	for idx, rec := range recs {
		if err := checkIndex(idx); err != nil {
			return nil, err
		}
		if err := rec.Validate(svc.validate); err != nil {
			return nil, err
		}
	}

	prev, err := svc.store.Keys(ctx, KeyPrefix)
	if err != nil {
		return nil, errors.Wrap(err, "listing records")
	}
	saved := make(map[string]string, len(prev))
	for _, key := range prev {
		val, err := svc.store.Get(ctx, key)
		if err != nil {
			if errors.Cause(err) == ErrNotFound {
				continue
			}
			return nil, errors.Wrap(err, "loading record")
		}
		saved[key] = val
	}

	// new records are written before the stale ones are removed; a failed write restores what was there.
	written := make(map[string]struct{}, len(recs))
	for _, idx := range recs.Indexes() {
		if err := svc.put(ctx, idx, recs[idx]); err != nil {
			svc.restore(ctx, written, saved)
			return nil, err
		}
		written[Key(idx)] = struct{}{}
	}

	var stale []string
	for _, key := range prev {
		if _, ok := written[key]; !ok {
			stale = append(stale, key)
		}
	}
	if len(stale) > 0 {
		if err := svc.store.Delete(ctx, stale...); err != nil {
			return nil, errors.Wrap(err, "removing replaced records")
		}
	}
	return recs, nil
}

// restore puts back the saved values of the written keys and removes the keys that did not exist.
// It is best effort: the error that triggered it is the one reported.
func (svc *service) restore(ctx context.Context, written map[string]struct{}, saved map[string]string) {
	for key := range written {
		if val, ok := saved[key]; ok {
			_ = svc.store.Set(ctx, key, val)
		} else {
			_ = svc.store.Delete(ctx, key)
		}
	}
}
