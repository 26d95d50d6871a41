package testutil

import (
	"context"
	"sort"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/cgpa/core"
	"github.com/trezcool/cgpa/core/grade"
	"github.com/trezcool/cgpa/core/record"
)

// NewValidator returns a validator with every app validator registered, and its translator.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	grade.InitValidators(validate, translator)
	record.InitValidators(validate, translator)
	return validate, translator
}

func SaveRecord(t *testing.T, svc record.Service, index int, grades ...string) record.Record {
	rec, err := svc.Save(context.Background(), index, grades)
	if err != nil {
		t.Fatalf("SaveRecord() failed: %v", err)
	}
	return rec
}

// TestStore runs the record.Store contract against an empty store.
func TestStore(t *testing.T, s record.Store) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		if _, err := s.Get(ctx, "missing"); err != record.ErrNotFound {
			t.Errorf("Get() error = %v, want %v", err, record.ErrNotFound)
		}
	})

	t.Run("set & get", func(t *testing.T) {
		if err := s.Set(ctx, "a:1", `{"x":1}`); err != nil {
			t.Fatalf("Set() failed: %v", err)
		}
		got, err := s.Get(ctx, "a:1")
		if err != nil {
			t.Fatalf("Get() failed: %v", err)
		}
		if got != `{"x":1}` {
			t.Errorf("Get() = %q, want %q", got, `{"x":1}`)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := s.Set(ctx, "a:1", "second"); err != nil {
			t.Fatalf("Set() failed: %v", err)
		}
		if got, _ := s.Get(ctx, "a:1"); got != "second" {
			t.Errorf("Get() = %q, want %q", got, "second")
		}
	})

	t.Run("keys by prefix", func(t *testing.T) {
		for _, key := range []string{"a:2", "a:10", "b:1"} {
			if err := s.Set(ctx, key, key); err != nil {
				t.Fatalf("Set(%s) failed: %v", key, err)
			}
		}
		keys, err := s.Keys(ctx, "a:")
		if err != nil {
			t.Fatalf("Keys() failed: %v", err)
		}
		want := []string{"a:1", "a:10", "a:2"}
		sort.Strings(keys)
		if !equalStrings(keys, want) {
			t.Errorf("Keys() = %v, want %v", keys, want)
		}
		if keys, _ = s.Keys(ctx, "zzz"); len(keys) != 0 {
			t.Errorf("Keys(zzz) = %v, want none", keys)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := s.Delete(ctx, "a:1", "a:2", "missing"); err != nil {
			t.Fatalf("Delete() failed: %v", err)
		}
		if err := s.Delete(ctx); err != nil {
			t.Fatalf("Delete() without keys failed: %v", err)
		}
		if _, err := s.Get(ctx, "a:1"); err != record.ErrNotFound {
			t.Errorf("Get() after Delete() error = %v, want %v", err, record.ErrNotFound)
		}
		keys, _ := s.Keys(ctx, "")
		sort.Strings(keys)
		if want := []string{"a:10", "b:1"}; !equalStrings(keys, want) {
			t.Errorf("Keys() = %v, want %v", keys, want)
		}
	})
}

func equalStrings(a, b []string) bool {
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
