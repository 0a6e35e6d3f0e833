package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestJSONDirRoundTrip(t *testing.T) {
	s, err := NewJSONDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := s.Set(ctx, "numpy", []byte(`{"info":{}}`)); err != nil {
		t.Fatal(err)
	}

	ok, err := s.Has(ctx, "numpy")
	if err != nil || !ok {
		t.Fatalf("Has: ok=%v err=%v", ok, err)
	}

	data, err := s.Get(ctx, "numpy")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"info":{}}` {
		t.Errorf("data = %s", data)
	}
}

func TestJSONDirNotFound(t *testing.T) {
	s, err := NewJSONDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(context.Background(), "absent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	ok, err := s.Has(context.Background(), "absent")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Has(absent) = true")
	}
}

func TestJSONDirKeys(t *testing.T) {
	s, err := NewJSONDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	// Keys with characters needing escaping must round-trip too.
	for _, k := range []string{"numpy", "zope.interface", "a/b"} {
		if err := s.Set(ctx, k, []byte("{}")); err != nil {
			t.Fatal(err)
		}
	}

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a/b", "numpy", "zope.interface"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("Keys = %v, want %v", keys, want)
	}
}
