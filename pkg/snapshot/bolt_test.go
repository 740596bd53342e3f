package snapshot

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/loom/pkg/dom"
)

func TestBoltStore(t *testing.T) {
	store, err := OpenBoltStore(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := Write(ctx, store, "home", renderTree(t), dom.RenderOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(ctx, "about", "", []byte("<p>about</p>")); err != nil {
		t.Fatal(err)
	}

	body, err := store.Get("home")
	if err != nil {
		t.Fatal(err)
	}
	if want := `<div id="app"><h1>Hello</h1></div>`; string(body) != want {
		t.Errorf("home = %s, want %s", body, want)
	}

	keys, err := store.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"about", "home"}, keys); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}

	if _, err := store.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) err = %v, want ErrNotFound", err)
	}
	if err := store.Put(ctx, "", "", nil); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Put(\"\") err = %v, want ErrInvalidKey", err)
	}
}

func TestOpenBolt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.db")
	store, key, err := Open("bolt:"+path+"#counter", nil)
	if err != nil {
		t.Fatal(err)
	}
	if key != "counter" {
		t.Errorf("key = %q", key)
	}
	if _, ok := store.(*BoltStore); !ok {
		t.Fatalf("store = %T", store)
	}
	if err := store.(io.Closer).Close(); err != nil {
		t.Fatal(err)
	}

	for _, target := range []string{"bolt:" + path, "bolt:#key"} {
		if _, _, err := Open(target, nil); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Open(%q) err = %v, want ErrInvalidKey", target, err)
		}
	}
}
