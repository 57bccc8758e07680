package storage_test

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	"github.com/AaronLay10/roommap/internal/mapgen"
	"github.com/AaronLay10/roommap/internal/storage"
	"github.com/AaronLay10/roommap/internal/storage/memory"
)

func testLayout(t *testing.T, seed int64) *mapgen.MapLayout {
	t.Helper()
	bps := []mapgen.ColumnBlueprint{
		{MinRooms: 2, MaxRooms: 3, Category: mapgen.NewCategory("combat")},
		{MinRooms: 2, MaxRooms: 4, Category: mapgen.NewCategory("combat", "shop", "treasure")},
		{MinRooms: 1, MaxRooms: 3, Category: mapgen.NewCategory("elite", "rest")},
		{MinRooms: 1, MaxRooms: 1, Category: mapgen.NewCategory("boss")},
	}
	gen := mapgen.NewGenerator(rand.New(rand.NewSource(seed)), mapgen.Bounds{Width: 20, Height: 10, Border: 0.8}, mapgen.Options{})
	layout, err := gen.Generate(bps)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return layout
}

func testRegistry() *mapgen.Registry {
	return mapgen.NewRegistry("combat", "shop", "treasure", "elite", "rest", "boss")
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := storage.NewLayoutStore(memory.New(), testRegistry())

	for seed := int64(0); seed < 50; seed++ {
		layout := testLayout(t, seed)
		if err := store.Save(ctx, "act1", layout); err != nil {
			t.Fatalf("save: %v", err)
		}
		loaded, err := store.Load(ctx, "act1")
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if !layout.Equal(loaded) {
			t.Fatalf("seed %d: loaded layout differs from saved layout", seed)
		}
	}
}

func TestRoundTripIgnoresOrder(t *testing.T) {
	layout := testLayout(t, 3)
	rec := storage.NewRecord(layout)

	// Reverse rooms and each link list; identity is (column, line).
	for i, j := 0, len(rec.Rooms)-1; i < j; i, j = i+1, j-1 {
		rec.Rooms[i], rec.Rooms[j] = rec.Rooms[j], rec.Rooms[i]
	}
	for _, r := range rec.Rooms {
		for i, j := 0, len(r.LinkTo)-1; i < j; i, j = i+1, j-1 {
			r.LinkTo[i], r.LinkTo[j] = r.LinkTo[j], r.LinkTo[i]
		}
	}
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	loaded, err := storage.Decode(data, testRegistry())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !layout.Equal(loaded) {
		t.Error("expected reordered record to decode to an equal layout")
	}
}

func TestEncodedSchema(t *testing.T) {
	data, err := storage.Encode(testLayout(t, 1))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var raw map[string][]map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	room := raw["rooms"][0]
	for _, field := range []string{"posX", "posY", "column", "line", "roomType", "roomState", "linkTo"} {
		if _, ok := room[field]; !ok {
			t.Errorf("room record missing %q", field)
		}
	}
	conn := raw["connections"][0]
	start, ok := conn["startPos"].(map[string]interface{})
	if !ok {
		t.Fatalf("connection missing startPos: %v", conn)
	}
	if start["z"] != 0.0 {
		t.Errorf("expected z=0, got %v", start["z"])
	}
}

func TestLoadMissingKey(t *testing.T) {
	store := storage.NewLayoutStore(memory.New(), testRegistry())
	_, err := store.Load(context.Background(), "nothing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var serr *storage.Error
	if !errors.As(err, &serr) || serr.Key != "nothing" || serr.Code() != storage.CodeReadFailure {
		t.Errorf("expected read failure with key context, got %v", err)
	}
}

func TestLoadEmptyRecordIsNotFound(t *testing.T) {
	blobs := memory.New()
	ctx := context.Background()
	blobs.Put(ctx, "empty", []byte(`{"rooms":[],"connections":[]}`))
	blobs.Put(ctx, "blank", nil)

	store := storage.NewLayoutStore(blobs, testRegistry())
	for _, key := range []string{"empty", "blank"} {
		if _, err := store.Load(ctx, key); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("%s: expected ErrNotFound, got %v", key, err)
		}
	}
}

func TestLoadCorruptData(t *testing.T) {
	ctx := context.Background()
	blobs := memory.New()
	blobs.Put(ctx, "garbage", []byte(`{"rooms": [`))
	blobs.Put(ctx, "badstate", []byte(`{"rooms":[{"column":0,"line":0,"roomType":"combat","roomState":"haunted","linkTo":[]}]}`))
	blobs.Put(ctx, "dangling", []byte(`{"rooms":[{"column":0,"line":0,"roomType":"combat","roomState":"attainable","linkTo":[{"column":1,"line":0}]}]}`))

	store := storage.NewLayoutStore(blobs, testRegistry())
	for _, key := range []string{"garbage", "badstate", "dangling"} {
		_, err := store.Load(ctx, key)
		if !errors.Is(err, storage.ErrCorrupt) {
			t.Errorf("%s: expected ErrCorrupt, got %v", key, err)
		}
		if errors.Is(err, storage.ErrNotFound) {
			t.Errorf("%s: corrupt data must not look like missing data", key)
		}
	}
}

func TestLoadUnresolvedRoomType(t *testing.T) {
	ctx := context.Background()
	blobs := memory.New()
	full := storage.NewLayoutStore(blobs, testRegistry())
	if err := full.Save(ctx, "act1", testLayout(t, 2)); err != nil {
		t.Fatalf("save: %v", err)
	}

	stale := storage.NewLayoutStore(blobs, mapgen.NewRegistry("combat"))
	layout, err := stale.Load(ctx, "act1")
	if !errors.Is(err, mapgen.ErrUnresolvedRoomType) {
		t.Fatalf("expected UnresolvedRoomType, got %v", err)
	}
	if layout != nil {
		t.Error("expected no partially typed layout")
	}
}

type failingBlobs struct{}

func (failingBlobs) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func (failingBlobs) Put(ctx context.Context, key string, data []byte) error {
	return errors.New("disk on fire")
}

func TestSaveFailureCarriesContext(t *testing.T) {
	store := storage.NewLayoutStore(failingBlobs{}, nil)
	err := store.Save(context.Background(), "act2", testLayout(t, 4))
	var serr *storage.Error
	if !errors.As(err, &serr) {
		t.Fatalf("expected *storage.Error, got %v", err)
	}
	if serr.Op != "save" || serr.Key != "act2" || serr.Code() != storage.CodeWriteFailure {
		t.Errorf("unexpected error context: %+v", serr)
	}
}
