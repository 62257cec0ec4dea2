package handler

import (
	"context"
	"net/http"
	"testing"

	"cloud.google.com/go/bigquery"
	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
	"github.com/CedricGauzargues/Slottix/internal/slotting/service"
	"github.com/CedricGauzargues/Slottix/internal/slotting/testutil"
	"github.com/CedricGauzargues/Slottix/internal/warehouse"
)

func TestNullFloat(t *testing.T) {
	cases := []struct {
		in    interface{}
		want  float64
		valid bool
	}{
		{12.5, 12.5, true},
		{"12,5", 12.5, true},
		{" 7.25 ", 7.25, true},
		{"", 0, false},
		{"abc", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, c := range cases {
		got := nullFloat(c.in)
		if got.Valid != c.valid || (c.valid && got.Float64 != c.want) {
			t.Errorf("nullFloat(%v) = %+v, want valid=%v value=%v", c.in, got, c.valid, c.want)
		}
	}
}

func TestNullString(t *testing.T) {
	if got := nullString("  Palettier "); !got.Valid || got.StringVal != "Palettier" {
		t.Errorf("nullString trims, got %+v", got)
	}
	if got := nullString("   "); got.Valid {
		t.Errorf("blank string must be NULL, got %+v", got)
	}
	if got := nullString(12); got.Valid {
		t.Errorf("non-string must be NULL, got %+v", got)
	}
}

func TestNullBool(t *testing.T) {
	truthy := []interface{}{true, "1", "true", "YES", "on"}
	for _, v := range truthy {
		if got := nullBool(v); !got.Valid || !got.Bool {
			t.Errorf("nullBool(%v) = %+v, want true", v, got)
		}
	}
	if got := nullBool("0"); !got.Valid || got.Bool {
		t.Errorf("nullBool(\"0\") = %+v, want false", got)
	}
	if got := nullBool(""); got.Valid {
		t.Errorf("nullBool(\"\") = %+v, want NULL", got)
	}
	if got := nullBool(3.2); got.Valid {
		t.Errorf("nullBool(3.2) = %+v, want NULL", got)
	}
}

// fakeDetailStore records the changes handed to BatchUpdate.
type fakeDetailStore struct {
	changes []entity.EmplacementChange
}

func (f *fakeDetailStore) Detail(ctx context.Context, filter entity.DetailFilter, start, length int64) ([]warehouse.Row, error) {
	return nil, nil
}

func (f *fakeDetailStore) Count(ctx context.Context) (int64, error) { return 0, nil }

func (f *fakeDetailStore) BatchUpdate(ctx context.Context, changes []entity.EmplacementChange) error {
	f.changes = changes
	return nil
}

func TestDetailUpdateCoercesCells(t *testing.T) {
	store := &fakeDetailStore{}
	svc := service.NewDetailService(store, &testutil.FakeTypeStore{})
	h := NewDetailHandler(svc)

	r := testutil.SetupRouter()
	r.POST("/api/detail_emplacement/update", h.Update)

	body := map[string]interface{}{
		"changes": []map[string]interface{}{
			{
				"Zone": "A", "Allee": 1, "Deplacement": 12, "Niveau": 2,
				"X": "3,5", "Type1": " Palettier ", "Palette": "1", "Y": "",
			},
		},
	}
	w := testutil.DoRequest(r, http.MethodPost, "/api/detail_emplacement/update", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	if len(store.changes) != 1 {
		t.Fatalf("changes = %d, want 1", len(store.changes))
	}
	ch := store.changes[0]
	if ch.Zone != "A" || ch.Allee != 1 || ch.Deplacement != 12 || ch.Niveau != 2 {
		t.Errorf("key = %+v", ch)
	}
	if ch.X != (bigquery.NullFloat64{Float64: 3.5, Valid: true}) {
		t.Errorf("X = %+v", ch.X)
	}
	if ch.Y.Valid {
		t.Errorf("empty Y should be NULL, got %+v", ch.Y)
	}
	if ch.Type1 != (bigquery.NullString{StringVal: "Palettier", Valid: true}) {
		t.Errorf("Type1 = %+v", ch.Type1)
	}
	if ch.Palette != (bigquery.NullBool{Bool: true, Valid: true}) {
		t.Errorf("Palette = %+v", ch.Palette)
	}
}

func TestDetailUpdateEmpty(t *testing.T) {
	svc := service.NewDetailService(&fakeDetailStore{}, &testutil.FakeTypeStore{})
	h := NewDetailHandler(svc)

	r := testutil.SetupRouter()
	r.POST("/api/detail_emplacement/update", h.Update)

	w := testutil.DoRequest(r, http.MethodPost, "/api/detail_emplacement/update",
		map[string]interface{}{"changes": []map[string]interface{}{}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	resp := testutil.ParseResponse(w)
	if resp["status"] != "error" {
		t.Errorf("response = %v", resp)
	}
}
