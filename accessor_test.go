package veil

import (
	"errors"
	"reflect"
	"slices"
	"sync/atomic"
	"testing"

	"github.com/zoobzio/sentinel"
)

type Audit struct {
	CreatedBy string `json:"created_by"`
	Name      string `json:"audit_name"`
}

type Shadow struct {
	Name string `json:"name"`
}

type account struct {
	Region string `json:"region"`
}

type Record struct {
	*Audit
	Shadow
	account
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Token string `json:"token,omitempty" view.mask:"sha256"`
	Skip  string `json:"-"`
	Dash  string `json:"-,"`
	Plain string
	inner string
}

func propNames(props []Property) []string {
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.Name
	}
	return names
}

func TestReflectAccessor_Properties(t *testing.T) {
	a := NewReflectAccessor()
	props := a.Properties(reflect.ValueOf(Record{}))

	want := []string{"created_by", "audit_name", "region", "id", "name", "token", "-", "Plain"}
	if got := propNames(props); !slices.Equal(got, want) {
		t.Errorf("Properties() = %v, want %v", got, want)
	}

	for _, p := range props {
		switch p.Name {
		case "token":
			if !p.OmitEmpty || p.Mask != MaskSHA256 {
				t.Errorf("token property = %+v, want omitempty and sha256 mask", p)
			}
		case "name":
			// The outer field shadows the promoted Shadow.Name.
			if !slices.Equal(p.Index, []int{4}) {
				t.Errorf("name index = %v, want [4]", p.Index)
			}
		}
	}
}

func TestReflectAccessor_Cached(t *testing.T) {
	a := NewReflectAccessor()
	first := a.TypeProperties(reflect.TypeFor[Record]())
	second := a.TypeProperties(reflect.TypeFor[Record]())

	if &first[0] != &second[0] {
		t.Error("TypeProperties() should return the cached slice")
	}
}

func TestReflectAccessor_Value(t *testing.T) {
	a := NewReflectAccessor()
	v := reflect.ValueOf(Record{Audit: &Audit{CreatedBy: "ops"}, ID: 5})
	props := a.Properties(v)

	byName := make(map[string]Property)
	for _, p := range props {
		byName[p.Name] = p
	}

	got, err := a.Value(v, byName["created_by"])
	if err != nil || got.String() != "ops" {
		t.Errorf("Value(created_by) = %v, %v; want ops", got, err)
	}
	got, err = a.Value(v, byName["id"])
	if err != nil || got.Int() != 5 {
		t.Errorf("Value(id) = %v, %v; want 5", got, err)
	}

	// Promoted through a nil embedded pointer.
	_, err = a.Value(reflect.ValueOf(Record{}), byName["created_by"])
	if !errors.Is(err, ErrProperty) || !errors.Is(err, errNilEmbedded) {
		t.Errorf("Value(created_by) through nil Audit error = %v, want ErrProperty", err)
	}
}

func TestReflectAccessor_Describer(t *testing.T) {
	a := NewReflectAccessor()
	v := reflect.ValueOf(flaky{reads: new(atomic.Int32)})

	props := a.Properties(v)
	if got := propNames(props); !slices.Equal(got, []string{"key", "value"}) {
		t.Fatalf("Properties() = %v, want [key value]", got)
	}

	got, err := a.Value(v, props[0])
	if err != nil || got.Interface() != "k" {
		t.Errorf("Value(key) = %v, %v; want k", got, err)
	}

	_, err = a.Value(v, props[1])
	if !errors.Is(err, ErrProperty) {
		t.Errorf("Value(value) first read error = %v, want ErrProperty", err)
	}

	_, err = a.Value(reflect.ValueOf(Entity{}), Property{Name: "dynamic"})
	if !errors.Is(err, ErrProperty) {
		t.Errorf("Value() of a non-Describer without index error = %v, want ErrProperty", err)
	}
}

func TestRender_NilEmbeddedSkipped(t *testing.T) {
	p := newTestProcessor(t)
	idx := mustIndex(t, View{Include: []Filter{For[Record]("created_by", "id")}})

	got := render(t, p, idx, Record{ID: 1})
	if want := `{"id":1}`; got != want {
		t.Errorf("Render() = %s, want %s", got, want)
	}
}

// scanned carries a mask tag read back from sentinel's metadata cache.
type scanned struct {
	Phone string `json:"phone" view.mask:"phone"`
	Note  string `json:"note"`
}

func TestFieldMasks_SentinelMetadata(t *testing.T) {
	typ := reflect.TypeFor[scanned]()
	if got, want := sentinelName(typ), "github.com/zoobzio/veil.scanned"; got != want {
		t.Fatalf("sentinelName() = %q, want %q", got, want)
	}

	_ = For[scanned]()
	meta, ok := sentinel.Lookup(sentinelName(typ))
	if !ok {
		t.Fatal("sentinel.Lookup() missed a scanned type")
	}
	var tag string
	for _, fm := range meta.Fields {
		if fm.Name == "Phone" {
			tag = fm.Tags[maskTag]
		}
	}
	if tag != "phone" {
		t.Errorf("sentinel tag = %q, want %q", tag, "phone")
	}

	masks := fieldMasks(typ)
	if masks["Phone"] != MaskPhone {
		t.Errorf("fieldMasks()[Phone] = %q, want %q", masks["Phone"], MaskPhone)
	}
	if _, ok := masks["Note"]; ok {
		t.Error("fieldMasks() reported a mask for an untagged field")
	}
}

func TestReflectAccessor_StringOption(t *testing.T) {
	props := NewReflectAccessor().TypeProperties(reflect.TypeFor[Counted]())
	quoted := make(map[string]bool)
	for _, p := range props {
		quoted[p.Name] = p.Quoted
	}
	for _, name := range []string{"id", "ratio", "label", "Flag", "skip"} {
		if !quoted[name] {
			t.Errorf("%s: Quoted = false, want true", name)
		}
	}
	if quoted["tags"] {
		t.Error("tags: Quoted = true for a slice")
	}
}
