package mvc

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
)

func TestParameterCache_Parameters(t *testing.T) {
	receiver := reflect.TypeOf(&recordingController{})
	method, _ := receiver.MethodByName("Capture")
	params := []Param{Named("r"), Query("name"), PathVar("id"), Named("model")}

	cache := NewParameterCache()
	got, err := cache.Parameters(receiver, method, params)
	if err != nil {
		t.Fatalf("Parameters() error = %v", err)
	}

	want := []struct {
		name string
		typ  reflect.Type
	}{
		{"r", reflect.TypeOf(&http.Request{})},
		{"name", reflect.TypeOf("")},
		{"id", reflect.TypeOf(0)},
		{"model", reflect.TypeOf(Model{})},
	}
	if len(got) != len(want) {
		t.Fatalf("Parameters() returned %d entries, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Index != i || got[i].Name != w.name || got[i].Type != w.typ {
			t.Errorf("parameter %d = %+v, want %s %s", i, got[i], w.name, w.typ)
		}
	}
	if _, ok := got[1].RequestParam(); !ok {
		t.Error("name should carry a RequestParam annotation")
	}
	if _, ok := got[2].PathVariable(); !ok {
		t.Error("id should carry a PathVariable annotation")
	}
}

func TestParameterCache_ConcurrentFirstAccess(t *testing.T) {
	receiver := reflect.TypeOf(&recordingController{})
	method, _ := receiver.MethodByName("Capture")
	cache := NewParameterCache()

	const workers = 32
	results := make([][]ParameterMetadata, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			params, err := cache.Parameters(receiver, method, nil)
			if err != nil {
				t.Errorf("Parameters() error = %v", err)
				return
			}
			results[i] = params
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if !reflect.DeepEqual(results[0], results[i]) {
			t.Fatalf("worker %d saw %+v, worker 0 saw %+v", i, results[i], results[0])
		}
	}

	again, _ := cache.Parameters(receiver, method, nil)
	if &again[0] != &results[0][0] {
		t.Error("Parameters() after population should return the cached slice")
	}
}

func TestParameterCache_DefaultNames(t *testing.T) {
	receiver := reflect.TypeOf(&recordingController{})
	method, _ := receiver.MethodByName("Optional")

	params, err := NewParameterCache().Parameters(receiver, method, nil)
	if err != nil {
		t.Fatalf("Parameters() error = %v", err)
	}
	for i, p := range params {
		if want := []string{"arg0", "arg1", "arg2"}[i]; p.Name != want || len(p.Annotations) != 0 {
			t.Errorf("parameter %d = %+v, want unannotated %s", i, p, want)
		}
	}
}

func TestParameterCache_KeyedByDeclarations(t *testing.T) {
	receiver := reflect.TypeOf(&UserController{})
	method, _ := receiver.MethodByName("Show")
	cache := NewParameterCache()

	asPath, err := cache.Parameters(receiver, method, []Param{PathVar("id")})
	if err != nil {
		t.Fatalf("Parameters() error = %v", err)
	}
	asQuery, err := cache.Parameters(receiver, method, []Param{Query("id")})
	if err != nil {
		t.Fatalf("Parameters() error = %v", err)
	}

	if _, ok := asPath[0].PathVariable(); !ok {
		t.Errorf("first declaration lost its PathVariable annotation: %+v", asPath[0])
	}
	if _, ok := asQuery[0].RequestParam(); !ok {
		t.Errorf("second declaration got %+v, want a RequestParam annotation", asQuery[0].Annotations)
	}

	again, _ := cache.Parameters(receiver, method, []Param{PathVar("id")})
	if &again[0] != &asPath[0] {
		t.Error("identical declarations should share the cached slice")
	}
}

func TestHandlerDescriptor_SharedCacheKeepsDeclarations(t *testing.T) {
	cache := NewParameterCache()
	c := &UserController{}
	if _, err := NewHandlerDescriptor(c, "Show", []Param{PathVar("id")}, DefaultArgumentResolvers(), cache); err != nil {
		t.Fatal(err)
	}
	d, err := NewHandlerDescriptor(c, "Show", []Param{Query("id")}, DefaultArgumentResolvers(), cache)
	if err != nil {
		t.Fatal(err)
	}

	mav, err := d.Invoke(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/?id=5", nil), RouteContext{})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if mav.Model["id"] != 5 {
		t.Errorf("id = %v, want 5 bound from the query", mav.Model["id"])
	}
}
