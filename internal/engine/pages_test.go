package engine

import (
	"reflect"
	"testing"
)

func TestExpandSeedsWithPageTemplate(t *testing.T) {
	t.Parallel()
	got, err := ExpandSeeds([]string{"http://a.test/p={page}"}, []string{"1-2,5"})
	if err != nil {
		t.Fatalf("ExpandSeeds: %v", err)
	}
	want := []string{"http://a.test/p=1", "http://a.test/p=2", "http://a.test/p=5"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExpandSeedsWithoutTemplateUnchanged(t *testing.T) {
	t.Parallel()
	got, err := ExpandSeeds([]string{"http://a.test/"}, []string{"1-2"})
	if err != nil {
		t.Fatalf("ExpandSeeds: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"http://a.test/"}) {
		t.Errorf("got %v", got)
	}
}

func TestExpandSeedsInvalidRange(t *testing.T) {
	t.Parallel()
	if _, err := ExpandSeeds([]string{"http://a.test/p={page}"}, []string{"x-y"}); err == nil {
		t.Fatal("expected error for invalid page range")
	}
}
