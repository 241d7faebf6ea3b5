package view

import (
	"reflect"
	"testing"

	"github.com/adityar/eventpin/internal/event"
)

func sample() []event.Event {
	return []event.Event{
		{ID: "a", Name: "Jazz Night", Category: "Music", Detail: "Live band at the park", Favorite: true, Date: "2099-01-01"},
		{ID: "b", Name: "Street Art Tour", Category: "Art", Date: "2000-01-01"},
		{ID: "c", Name: "Open Mic", Category: "Music", Registered: true},
		{ID: "d", Name: "Night Market"},
	}
}

func ids(events []event.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func TestFilterCategory_AllPassesThrough(t *testing.T) {
	events := sample()

	got := FilterCategory(events, event.CategoryAll)
	if !reflect.DeepEqual(ids(got), ids(events)) {
		t.Errorf("All filter changed the set: got %v", ids(got))
	}
}

func TestFilterCategory_ExactMatch(t *testing.T) {
	got := FilterCategory(sample(), "Music")
	if want := []string{"a", "c"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("got %v, want %v", ids(got), want)
	}

	// Case-sensitive: "music" matches nothing.
	if got := FilterCategory(sample(), "music"); len(got) != 0 {
		t.Errorf("lowercase category matched %v", ids(got))
	}
}

func TestFilterCategory_EmptyNormalizesToOther(t *testing.T) {
	got := FilterCategory(sample(), event.CategoryOther)
	if want := []string{"d"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("got %v, want %v", ids(got), want)
	}
}

func TestSearch_CaseInsensitiveTriField(t *testing.T) {
	events := sample()

	// Name match.
	if got := Search(events, "jazz"); !reflect.DeepEqual(ids(got), []string{"a"}) {
		t.Errorf("name search: got %v", ids(got))
	}

	// Detail match.
	if got := Search(events, "PARK"); !reflect.DeepEqual(ids(got), []string{"a"}) {
		t.Errorf("detail search: got %v", ids(got))
	}

	// Category match.
	if got := Search(events, "art"); !reflect.DeepEqual(ids(got), []string{"b"}) {
		t.Errorf("category search: got %v", ids(got))
	}
}

func TestSearch_AbsentFieldsNeverMatch(t *testing.T) {
	// "d" has no detail and no category; a query matching only those fields
	// on other records must not pull it in.
	got := Search([]event.Event{{ID: "d", Name: "Night Market"}}, "music")
	if len(got) != 0 {
		t.Errorf("record with absent fields matched: %v", ids(got))
	}
}

func TestSearch_BlankQueryPassesThrough(t *testing.T) {
	events := sample()
	if got := Search(events, "   "); len(got) != len(events) {
		t.Errorf("blank query filtered to %d records", len(got))
	}
}

func TestGroup_FirstEncounterOrder(t *testing.T) {
	sections := Group(sample())

	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}
	if sections[0].Category != "Music" || sections[1].Category != "Art" || sections[2].Category != event.CategoryOther {
		t.Errorf("section order: %s, %s, %s", sections[0].Category, sections[1].Category, sections[2].Category)
	}
	if want := []string{"a", "c"}; !reflect.DeepEqual(ids(sections[0].Events), want) {
		t.Errorf("Music section: got %v, want %v", ids(sections[0].Events), want)
	}
}

func TestCategories_UnfilteredAndStable(t *testing.T) {
	got := Categories(sample())
	want := []string{event.CategoryAll, "Music", "Art", event.CategoryOther}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestAggregate_IndependentOfFilters(t *testing.T) {
	events := []event.Event{
		{ID: "x", Favorite: true, Date: "2099-01-01"},
		{ID: "y", Favorite: false, Date: "2000-01-01"},
	}

	stats := Aggregate(events, "2026-09-01")
	if stats.Total != 2 {
		t.Errorf("total = %d, want 2", stats.Total)
	}
	if stats.Favorite != 1 {
		t.Errorf("favorite = %d, want 1", stats.Favorite)
	}
	if stats.Upcoming != 1 {
		t.Errorf("upcoming = %d, want 1", stats.Upcoming)
	}
}

func TestAggregate_NoDateExcludedFromUpcoming(t *testing.T) {
	stats := Aggregate([]event.Event{{ID: "x"}, {ID: "y", Date: "2099-12-31"}}, "2026-09-01")
	if stats.Upcoming != 1 {
		t.Errorf("upcoming = %d, want 1 (dateless record must not count)", stats.Upcoming)
	}
}

func TestAggregate_DateComparedLexically(t *testing.T) {
	// Same-day events count as upcoming (>=, not >).
	stats := Aggregate([]event.Event{{ID: "x", Date: "2026-09-01"}}, "2026-09-01")
	if stats.Upcoming != 1 {
		t.Errorf("same-day event not counted as upcoming")
	}
}

func TestTopPreviews_SnapshotOrderCappedAtThree(t *testing.T) {
	events := []event.Event{
		{ID: "1", Favorite: true},
		{ID: "2"},
		{ID: "3", Favorite: true},
		{ID: "4", Favorite: true},
		{ID: "5", Favorite: true},
	}

	got := TopFavorites(events, PreviewSize)
	if want := []string{"1", "3", "4"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("got %v, want %v", ids(got), want)
	}
}

func TestApply_OrderCategoryThenSearch(t *testing.T) {
	got := Apply(sample(), "Music", "open")
	if want := []string{"c"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("got %v, want %v", ids(got), want)
	}
}
