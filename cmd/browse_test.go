package cmd

import (
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/netmatch/internal/filtering"
	"github.com/spigell/netmatch/internal/pagination"
)

func TestPageActions(t *testing.T) {
	p := pagination.New(25, 10)

	got := pageActions(p, false, false)
	expect := []string{PromptNext, PromptGoTo, PromptSearch, PromptBack}
	if !reflect.DeepEqual(got, expect) {
		t.Fatalf("first page: expected %v, got %v", expect, got)
	}

	p.GoTo(3)
	got = pageActions(p, true, false)
	expect = []string{PromptPrevious, PromptGoTo, PromptSearch, PromptCompany, PromptBack}
	if !reflect.DeepEqual(got, expect) {
		t.Fatalf("last page: expected %v, got %v", expect, got)
	}

	got = pageActions(pagination.New(0, 10), false, true)
	expect = []string{PromptSearch, PromptLocation, PromptBack}
	if !reflect.DeepEqual(got, expect) {
		t.Fatalf("empty list: expected %v, got %v", expect, got)
	}
}

func TestValidatePage(t *testing.T) {
	if err := validatePage(" 4 "); err != nil {
		t.Fatalf("expected number to be accepted: %v", err)
	}
	if err := validatePage("four"); err == nil {
		t.Fatalf("expected text to be rejected")
	}
}

func TestListingRefilterResetsPage(t *testing.T) {
	items := make([]int, 30)
	for i := range items {
		items[i] = i
	}

	l := newListing("numbers", len(items), 10)
	var filtered []int
	l.apply = func(_ filtering.Criteria) int {
		filtered = items
		return len(filtered)
	}

	l.refilter(zap.NewNop())
	l.pager.GoTo(3)

	l.apply = func(_ filtering.Criteria) int {
		filtered = items[:5]
		return len(filtered)
	}
	l.refilter(zap.NewNop())

	if l.pager.Page() != 1 || l.pager.TotalItems() != 5 {
		t.Fatalf("expected reset to page 1 of 5 items, got page %d of %d", l.pager.Page(), l.pager.TotalItems())
	}
}
