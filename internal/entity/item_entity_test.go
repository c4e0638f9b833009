package entity

import (
	"testing"
)

func TestStarred(t *testing.T) {
	item := &Item{Tags: []string{"finance", "starred"}}
	if !item.Starred() {
		t.Errorf("tagged item should report starred")
	}

	item = &Item{Tags: []string{"finance"}}
	if item.Starred() {
		t.Errorf("untagged item should not report starred")
	}
}

func TestSetStarred(t *testing.T) {
	item := &Item{Tags: []string{"finance"}}

	item.SetStarred(true)
	if !item.Starred() {
		t.Fatalf("star not applied")
	}

	// Idempotent: starring twice must not duplicate the tag
	item.SetStarred(true)
	count := 0
	for _, tag := range item.Tags {
		if tag == "starred" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("starred tag appears %d times, want 1", count)
	}

	item.SetStarred(false)
	if item.Starred() {
		t.Errorf("star not removed")
	}
	if len(item.Tags) != 1 || item.Tags[0] != "finance" {
		t.Errorf("unstar disturbed the other tags: %v", item.Tags)
	}
}
