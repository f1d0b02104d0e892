package audit

import (
	"context"
	"encoding/json"
	"testing"
)

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	svc := New(NewMemoryStore())

	for _, action := range []string{"employee.create", "employee.update", "leave.approve"} {
		err := svc.Record(ctx, Event{ActorID: "u1", Action: action, EntityType: "employee", EntityID: "e1"}, nil, map[string]string{"name": "Ada"})
		if err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	total, err := svc.Count(ctx, Filter{EntityType: "employee"})
	if err != nil || total != 3 {
		t.Fatalf("expected 3 events, got %d (%v)", total, err)
	}

	events, err := svc.List(ctx, Filter{Action: "employee.update"}, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 1 || events[0].ID == "" {
		t.Fatalf("unexpected events %+v", events)
	}
	if events[0].Before != nil {
		t.Fatalf("expected no before payload")
	}
	var after map[string]string
	if err := json.Unmarshal(events[0].After, &after); err != nil || after["name"] != "Ada" {
		t.Fatalf("unexpected after payload %s", events[0].After)
	}

	page, err := svc.List(ctx, Filter{}, 2, 1)
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page) != 2 || page[0].Action != "employee.update" {
		t.Fatalf("unexpected page %+v", page)
	}
}
