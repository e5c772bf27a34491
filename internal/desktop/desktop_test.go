package desktop

import (
	"errors"
	"testing"

	"github.com/1broseidon/webdesk/internal/window"
)

func testDesktops() []Desktop {
	return []Desktop{
		{ID: "desktop-1", Name: "Main"},
		{ID: "desktop-2", Name: "Work"},
	}
}

func TestNewRegistry(t *testing.T) {
	tests := []struct {
		name     string
		desktops []Desktop
		initial  string
		wantErr  bool
		active   string
	}{
		{"defaults to first", testDesktops(), "", false, "desktop-1"},
		{"explicit initial", testDesktops(), "desktop-2", false, "desktop-2"},
		{"unknown initial", testDesktops(), "desktop-9", true, ""},
		{"empty list", nil, "", true, ""},
		{"duplicate id", []Desktop{{ID: "a"}, {ID: "a"}}, "", true, ""},
		{"empty id", []Desktop{{ID: ""}}, "", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRegistry(tt.desktops, tt.initial)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Active() != tt.active {
				t.Errorf("Active() = %q, want %q", r.Active(), tt.active)
			}
		})
	}
}

func TestSetActiveUnknownIsNoop(t *testing.T) {
	r, _ := NewRegistry(testDesktops(), "")
	if err := r.SetActive("desktop-2"); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	err := r.SetActive("nope")
	if !errors.Is(err, ErrUnknownDesktop) {
		t.Fatalf("SetActive(nope) err = %v, want ErrUnknownDesktop", err)
	}
	if r.Active() != "desktop-2" {
		t.Errorf("Active() = %q after failed switch, want desktop-2", r.Active())
	}
}

func TestListIsACopy(t *testing.T) {
	r, _ := NewRegistry(testDesktops(), "")
	list := r.List()
	list[0].Name = "changed"
	if d, _ := r.Get("desktop-1"); d.Name != "Main" {
		t.Errorf("List() exposed internal slice; name = %q", d.Name)
	}
}

func TestFilterVisible(t *testing.T) {
	records := []window.Record{
		{ID: "a", DesktopID: "desktop-1", Z: 1},
		{ID: "b", DesktopID: "desktop-2", Z: 2},
		{ID: "c", DesktopID: "desktop-1", Z: 3, Minimized: true},
		{ID: "d", DesktopID: "desktop-1", Z: 4},
	}
	got := FilterVisible(records, "desktop-1")
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "d" {
		t.Errorf("FilterVisible = %v, want [a d]", ids(got))
	}
	if got := FilterVisible(records, "desktop-3"); len(got) != 0 {
		t.Errorf("FilterVisible on empty desktop = %v, want none", ids(got))
	}
}

func ids(records []window.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
