package notifications

import (
	"reflect"
	"testing"
)

func TestBatchNotifications(t *testing.T) {
	unread := []Notification{
		{ID: "1", Type: EventClaimUpdate, Content: "Claim approved"},
		{ID: "2", Type: EventNewLawsuit, Content: "New lawsuit against Acme"},
		{ID: "3", Type: EventClaimUpdate, Content: "Claim paid"},
	}
	got := BatchNotifications(unread)
	want := []Summary{
		{Type: EventClaimUpdate, Content: "You have 2 updates to your claims.", Count: 2, NotificationIDs: []string{"1", "3"}},
		{Type: EventNewLawsuit, Content: "New lawsuit against Acme", Count: 1, NotificationIDs: []string{"2"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BatchNotifications =\n%+v\nwant\n%+v", got, want)
	}
}

func TestBatchTemplates(t *testing.T) {
	tests := []struct {
		t    EventType
		want string
	}{
		{EventClaimUpdate, "You have 3 updates to your claims."},
		{EventDeadline, "You have 3 upcoming deadlines."},
		{EventNewLawsuit, "There are 3 new lawsuits that may be relevant to you."},
		{EventSystem, "You have 3 new notifications."},
	}
	for _, tt := range tests {
		in := []Notification{{Type: tt.t}, {Type: tt.t}, {Type: tt.t}}
		got := BatchNotifications(in)
		if len(got) != 1 || got[0].Content != tt.want {
			t.Errorf("%s: got %+v", tt.t, got)
		}
	}
}

func TestBatchEmpty(t *testing.T) {
	if got := BatchNotifications(nil); len(got) != 0 {
		t.Errorf("got %d summaries", len(got))
	}
}
