package notifications

import "fmt"

// Summary is one digest entry covering every unread notification of a type.
type Summary struct {
	Type            EventType `json:"type"`
	Content         string    `json:"content"`
	Count           int       `json:"count"`
	NotificationIDs []string  `json:"notificationIds"`
}

// BatchNotifications groups notifications by type, one summary per distinct
// type in first-seen order. A single notification keeps its own content.
func BatchNotifications(unread []Notification) []Summary {
	index := make(map[EventType]int)
	var groups [][]Notification
	var order []EventType
	for _, n := range unread {
		i, ok := index[n.Type]
		if !ok {
			i = len(groups)
			index[n.Type] = i
			groups = append(groups, nil)
			order = append(order, n.Type)
		}
		groups[i] = append(groups[i], n)
	}

	summaries := make([]Summary, 0, len(groups))
	for i, group := range groups {
		s := Summary{
			Type:            order[i],
			Count:           len(group),
			NotificationIDs: make([]string, 0, len(group)),
		}
		for _, n := range group {
			s.NotificationIDs = append(s.NotificationIDs, n.ID)
		}
		if len(group) == 1 {
			s.Content = group[0].Content
		} else {
			s.Content = summaryContent(s.Type, s.Count)
		}
		summaries = append(summaries, s)
	}
	return summaries
}

func summaryContent(t EventType, count int) string {
	switch t {
	case EventClaimUpdate:
		return fmt.Sprintf("You have %d updates to your claims.", count)
	case EventDeadline:
		return fmt.Sprintf("You have %d upcoming deadlines.", count)
	case EventNewLawsuit:
		return fmt.Sprintf("There are %d new lawsuits that may be relevant to you.", count)
	default:
		return fmt.Sprintf("You have %d new notifications.", count)
	}
}
