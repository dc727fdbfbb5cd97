package store

import (
	"context"
	"fmt"
	"time"

	"github.com/classactionfinder/finder-data/internal/config"
)

// CatchUpClaimUpdates inserts the claim_update notifications that the
// listener missed, e.g. while it was reconnecting. A claim is missed when
// its status changed within the window and no notification carries its id
// and current status. A listener insert racing this sweep hits the unique
// claim/status index and one of the two is dropped. Returns the number of
// notifications created.
func (s *Store) CatchUpClaimUpdates(ctx context.Context, window time.Duration) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO `+config.NotificationsTable+` (id, user_id, type, content, data, read, created_at)
		SELECT
			gen_random_uuid(),
			c.user_id,
			'claim_update',
			CASE WHEN COALESCE(l.name, '') = ''
				THEN 'Your claim status changed to ' || replace(lower(c.status), '_', ' ')
				ELSE 'Your claim in ' || l.name || ' is now ' || replace(lower(c.status), '_', ' ')
			END,
			jsonb_build_object('claim_id', c.id::text, 'status', c.status, 'catch_up', true),
			false,
			NOW()
		FROM `+config.ClaimsTable+` c
		LEFT JOIN `+config.LawsuitsTable+` l ON l.id = c.lawsuit_id
		WHERE c.status_changed_at > NOW() - make_interval(secs => $1)
		  AND NOT EXISTS (
			SELECT 1 FROM `+config.NotificationsTable+` n
			WHERE n.user_id = c.user_id
			  AND n.type = 'claim_update'
			  AND n.data->>'claim_id' = c.id::text
			  AND n.data->>'status' = c.status
		  )
		ON CONFLICT DO NOTHING`, window.Seconds())
	if err != nil {
		return 0, fmt.Errorf("catch up claim updates: %w", err)
	}
	return tag.RowsAffected(), nil
}
