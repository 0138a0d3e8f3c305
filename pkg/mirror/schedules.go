package mirror

import (
	"context"
	"fmt"
	"net/url"
)

// GetSchedule returns a scheduled transaction by schedule ID.
func (c *Client) GetSchedule(ctx context.Context, scheduleID string) (ScheduleInfo, error) {
	var scheduleInfo ScheduleInfo
	normalized, err := requireID("schedule ID", scheduleID)
	if err != nil {
		return scheduleInfo, err
	}

	path := fmt.Sprintf("/api/v1/schedules/%s", url.PathEscape(normalized))
	if err := c.getJSON(ctx, path, &scheduleInfo); err != nil {
		return scheduleInfo, err
	}
	return scheduleInfo, nil
}
