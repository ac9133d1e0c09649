package sindri

import (
	"context"
	"net/http"
)

// Team fetches details about the user or team that owns the configured API
// key. The response shape is not versioned, so it is returned as a plain
// mapping.
func (c *Client) Team(ctx context.Context) (map[string]any, error) {
	c.logger.Info().Msg("team: get details")
	status, body, err := c.request(ctx, http.MethodGet, "team/me", nil, nil, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, newHTTPError(KindRemoteFailure, "unable to fetch team details", status, body)
	}
	var team map[string]any
	if err := decodeResponse(body, "team/me", &team); err != nil {
		return nil, err
	}
	c.logger.Debug().Interface("team", team).Msg("team detail (full)")
	return team, nil
}
