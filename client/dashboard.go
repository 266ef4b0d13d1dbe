package client

import (
	"context"
	"net/http"
)

// FetchDashboard fetches the stats variant matching the persisted user's
// role. It is the client half of the role dispatch contract:
//
//	no session        → ErrLoggedOut (terminal; caller sends the user to login)
//	student/lecturer/ → the matching stats struct, and only that one
//	admin
//	anything else     → ErrUnknownRole (terminal; caller clears the
//	                    session via Session().Clear() and re-logs)
//
// The role is read once from the session, not refetched: it is immutable
// for the session's lifetime, so there is nothing to poll.
func (c *Client) FetchDashboard(ctx context.Context) (Dashboard, error) {
	sess := c.store.Read()
	if !sess.LoggedIn() {
		return nil, ErrLoggedOut
	}

	switch sess.User.Role {
	case RoleStudent:
		var stats StudentStats
		if err := c.do(ctx, http.MethodGet, "/api/profile/stats", nil, nil, &stats); err != nil {
			return nil, err
		}
		return &stats, nil
	case RoleLecturer:
		var stats LecturerStats
		if err := c.do(ctx, http.MethodGet, "/api/profile/stats", nil, nil, &stats); err != nil {
			return nil, err
		}
		return &stats, nil
	case RoleAdmin:
		var stats AdminStats
		if err := c.do(ctx, http.MethodGet, "/api/profile/stats", nil, nil, &stats); err != nil {
			return nil, err
		}
		return &stats, nil
	default:
		return nil, ErrUnknownRole
	}
}
