package api

import (
	"context"
	"net/http"

	"github.com/julianstephens/timetable/internal/models"
)

// SaveUser upserts the mirrored user record.
func (c *Client) SaveUser(ctx context.Context, user models.User) (models.User, error) {
	var saved models.User
	if err := c.Do(ctx, "save user", http.MethodPost, "/users", user, &saved); err != nil {
		return models.User{}, err
	}
	return saved, nil
}

// GetUser fetches a user record by uid.
func (c *Client) GetUser(ctx context.Context, uid string) (models.User, error) {
	var user models.User
	if err := c.Do(ctx, "get user", http.MethodGet, "/users/"+pathEscape(uid), nil, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}
