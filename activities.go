package promptlane

import (
	"context"

	"go.uber.org/zap"

	"github.com/promptlane/promptlane-go/models"
)

// Activities is the dispatcher for the activity log.
type Activities struct {
	*Resource[models.Activity, models.ActivityCreate, models.ActivityUpdate]
}

// NewActivities builds an activities dispatcher over the given
// connections.
func NewActivities(db, api Connection, logger *zap.Logger) (*Activities, error) {
	r, err := newResource[models.Activity, models.ActivityCreate, models.ActivityUpdate](
		resourceMeta{name: "activities"}, db, api, logger)
	if err != nil {
		return nil, err
	}
	return &Activities{Resource: r}, nil
}

// ListForUser lists the activities recorded for one user.
func (a *Activities) ListForUser(ctx context.Context, userID any, opts ...CallOption) ([]models.Activity, error) {
	return a.List(ctx, append(opts, Filter("user_id", idString(userID)))...)
}
