package promptlane

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/promptlane/promptlane-go/models"
)

// Teams is the dispatcher for the teams resource. Teams carry
// membership business rules, so every write goes through the API
// regardless of connection mode.
type Teams struct {
	*Resource[models.Team, models.TeamCreate, models.TeamUpdate]
}

// NewTeams builds a teams dispatcher over the given connections.
func NewTeams(db, api Connection, logger *zap.Logger) (*Teams, error) {
	r, err := newResource[models.Team, models.TeamCreate, models.TeamUpdate](
		resourceMeta{name: "teams", writeThrough: true}, db, api, logger)
	if err != nil {
		return nil, err
	}
	return &Teams{Resource: r}, nil
}

// Members lists the users belonging to a team.
func (t *Teams) Members(ctx context.Context, teamID any) ([]models.User, error) {
	id := idString(teamID)

	if t.db != nil && t.mode != ModeMixed {
		if rq, ok := t.db.(relationQuerier); ok {
			t.logDispatch("list members", t.db)
			return rq.TeamMembers(ctx, id)
		}
	}

	var members []models.User
	t.logDispatch("list members", t.api)
	if err := t.api.List(ctx, "teams/"+id+"/members", nil, &members); err != nil {
		return nil, errors.Wrapf(err, "listing members of team %s", id)
	}
	return members, nil
}

// AddMember adds a user to a team with the given role.
func (t *Teams) AddMember(ctx context.Context, teamID, userID any, role string) (*models.TeamMember, error) {
	tid, uid := idString(teamID), idString(userID)

	var member models.TeamMember
	err := t.apiWrite("add team member", func(conn Connection) error {
		body := map[string]string{"user_id": uid, "role": role}
		return conn.Create(ctx, "teams/"+tid+"/members", body, &member)
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// RemoveMember removes a user from a team.
func (t *Teams) RemoveMember(ctx context.Context, teamID, userID any) (bool, error) {
	tid, uid := idString(teamID), idString(userID)

	var ok bool
	err := t.apiWrite("remove team member", func(conn Connection) error {
		var err error
		ok, err = conn.Delete(ctx, "teams/"+tid+"/members", uid)
		return err
	})
	return ok, err
}

// UpdateMemberRole changes a team member's role.
func (t *Teams) UpdateMemberRole(ctx context.Context, teamID, userID any, role string) (*models.TeamMember, error) {
	tid, uid := idString(teamID), idString(userID)

	var member models.TeamMember
	err := t.apiWrite("update team member role", func(conn Connection) error {
		body := map[string]string{"role": role}
		return conn.Update(ctx, fmt.Sprintf("teams/%s/members/%s", tid, uid), "", body, &member)
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}
