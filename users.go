package promptlane

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/promptlane/promptlane-go/models"
)

// Users is the dispatcher for the users resource. User accounts carry
// security-sensitive rules, so every write goes through the API
// regardless of connection mode.
type Users struct {
	*Resource[models.User, models.UserCreate, models.UserUpdate]
}

// NewUsers builds a users dispatcher over the given connections.
func NewUsers(db, api Connection, logger *zap.Logger) (*Users, error) {
	r, err := newResource[models.User, models.UserCreate, models.UserUpdate](
		resourceMeta{name: "users", writeThrough: true}, db, api, logger)
	if err != nil {
		return nil, err
	}
	return &Users{Resource: r}, nil
}

// Teams lists the teams a user belongs to.
func (u *Users) Teams(ctx context.Context, userID any) ([]models.Team, error) {
	id := idString(userID)

	if u.db != nil && u.mode != ModeMixed {
		if rq, ok := u.db.(relationQuerier); ok {
			u.logDispatch("list teams", u.db)
			return rq.UserTeams(ctx, id)
		}
	}

	var teams []models.Team
	u.logDispatch("list teams", u.api)
	if err := u.api.List(ctx, "users/"+id+"/teams", nil, &teams); err != nil {
		return nil, errors.Wrapf(err, "listing teams of user %s", id)
	}
	return teams, nil
}

// Invite creates a user in the invited state.
func (u *Users) Invite(ctx context.Context, email, fullName string) (*models.User, error) {
	var user models.User
	err := u.apiWrite("invite user", func(conn Connection) error {
		body := map[string]string{"email": email, "full_name": fullName}
		return conn.Create(ctx, "users/invite", body, &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Activate switches a user to the active state.
func (u *Users) Activate(ctx context.Context, idOrKey any) (*models.User, error) {
	return u.statusAction(ctx, idOrKey, "activate")
}

// Deactivate switches a user to the disabled state.
func (u *Users) Deactivate(ctx context.Context, idOrKey any) (*models.User, error) {
	return u.statusAction(ctx, idOrKey, "deactivate")
}

func (u *Users) statusAction(ctx context.Context, idOrKey any, action string) (*models.User, error) {
	id := idString(idOrKey)

	var user models.User
	err := u.apiWrite(action+" user", func(conn Connection) error {
		return conn.Create(ctx, "users/"+id+"/"+action, struct{}{}, &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword changes a user's password, verifying the current one.
func (u *Users) ChangePassword(ctx context.Context, idOrKey any, currentPassword, newPassword string) (bool, error) {
	id := idString(idOrKey)

	err := u.apiWrite("change user password", func(conn Connection) error {
		body := map[string]string{
			"current_password": currentPassword,
			"new_password":     newPassword,
		}
		return conn.Create(ctx, "users/"+id+"/change-password", body, nil)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
