package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/promptlane/promptlane-go/models"
)

// TeamMembers lists the users belonging to a team via the membership
// join.
func (c *Connection) TeamMembers(ctx context.Context, teamID string) ([]models.User, error) {
	defer c.observe("team_members", "team_members", time.Now())

	var users []models.User
	err := c.db.WithContext(ctx).
		Table("users").
		Select("users.*").
		Joins("JOIN team_members ON team_members.user_id = users.id").
		Where("team_members.team_id = ?", teamID).
		Find(&users).Error
	return users, errors.Wrapf(err, "listing members of team %s", teamID)
}

// UserTeams lists the teams a user belongs to via the membership join.
func (c *Connection) UserTeams(ctx context.Context, userID string) ([]models.Team, error) {
	defer c.observe("team_members", "user_teams", time.Now())

	var teams []models.Team
	err := c.db.WithContext(ctx).
		Table("teams").
		Select("teams.*").
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ?", userID).
		Find(&teams).Error
	return teams, errors.Wrapf(err, "listing teams of user %s", userID)
}

// AddTeamMember inserts a membership row with the given role and an
// active status, returning the committed row.
func (c *Connection) AddTeamMember(ctx context.Context, teamID, userID, role string) (*models.TeamMember, error) {
	defer c.observe("team_members", "add_member", time.Now())

	values := map[string]any{
		"id":         uuid.NewString(),
		"team_id":    teamID,
		"user_id":    userID,
		"role":       role,
		"status":     "active",
		"created_at": time.Now().UTC(),
		"updated_at": time.Now().UTC(),
	}

	var member models.TeamMember
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("team_members").Create(values).Error; err != nil {
			return err
		}
		return tx.Table("team_members").
			Where("team_id = ? AND user_id = ?", teamID, userID).
			Take(&member).Error
	})
	if err != nil {
		return nil, errors.Wrapf(err, "adding user %s to team %s", userID, teamID)
	}
	return &member, nil
}

// RemoveTeamMember deletes a membership row, reporting whether one was
// removed.
func (c *Connection) RemoveTeamMember(ctx context.Context, teamID, userID string) (bool, error) {
	defer c.observe("team_members", "remove_member", time.Now())

	res := c.db.WithContext(ctx).
		Exec("DELETE FROM team_members WHERE team_id = ? AND user_id = ?", teamID, userID)
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "removing user %s from team %s", userID, teamID)
	}
	return res.RowsAffected > 0, nil
}

// InviteUser inserts a user in the invited state with a generated
// invitation token, returning the committed row.
func (c *Connection) InviteUser(ctx context.Context, email, fullName string) (*models.User, error) {
	defer c.observe("users", "invite", time.Now())

	id := uuid.NewString()
	values := map[string]any{
		"id":               id,
		"email":            email,
		"status":           string(models.UserStatusInvited),
		"invitation_token": uuid.NewString(),
		"is_active":        false,
		"created_at":       time.Now().UTC(),
		"updated_at":       time.Now().UTC(),
	}
	if fullName != "" {
		values["full_name"] = fullName
	}

	var user models.User
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("users").Create(values).Error; err != nil {
			return err
		}
		return tx.Table("users").Where("id = ?", id).Take(&user).Error
	})
	if err != nil {
		return nil, errors.Wrapf(err, "inviting user %s", email)
	}
	return &user, nil
}
