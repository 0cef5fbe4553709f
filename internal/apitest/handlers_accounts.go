package apitest

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/promptlane/promptlane-go/models"
)

// Teams

func (s *Server) findTeam(id string) (models.Team, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[id]
	return t, ok
}

func (s *Server) listTeams(c *fiber.Ctx) error {
	s.mu.Lock()
	out := make([]models.Team, 0, len(s.teams))
	for _, t := range s.teams {
		out = append(out, t)
	}
	s.mu.Unlock()
	sortByID(out, func(t models.Team) string { return t.ID.String() })
	return c.JSON(out)
}

func (s *Server) getTeam(c *fiber.Ctx) error {
	t, ok := s.findTeam(c.Params("id"))
	if !ok {
		return notFound(c, "team")
	}
	return c.JSON(t)
}

func (s *Server) createTeam(c *fiber.Ctx) error {
	var t models.Team
	if err := c.BodyParser(&t); err != nil {
		return validationError(c, err.Error())
	}
	if t.Name == "" {
		return validationError(c, "name is required")
	}
	return c.JSON(s.AddTeam(t))
}

func (s *Server) updateTeam(c *fiber.Ctx) error {
	t, ok := s.findTeam(c.Params("id"))
	if !ok {
		return notFound(c, "team")
	}
	if err := c.BodyParser(&t); err != nil {
		return validationError(c, err.Error())
	}
	t.UpdatedAt = time.Now().UTC()
	s.mu.Lock()
	s.teams[t.ID.String()] = t
	s.mu.Unlock()
	return c.JSON(t)
}

func (s *Server) deleteTeam(c *fiber.Ctx) error {
	t, ok := s.findTeam(c.Params("id"))
	if !ok {
		return notFound(c, "team")
	}
	s.mu.Lock()
	delete(s.teams, t.ID.String())
	s.mu.Unlock()
	return c.JSON(fiber.Map{"deleted": true})
}

func (s *Server) teamMembers(c *fiber.Ctx) error {
	t, ok := s.findTeam(c.Params("id"))
	if !ok {
		return notFound(c, "team")
	}
	s.mu.Lock()
	out := []models.User{}
	for _, m := range s.members {
		if m.TeamID == t.ID {
			if u, ok := s.users[m.UserID.String()]; ok {
				out = append(out, u)
			}
		}
	}
	s.mu.Unlock()
	sortByID(out, func(u models.User) string { return u.ID.String() })
	return c.JSON(out)
}

func (s *Server) addTeamMember(c *fiber.Ctx) error {
	t, ok := s.findTeam(c.Params("id"))
	if !ok {
		return notFound(c, "team")
	}

	var body struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
	}
	if err := c.BodyParser(&body); err != nil {
		return validationError(c, err.Error())
	}
	userID, err := uuid.Parse(body.UserID)
	if err != nil {
		return validationError(c, "user_id must be a uuid")
	}
	if body.Role == "" {
		return validationError(c, "role is required")
	}

	member := s.AddTeamMember(models.TeamMember{
		TeamID: t.ID,
		UserID: userID,
		Role:   body.Role,
		Status: "active",
	})
	return c.JSON(member)
}

func (s *Server) findMember(teamID, userID string) (models.TeamMember, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members {
		if m.TeamID.String() == teamID && m.UserID.String() == userID {
			return m, true
		}
	}
	return models.TeamMember{}, false
}

func (s *Server) updateTeamMember(c *fiber.Ctx) error {
	m, ok := s.findMember(c.Params("id"), c.Params("uid"))
	if !ok {
		return notFound(c, "team member")
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&body); err != nil {
		return validationError(c, err.Error())
	}
	if body.Role == "" {
		return validationError(c, "role is required")
	}
	m.Role = body.Role
	m.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	s.members[m.ID.String()] = m
	s.mu.Unlock()
	return c.JSON(m)
}

func (s *Server) removeTeamMember(c *fiber.Ctx) error {
	m, ok := s.findMember(c.Params("id"), c.Params("uid"))
	if !ok {
		return notFound(c, "team member")
	}
	s.mu.Lock()
	delete(s.members, m.ID.String())
	s.mu.Unlock()
	return c.JSON(fiber.Map{"deleted": true})
}

// Users

func (s *Server) findUser(id string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return u, ok
}

func (s *Server) listUsers(c *fiber.Ctx) error {
	s.mu.Lock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	s.mu.Unlock()
	sortByID(out, func(u models.User) string { return u.ID.String() })
	return c.JSON(out)
}

func (s *Server) getUser(c *fiber.Ctx) error {
	u, ok := s.findUser(c.Params("id"))
	if !ok {
		return notFound(c, "user")
	}
	return c.JSON(u)
}

func (s *Server) createUser(c *fiber.Ctx) error {
	var u models.User
	if err := c.BodyParser(&u); err != nil {
		return validationError(c, err.Error())
	}
	if u.Email == "" {
		return validationError(c, "email is required")
	}
	if u.Status == "" {
		u.Status = models.UserStatusActive
	}
	return c.JSON(s.AddUser(u))
}

func (s *Server) updateUser(c *fiber.Ctx) error {
	u, ok := s.findUser(c.Params("id"))
	if !ok {
		return notFound(c, "user")
	}
	if err := c.BodyParser(&u); err != nil {
		return validationError(c, err.Error())
	}
	u.UpdatedAt = time.Now().UTC()
	s.mu.Lock()
	s.users[u.ID.String()] = u
	s.mu.Unlock()
	return c.JSON(u)
}

func (s *Server) deleteUser(c *fiber.Ctx) error {
	u, ok := s.findUser(c.Params("id"))
	if !ok {
		return notFound(c, "user")
	}
	s.mu.Lock()
	delete(s.users, u.ID.String())
	s.mu.Unlock()
	return c.JSON(fiber.Map{"deleted": true})
}

func (s *Server) userTeams(c *fiber.Ctx) error {
	u, ok := s.findUser(c.Params("id"))
	if !ok {
		return notFound(c, "user")
	}
	s.mu.Lock()
	out := []models.Team{}
	for _, m := range s.members {
		if m.UserID == u.ID {
			if t, ok := s.teams[m.TeamID.String()]; ok {
				out = append(out, t)
			}
		}
	}
	s.mu.Unlock()
	sortByID(out, func(t models.Team) string { return t.ID.String() })
	return c.JSON(out)
}

func (s *Server) inviteUser(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		FullName string `json:"full_name"`
	}
	if err := c.BodyParser(&body); err != nil {
		return validationError(c, err.Error())
	}
	if body.Email == "" {
		return validationError(c, "email is required")
	}

	user := s.AddUser(models.User{
		Email:           body.Email,
		FullName:        body.FullName,
		Status:          models.UserStatusInvited,
		IsActive:        false,
		InvitationToken: uuid.NewString(),
	})
	return c.JSON(user)
}

func (s *Server) activateUser(c *fiber.Ctx) error {
	return s.setUserActive(c, true)
}

func (s *Server) deactivateUser(c *fiber.Ctx) error {
	return s.setUserActive(c, false)
}

func (s *Server) setUserActive(c *fiber.Ctx, active bool) error {
	u, ok := s.findUser(c.Params("id"))
	if !ok {
		return notFound(c, "user")
	}
	u.IsActive = active
	if active {
		u.Status = models.UserStatusActive
	} else {
		u.Status = models.UserStatusDisabled
	}
	u.UpdatedAt = time.Now().UTC()
	s.mu.Lock()
	s.users[u.ID.String()] = u
	s.mu.Unlock()
	return c.JSON(u)
}

func (s *Server) changePassword(c *fiber.Ctx) error {
	if _, ok := s.findUser(c.Params("id")); !ok {
		return notFound(c, "user")
	}
	var body struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return validationError(c, err.Error())
	}
	if body.NewPassword == "" {
		return validationError(c, "new_password is required")
	}
	return c.JSON(fiber.Map{"changed": true})
}

// Activities

func (s *Server) listActivities(c *fiber.Ctx) error {
	filters := queryFilter(c)
	s.mu.Lock()
	out := make([]models.Activity, 0, len(s.activities))
	for _, a := range s.activities {
		if v, ok := filters["user_id"]; ok && a.UserID.String() != v {
			continue
		}
		out = append(out, a)
	}
	s.mu.Unlock()
	sortByID(out, func(a models.Activity) string { return a.ID.String() })
	return c.JSON(out)
}

func (s *Server) getActivity(c *fiber.Ctx) error {
	s.mu.Lock()
	a, ok := s.activities[c.Params("id")]
	s.mu.Unlock()
	if !ok {
		return notFound(c, "activity")
	}
	return c.JSON(a)
}

func (s *Server) createActivity(c *fiber.Ctx) error {
	var a models.Activity
	if err := c.BodyParser(&a); err != nil {
		return validationError(c, err.Error())
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	return c.JSON(s.AddActivity(a))
}

func (s *Server) deleteActivity(c *fiber.Ctx) error {
	s.mu.Lock()
	a, ok := s.activities[c.Params("id")]
	if ok {
		delete(s.activities, a.ID.String())
	}
	s.mu.Unlock()
	if !ok {
		return notFound(c, "activity")
	}
	return c.JSON(fiber.Map{"deleted": true})
}
