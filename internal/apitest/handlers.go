package apitest

import (
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/promptlane/promptlane-go/models"
)

// Seed helpers, usable from tests to install fixtures directly.

// AddProject stores a project, assigning an id when absent.
func (s *Server) AddProject(p models.Project) models.Project {
	fillBase(&p.Base)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID.String()] = p
	return p
}

// AddPrompt stores a prompt, assigning an id when absent.
func (s *Server) AddPrompt(p models.Prompt) models.Prompt {
	fillBase(&p.Base)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts[p.ID.String()] = p
	return p
}

// AddTeam stores a team, assigning an id when absent.
func (s *Server) AddTeam(t models.Team) models.Team {
	fillBase(&t.Base)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[t.ID.String()] = t
	return t
}

// AddUser stores a user, assigning an id when absent.
func (s *Server) AddUser(u models.User) models.User {
	fillBase(&u.Base)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID.String()] = u
	return u
}

// AddActivity stores an activity, assigning an id when absent.
func (s *Server) AddActivity(a models.Activity) models.Activity {
	fillBase(&a.Base)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities[a.ID.String()] = a
	return a
}

// AddTeamMember stores a membership row, assigning an id when absent.
func (s *Server) AddTeamMember(m models.TeamMember) models.TeamMember {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[m.ID.String()] = m
	return m
}

// Projects

func (s *Server) findProject(idOrKey string) (models.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.projects[idOrKey]; ok {
		return p, true
	}
	for _, p := range s.projects {
		if p.Key == idOrKey {
			return p, true
		}
	}
	return models.Project{}, false
}

func (s *Server) listProjects(c *fiber.Ctx) error {
	filters := queryFilter(c)
	s.mu.Lock()
	out := make([]models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		if v, ok := filters["team_id"]; ok && p.TeamID.String() != v {
			continue
		}
		out = append(out, p)
	}
	s.mu.Unlock()
	sortByID(out, func(p models.Project) string { return p.ID.String() })
	return c.JSON(out)
}

func (s *Server) getProject(c *fiber.Ctx) error {
	p, ok := s.findProject(c.Params("id"))
	if !ok {
		return notFound(c, "project")
	}
	return c.JSON(p)
}

func (s *Server) createProject(c *fiber.Ctx) error {
	var p models.Project
	if err := c.BodyParser(&p); err != nil {
		return validationError(c, err.Error())
	}
	if p.Name == "" || p.Key == "" {
		return validationError(c, "name and key are required")
	}
	return c.JSON(s.AddProject(p))
}

func (s *Server) updateProject(c *fiber.Ctx) error {
	p, ok := s.findProject(c.Params("id"))
	if !ok {
		return notFound(c, "project")
	}
	if err := c.BodyParser(&p); err != nil {
		return validationError(c, err.Error())
	}
	p.UpdatedAt = time.Now().UTC()
	s.mu.Lock()
	s.projects[p.ID.String()] = p
	s.mu.Unlock()
	return c.JSON(p)
}

func (s *Server) deleteProject(c *fiber.Ctx) error {
	p, ok := s.findProject(c.Params("id"))
	if !ok {
		return notFound(c, "project")
	}
	s.mu.Lock()
	delete(s.projects, p.ID.String())
	s.mu.Unlock()
	return c.JSON(fiber.Map{"deleted": true})
}

func (s *Server) projectPrompts(c *fiber.Ctx) error {
	p, ok := s.findProject(c.Params("id"))
	if !ok {
		return notFound(c, "project")
	}
	s.mu.Lock()
	out := []models.Prompt{}
	for _, pr := range s.prompts {
		if pr.ProjectID == p.ID {
			out = append(out, pr)
		}
	}
	s.mu.Unlock()
	sortByID(out, func(p models.Prompt) string { return p.ID.String() })
	return c.JSON(out)
}

// Prompts

func (s *Server) findPrompt(idOrKey string) (models.Prompt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.prompts[idOrKey]; ok {
		return p, true
	}
	for _, p := range s.prompts {
		if p.Key == idOrKey {
			return p, true
		}
	}
	return models.Prompt{}, false
}

func (s *Server) listPrompts(c *fiber.Ctx) error {
	filters := queryFilter(c)
	s.mu.Lock()
	out := make([]models.Prompt, 0, len(s.prompts))
	for _, p := range s.prompts {
		if v, ok := filters["project_id"]; ok && p.ProjectID.String() != v {
			continue
		}
		if v, ok := filters["parent_id"]; ok && (p.ParentID == nil || p.ParentID.String() != v) {
			continue
		}
		out = append(out, p)
	}
	s.mu.Unlock()
	sortByID(out, func(p models.Prompt) string { return p.ID.String() })
	return c.JSON(out)
}

func (s *Server) getPrompt(c *fiber.Ctx) error {
	p, ok := s.findPrompt(c.Params("id"))
	if !ok {
		return notFound(c, "prompt")
	}
	return c.JSON(p)
}

func (s *Server) createPrompt(c *fiber.Ctx) error {
	var p models.Prompt
	if err := c.BodyParser(&p); err != nil {
		return validationError(c, err.Error())
	}
	if p.Name == "" || p.Key == "" {
		return validationError(c, "name and key are required")
	}
	if p.Version == 0 {
		p.Version = 1
	}
	return c.JSON(s.AddPrompt(p))
}

func (s *Server) updatePrompt(c *fiber.Ctx) error {
	p, ok := s.findPrompt(c.Params("id"))
	if !ok {
		return notFound(c, "prompt")
	}
	if err := c.BodyParser(&p); err != nil {
		return validationError(c, err.Error())
	}
	p.UpdatedAt = time.Now().UTC()
	s.mu.Lock()
	s.prompts[p.ID.String()] = p
	s.mu.Unlock()
	return c.JSON(p)
}

func (s *Server) deletePrompt(c *fiber.Ctx) error {
	p, ok := s.findPrompt(c.Params("id"))
	if !ok {
		return notFound(c, "prompt")
	}
	s.mu.Lock()
	delete(s.prompts, p.ID.String())
	s.mu.Unlock()
	return c.JSON(fiber.Map{"deleted": true})
}

func (s *Server) lineageRoot(p models.Prompt) uuid.UUID {
	if p.ParentID != nil {
		return *p.ParentID
	}
	return p.ID
}

func (s *Server) promptVersions(c *fiber.Ctx) error {
	p, ok := s.findPrompt(c.Params("id"))
	if !ok {
		return notFound(c, "prompt")
	}
	root := s.lineageRoot(p)

	s.mu.Lock()
	out := []models.Prompt{}
	for _, pr := range s.prompts {
		if pr.ID == root || (pr.ParentID != nil && *pr.ParentID == root) {
			out = append(out, pr)
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return c.JSON(out)
}

func (s *Server) createPromptVersion(c *fiber.Ctx) error {
	parent, ok := s.findPrompt(c.Params("id"))
	if !ok {
		return notFound(c, "prompt")
	}

	var p models.Prompt
	if err := c.BodyParser(&p); err != nil {
		return validationError(c, err.Error())
	}
	parentID := parent.ID
	p.ParentID = &parentID
	p.ProjectID = parent.ProjectID
	p.Version = parent.Version + 1
	return c.JSON(s.AddPrompt(p))
}

func sortByID[T any](items []T, id func(T) string) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}
