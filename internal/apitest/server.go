// Package apitest runs an in-process stub of the PromptLane REST API
// for exercising the HTTP backend in tests. It keeps every resource in
// memory and supports programmable failures for retry and error-mapping
// scenarios.
package apitest

import (
	"net"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/promptlane/promptlane-go/models"
)

type failure struct {
	method    string
	path      string
	status    int
	remaining int
}

// Server is an in-memory PromptLane API listening on a loopback port.
type Server struct {
	app    *fiber.App
	ln     net.Listener
	apiKey string

	mu         sync.Mutex
	projects   map[string]models.Project
	prompts    map[string]models.Prompt
	teams      map[string]models.Team
	users      map[string]models.User
	activities map[string]models.Activity
	members    map[string]models.TeamMember
	failures   []*failure
}

// New starts a stub server. Requests must carry the given bearer key;
// pass an empty key to disable the check.
func New(apiKey string) (*Server, error) {
	s := &Server{
		apiKey:     apiKey,
		projects:   map[string]models.Project{},
		prompts:    map[string]models.Prompt{},
		teams:      map[string]models.Team{},
		users:      map[string]models.User{},
		activities: map[string]models.Activity{},
		members:    map[string]models.TeamMember{},
	}

	s.app = fiber.New(fiber.Config{DisableStartupMessage: true})
	s.app.Use(s.failureMiddleware)
	s.app.Use(s.authMiddleware)
	s.routes()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	s.ln = ln
	go s.app.Listener(ln)

	return s, nil
}

// URL returns the server's base URL.
func (s *Server) URL() string {
	return "http://" + s.ln.Addr().String()
}

// Close shuts the server down.
func (s *Server) Close() error {
	return s.app.Shutdown()
}

// FailNext makes the next n requests matching method and path (e.g.
// "/v1/projects") respond with the given status.
func (s *Server) FailNext(method, path string, status, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, &failure{method: method, path: path, status: status, remaining: n})
}

func (s *Server) failureMiddleware(c *fiber.Ctx) error {
	s.mu.Lock()
	for _, f := range s.failures {
		if f.remaining > 0 && f.method == c.Method() && f.path == c.Path() {
			f.remaining--
			status := f.status
			s.mu.Unlock()
			return c.Status(status).JSON(fiber.Map{"detail": "injected failure"})
		}
	}
	s.mu.Unlock()
	return c.Next()
}

func (s *Server) authMiddleware(c *fiber.Ctx) error {
	if s.apiKey == "" {
		return c.Next()
	}
	if c.Get("Authorization") != "Bearer "+s.apiKey {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "invalid api key"})
	}
	return c.Next()
}

func (s *Server) routes() {
	v1 := s.app.Group("/v1")

	v1.Get("/projects", s.listProjects)
	v1.Post("/projects", s.createProject)
	v1.Get("/projects/:id/prompts", s.projectPrompts)
	v1.Get("/projects/:id", s.getProject)
	v1.Put("/projects/:id", s.updateProject)
	v1.Delete("/projects/:id", s.deleteProject)

	v1.Get("/prompts", s.listPrompts)
	v1.Post("/prompts", s.createPrompt)
	v1.Get("/prompts/:id/versions", s.promptVersions)
	v1.Post("/prompts/:id/versions", s.createPromptVersion)
	v1.Get("/prompts/:id", s.getPrompt)
	v1.Put("/prompts/:id", s.updatePrompt)
	v1.Delete("/prompts/:id", s.deletePrompt)

	v1.Get("/teams", s.listTeams)
	v1.Post("/teams", s.createTeam)
	v1.Get("/teams/:id/members", s.teamMembers)
	v1.Post("/teams/:id/members", s.addTeamMember)
	v1.Put("/teams/:id/members/:uid", s.updateTeamMember)
	v1.Delete("/teams/:id/members/:uid", s.removeTeamMember)
	v1.Get("/teams/:id", s.getTeam)
	v1.Put("/teams/:id", s.updateTeam)
	v1.Delete("/teams/:id", s.deleteTeam)

	v1.Post("/users/invite", s.inviteUser)
	v1.Get("/users", s.listUsers)
	v1.Post("/users", s.createUser)
	v1.Get("/users/:id/teams", s.userTeams)
	v1.Post("/users/:id/activate", s.activateUser)
	v1.Post("/users/:id/deactivate", s.deactivateUser)
	v1.Post("/users/:id/change-password", s.changePassword)
	v1.Get("/users/:id", s.getUser)
	v1.Put("/users/:id", s.updateUser)
	v1.Delete("/users/:id", s.deleteUser)

	v1.Get("/activities", s.listActivities)
	v1.Post("/activities", s.createActivity)
	v1.Get("/activities/:id", s.getActivity)
	v1.Delete("/activities/:id", s.deleteActivity)
}

func notFound(c *fiber.Ctx, what string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": what + " not found"})
}

func validationError(c *fiber.Ctx, detail string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": detail})
}

func fillBase(b *models.Base) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

func queryFilter(c *fiber.Ctx) map[string]string {
	filters := map[string]string{}
	for k, v := range c.Queries() {
		filters[k] = v
	}
	return filters
}
