package promptlane

import (
	"context"

	"go.uber.org/zap"

	"github.com/promptlane/promptlane-go/models"
)

// Projects is the dispatcher for the projects resource.
type Projects struct {
	*Resource[models.Project, models.ProjectCreate, models.ProjectUpdate]
}

// NewProjects builds a projects dispatcher over the given connections.
func NewProjects(db, api Connection, logger *zap.Logger) (*Projects, error) {
	r, err := newResource[models.Project, models.ProjectCreate, models.ProjectUpdate](
		resourceMeta{name: "projects"}, db, api, logger)
	if err != nil {
		return nil, err
	}
	return &Projects{Resource: r}, nil
}

// Prompts lists the prompts belonging to a project.
func (p *Projects) Prompts(ctx context.Context, projectID any) ([]models.Prompt, error) {
	id := idString(projectID)

	var prompts []models.Prompt
	if p.db != nil && p.mode != ModeMixed {
		p.logDispatch("project prompts", p.db)
		err := p.db.List(ctx, "prompts", map[string]string{"project_id": id}, &prompts)
		return prompts, err
	}

	p.logDispatch("project prompts", p.api)
	err := p.api.List(ctx, "projects/"+id+"/prompts", nil, &prompts)
	return prompts, err
}
