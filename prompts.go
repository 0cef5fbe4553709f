package promptlane

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/promptlane/promptlane-go/api"
	"github.com/promptlane/promptlane-go/models"
)

// Prompts is the dispatcher for the prompts resource, including the
// version lineage operations.
type Prompts struct {
	*Resource[models.Prompt, models.PromptCreate, models.PromptUpdate]
}

// NewPrompts builds a prompts dispatcher over the given connections.
func NewPrompts(db, api Connection, logger *zap.Logger) (*Prompts, error) {
	r, err := newResource[models.Prompt, models.PromptCreate, models.PromptUpdate](
		resourceMeta{name: "prompts"}, db, api, logger)
	if err != nil {
		return nil, err
	}
	return &Prompts{Resource: r}, nil
}

// CreateVersion creates a new version of an existing prompt. Under the
// API or mixed mode the dedicated versions endpoint does the chaining;
// under pure database mode the parent is resolved first and the new
// version points at it.
func (p *Prompts) CreateVersion(ctx context.Context, idOrKey any, data models.PromptCreate) (*models.Prompt, error) {
	id := idString(idOrKey)

	var out models.Prompt
	if p.mode == ModeMixed || p.db == nil {
		p.logDispatch("create version", p.api)
		if err := p.api.Create(ctx, "prompts/"+id+"/versions", data, &out); err != nil {
			return nil, err
		}
		return &out, nil
	}

	parent, err := p.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, errors.Wrapf(api.ErrNotFound, "prompt %s", id)
	}

	data.ParentID = &parent.ID
	p.logDispatch("create version", p.db)
	if err := p.db.Create(ctx, "prompts", data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Versions lists every version sharing a prompt's lineage, including
// the lineage root itself.
func (p *Prompts) Versions(ctx context.Context, idOrKey any) ([]models.Prompt, error) {
	id := idString(idOrKey)

	if p.db != nil && p.mode != ModeMixed {
		prompt, err := p.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if prompt == nil {
			return nil, errors.Wrapf(api.ErrNotFound, "prompt %s", id)
		}

		rootID := prompt.ID
		if prompt.ParentID != nil {
			rootID = *prompt.ParentID
		}

		var versions []models.Prompt
		var root models.Prompt
		found, err := p.db.Get(ctx, "prompts", rootID.String(), &root)
		if err != nil {
			return nil, err
		}
		if found {
			versions = append(versions, root)
		}

		var children []models.Prompt
		p.logDispatch("list versions", p.db)
		if err := p.db.List(ctx, "prompts", map[string]string{"parent_id": rootID.String()}, &children); err != nil {
			return nil, err
		}
		return append(versions, children...), nil
	}

	var versions []models.Prompt
	p.logDispatch("list versions", p.api)
	if err := p.api.List(ctx, "prompts/"+id+"/versions", nil, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}
