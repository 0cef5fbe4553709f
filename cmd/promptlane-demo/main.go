// Command promptlane-demo walks through the SDK against a live
// PromptLane deployment. Configuration comes from the environment (or a
// .env file): set PROMPTLANE_API_URL and PROMPTLANE_API_KEY, and
// optionally PROMPTLANE_DB_CONNECTION for mixed mode.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	promptlane "github.com/promptlane/promptlane-go"
	"github.com/promptlane/promptlane-go/models"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "creating logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("demo failed", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	cfg := promptlane.ConfigFromEnv()
	cfg.Logger = logger
	if cfg.DatabaseURL != "" {
		cfg.Mode = promptlane.ModeMixed
	}

	client, err := promptlane.New(cfg)
	if err != nil {
		return err
	}
	defer client.Close()
	logger.Info("connected", zap.String("mode", string(client.Mode())))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	projects, err := client.Projects.List(ctx)
	if err != nil {
		return err
	}
	logger.Info("listed projects", zap.Int("count", len(projects)))
	for _, p := range projects {
		fmt.Printf("  %s  %-20s %s\n", p.ID, p.Key, p.Name)
	}
	if len(projects) == 0 {
		logger.Info("no projects; nothing more to show")
		return nil
	}

	project, err := client.Projects.Get(ctx, projects[0].ID)
	if err != nil {
		return err
	}

	prompt, err := client.Prompts.Create(ctx, models.PromptCreate{
		Name:         "Demo greeting",
		Key:          fmt.Sprintf("demo-greeting-%d", time.Now().Unix()),
		SystemPrompt: "You are a friendly assistant.",
		UserPrompt:   "Say hello to {{name}}.",
		ProjectID:    project.ID,
	})
	if err != nil {
		return err
	}
	logger.Info("created prompt",
		zap.String("id", prompt.ID.String()),
		zap.String("key", prompt.Key),
		zap.Int("version", prompt.Version))

	revised, err := client.Prompts.CreateVersion(ctx, prompt.ID, models.PromptCreate{
		Name:         prompt.Name,
		Key:          prompt.Key,
		SystemPrompt: "You are a friendly assistant. Keep replies short.",
		UserPrompt:   prompt.UserPrompt,
		ProjectID:    prompt.ProjectID,
	})
	if err != nil {
		return err
	}

	versions, err := client.Prompts.Versions(ctx, revised.ID)
	if err != nil {
		return err
	}
	logger.Info("prompt lineage", zap.Int("versions", len(versions)))
	for _, v := range versions {
		fmt.Printf("  v%d  %s\n", v.Version, v.ID)
	}
	return nil
}
