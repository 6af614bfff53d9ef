package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"podcastogist/internal/generate"
	"podcastogist/internal/logging"
	"podcastogist/internal/pipeline"
	"podcastogist/internal/plan"
	"podcastogist/internal/project"
	"podcastogist/internal/project/redisstore"
	"podcastogist/internal/step"
	"podcastogist/internal/transcription"
)

var processPlan string

// processCmd runs one project through the whole pipeline in-process, against
// an embedded Redis and the fixture providers. No external services needed;
// useful for demos and for eyeballing pipeline output.
var processCmd = &cobra.Command{
	Use:   "process [audio-url]",
	Short: "Run the pipeline locally with fixture providers",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		audioURL := "https://example.com/fixture-podcast.mp3"
		if len(args) > 0 {
			audioURL = args[0]
		}

		logger := logging.MustNewLogger(true)
		defer func() { _ = logger.Sync() }()

		mr, err := miniredis.Run()
		if err != nil {
			return fmt.Errorf("start embedded redis: %w", err)
		}
		defer mr.Close()

		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		store := redisstore.New(rdb, logger)

		transcriber := transcription.NewDirectService(transcription.NewFixtureProvider(), store, logger)
		generator := generate.NewService(generate.NewFixtureCompleter(), logger)
		svc := pipeline.NewService(store, transcriber, generator, nil, logger)

		ctx := context.Background()
		projectID := uuid.New().String()
		now := time.Now()
		err = store.Create(ctx, &project.Project{
			ID:      projectID,
			UserID:  "local",
			Plan:    plan.Normalize(plan.Name(processPlan)),
			FileURL: audioURL,
			Status:  project.StatusUploaded,
			JobStatus: project.JobStatus{
				Transcription:     project.PhasePending,
				ContentGeneration: project.PhasePending,
			},
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("create project: %w", err)
		}

		result, err := svc.Process(ctx, step.NewSyncRunner(), pipeline.UploadCompletedEvent{
			ProjectID: projectID,
			FileURL:   audioURL,
			Plan:      plan.Name(processPlan),
			UserID:    "local",
		})
		if err != nil {
			return fmt.Errorf("pipeline: %w", err)
		}

		doc, err := store.Get(ctx, projectID)
		if err != nil {
			return fmt.Errorf("read back project: %w", err)
		}

		out, _ := json.MarshalIndent(map[string]any{
			"result":           result,
			"status":           doc.Status,
			"jobStatus":        doc.JobStatus,
			"generatedContent": doc.GeneratedContent,
			"jobErrors":        doc.JobErrors,
		}, "", "  ")
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	processCmd.Flags().StringVar(&processPlan, "plan", "max", "plan tier to run with (free, plus, max)")
	rootCmd.AddCommand(processCmd)
}
