// cmd/portal/jobs.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"interview-portal/internal/common/database"
	"interview-portal/internal/common/logger"
	"interview-portal/internal/jobs"
	"interview-portal/internal/models"
)

func JobsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Manage job postings",
	}
	cmd.AddCommand(jobsImportCmd(opts))
	return cmd
}

func jobsImportCmd(opts *rootOptions) *cobra.Command {
	var (
		file       string
		skipDB     bool
		skipSearch bool
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load jobs from a JSON array into PostgreSQL and the search index",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			log, flush := opts.newLogger(cfg)
			defer flush()

			in, closeIn, err := openInput(cmd, file)
			if err != nil {
				return err
			}
			defer closeIn()

			list, err := decodeJobs(in)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			var sinks []jobSink
			if !skipDB {
				pg, err := database.NewPostgres(cfg.Database.Postgres)
				if err != nil {
					return err
				}
				defer pg.Close()
				if err := pg.Ping(ctx); err != nil {
					return fmt.Errorf("postgres: %w", err)
				}
				sinks = append(sinks, jobSink{name: "postgres", put: jobs.NewRepository(pg.DB).Upsert})
			}
			if !skipSearch && len(cfg.Database.Elasticsearch.GetAddresses()) > 0 {
				es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
				if err != nil {
					return err
				}
				if err := es.Ping(ctx); err != nil {
					return fmt.Errorf("elasticsearch: %w", err)
				}
				search := jobs.NewSearch(es.Client, cfg.Jobs.SearchIndex)
				if err := search.EnsureIndex(ctx); err != nil {
					return fmt.Errorf("elasticsearch: %w", err)
				}
				sinks = append(sinks, jobSink{name: "elasticsearch", put: search.Index})
			}
			if len(sinks) == 0 {
				return fmt.Errorf("nothing to import into: enable postgres or configure elasticsearch")
			}

			n, err := importJobs(ctx, list, sinks, log)
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d jobs\n", n, len(list))
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "JSON file with an array of jobs, - for stdin")
	cmd.Flags().BoolVar(&skipDB, "skip-db", false, "Do not write to PostgreSQL")
	cmd.Flags().BoolVar(&skipSearch, "skip-search", false, "Do not index into Elasticsearch")
	return cmd
}

type jobSink struct {
	name string
	put  func(context.Context, models.Job) error
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func decodeJobs(r io.Reader) ([]models.Job, error) {
	var list []models.Job
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}
	return list, nil
}

// importJobs writes each valid job to every sink and stops on the first
// sink failure. Jobs without an id or title are skipped.
func importJobs(ctx context.Context, list []models.Job, sinks []jobSink, log logger.Logger) (int, error) {
	imported := 0
	for _, job := range list {
		if strings.TrimSpace(job.ID) == "" || strings.TrimSpace(job.Title) == "" {
			log.Warn("Skipping job without id or title", map[string]interface{}{"job_id": job.ID})
			continue
		}
		if job.PostedAt.IsZero() {
			job.PostedAt = time.Now().UTC()
		}
		if job.Skills == nil {
			job.Skills = []string{}
		}
		for _, s := range sinks {
			if err := s.put(ctx, job); err != nil {
				return imported, fmt.Errorf("%s: job %s: %w", s.name, job.ID, err)
			}
		}
		imported++
	}
	log.Info("Jobs imported", map[string]interface{}{"count": imported, "sinks": len(sinks)})
	return imported, nil
}
