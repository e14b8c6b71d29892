package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"matchfeed-engine/internal/config"
	"matchfeed-engine/internal/domain"
	"matchfeed-engine/internal/events"
	"matchfeed-engine/internal/feed"
	"matchfeed-engine/internal/httpapi"
	"matchfeed-engine/internal/logger"
	"matchfeed-engine/internal/scheduler"
	"matchfeed-engine/internal/secrets"
	"matchfeed-engine/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local feed API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	log, err := logger.New(jsonLogs, debug)
	if err != nil {
		return err
	}
	defer log.Sync()

	dir := dataDir
	if dir == "" {
		dir = os.Getenv("MATCHFEED_DATA_DIR")
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	cfgPath, err := config.EnsureUserConfig(dir)
	if err != nil {
		return fmt.Errorf("config bootstrap: %w", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config load (%s): %w", cfgPath, err)
	}
	cfg, res := config.NormalizeAndValidate(cfg)
	for _, warn := range res.Warnings {
		log.Warn("config warning", zap.String("warning", warn))
	}
	if !res.OK() {
		for _, e := range res.Errors {
			log.Error("config error", zap.String("error", e))
		}
		return fmt.Errorf("invalid config at %s", cfgPath)
	}

	db, err := store.Open(dir)
	if err != nil {
		return err
	}
	defer db.Close()

	st := store.New(db, cfg.Subject.ID,
		time.Duration(cfg.Store.QueueTTLHours)*time.Hour,
		cfg.Store.MaxExclusions,
		log,
	)

	sess, err := feed.NewSession(cfg, subjectFromConfig(cfg), secrets.JobSearchAPIKey(), log)
	if err != nil {
		return err
	}

	sched := scheduler.New(log)
	if err := sched.Add(ctx, cfg.Maintenance.SweepSpec, "cache-sweep", func(ctx context.Context) error {
		removed := sess.Sweep()
		pruned, err := st.Prune(ctx)
		log.Debug("sweep done", zap.Int("cache_entries", removed), zap.Int64("db_rows", pruned))
		return err
	}); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	hub := events.NewHub()
	mux := httpapi.NewMux(httpapi.Deps{
		Session: sess,
		Store:   st,
		Hub:     hub,
		Logger:  log,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Info("engine listening",
		zap.String("addr", "http://"+addr),
		zap.String("data_dir", dir),
		zap.String("subject", cfg.Subject.ID),
	)

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func subjectFromConfig(cfg config.Config) domain.Subject {
	skills := make([]domain.Skill, 0, len(cfg.Subject.Skills))
	for _, s := range cfg.Subject.Skills {
		skills = append(skills, domain.Skill{
			Name:     s.Name,
			Category: s.Category,
			Level:    domain.ParseSkillLevel(s.Level),
			Verified: s.Verified,
		})
	}
	return domain.Subject{
		ID:   cfg.Subject.ID,
		Role: domain.Role(cfg.Subject.Role),
		Location: domain.Location{
			Lat:  cfg.Subject.Lat,
			Lon:  cfg.Subject.Lon,
			Name: cfg.Subject.Location,
		},
		Skills:             skills,
		DesiredCommitments: cfg.Subject.Commitments,
		ExperienceYears:    cfg.Subject.Experience,
		Industries:         cfg.Subject.Industries,
	}
}
