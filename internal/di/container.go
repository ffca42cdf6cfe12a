// Package di wires the application's components together.
package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/elonfeng/aidigest/internal/config"
	"github.com/elonfeng/aidigest/internal/ingest"
	"github.com/elonfeng/aidigest/internal/logging"
	"github.com/elonfeng/aidigest/internal/pipeline"
	"github.com/elonfeng/aidigest/internal/scheduler"
	"github.com/elonfeng/aidigest/internal/store"
	"github.com/elonfeng/aidigest/pkg/alert"
	"github.com/elonfeng/aidigest/pkg/digest"
	"github.com/elonfeng/aidigest/pkg/rank"
	"github.com/elonfeng/aidigest/pkg/server"
	"github.com/elonfeng/aidigest/pkg/source"
)

// BuildContainer creates a container providing every component built from
// cfg. Nothing is constructed until a caller invokes it.
func BuildContainer(cfg *config.Config) (*dig.Container, error) {
	container := dig.New()

	providers := []any{
		func() *config.Config { return cfg },
		func(cfg *config.Config) (*zap.Logger, error) {
			return logging.New(cfg.Logging)
		},
		func(cfg *config.Config) (store.Store, error) {
			return store.Open(cfg.Cache.Backend, cfg.Cache.Path)
		},
		func() source.Fetcher { return source.NewRSS() },
		func(cfg *config.Config) *rank.Scorer {
			return rank.NewScorer(cfg.Scoring.ExtraKeywords)
		},
		func(cfg *config.Config, f source.Fetcher, s *rank.Scorer, logger *zap.Logger) *ingest.Ingester {
			return ingest.New(f, s, cfg.ParseFreshnessWindow(), logger)
		},
		func(cfg *config.Config) *digest.Composer {
			return digest.NewComposer(cfg.Digest.Subject, cfg.Digest.SummaryLength)
		},
		func(cfg *config.Config, logger *zap.Logger) *alert.Manager {
			return buildAlertManager(cfg, logger)
		},
		func(cfg *config.Config, st store.Store, in *ingest.Ingester, c *digest.Composer, m *alert.Manager, logger *zap.Logger) *pipeline.Runner {
			return pipeline.New(st, in, c, m, pipeline.Options{
				Sources:       cfg.Sources,
				SendWhenEmpty: cfg.Digest.SendWhenEmpty,
			}, logger)
		},
		func(cfg *config.Config, r *pipeline.Runner, logger *zap.Logger) *scheduler.Scheduler {
			return scheduler.New(r, cfg.Schedule.ParseInterval(), logger)
		},
		func(cfg *config.Config, r *pipeline.Runner, logger *zap.Logger) *server.Server {
			return server.New(r, cfg.Server.Port, logger)
		},
	}

	for _, p := range providers {
		if err := container.Provide(p); err != nil {
			return nil, err
		}
	}

	return container, nil
}

// buildAlertManager puts the mail transport first, followed by any enabled
// webhook destinations.
func buildAlertManager(cfg *config.Config, logger *zap.Logger) *alert.Manager {
	notifiers := []alert.Notifier{
		alert.NewMail(alert.MailConfig{
			Host:     cfg.Email.SMTPHost,
			Port:     cfg.Email.SMTPPort,
			Security: cfg.Email.Security,
			From:     cfg.Email.Sender,
			To:       cfg.Email.Receiver,
			Password: cfg.Email.AppPassword,
		}),
	}

	if cfg.Alerts.Slack.Enabled && cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewSlack(cfg.Alerts.Slack.WebhookURL))
	}
	if cfg.Alerts.Discord.Enabled && cfg.Alerts.Discord.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewDiscord(cfg.Alerts.Discord.WebhookURL))
	}
	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alert.NewWebhook(cfg.Alerts.Webhook.URL, cfg.Alerts.Webhook.Secret))
	}

	m := alert.NewManager(notifiers)
	logger.Debug("notifiers configured", zap.Strings("names", m.Names()))
	return m
}
