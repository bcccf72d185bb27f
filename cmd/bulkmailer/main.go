// Package main is the entry point for the bulk campaign mailer.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shemeka/bulkmailer/internal/campaign"
	"github.com/shemeka/bulkmailer/internal/config"
	"github.com/shemeka/bulkmailer/internal/email"
	"github.com/shemeka/bulkmailer/internal/provider"
	"github.com/shemeka/bulkmailer/internal/provider/ses"
	"github.com/shemeka/bulkmailer/internal/provider/smtp"
	"github.com/shemeka/bulkmailer/internal/provider/stdout"
	"github.com/shemeka/bulkmailer/internal/roster"
	"github.com/shemeka/bulkmailer/internal/template"
	clienttls "github.com/shemeka/bulkmailer/internal/tls"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file (optional)")
	templatePath := flag.String("template", "", "path to the HTML campaign template (required)")
	rosterPath := flag.String("recipients", "", "path to an xlsx recipient roster")
	toList := flag.String("to", "", "comma-separated recipient addresses (alternative to -recipients)")
	subject := flag.String("subject", "", "email subject line")
	attachPath := flag.String("attach", "", "path to an optional attachment file")
	maxSends := flag.Int("max", 0, "cap on submission attempts for this run (0 = no cap)")
	campaignID := flag.Int("campaign", 1, "campaign ID stamped into recipient UIDs")
	mailType := flag.String("type", "intro", "mail type: intro, followup, or reply")
	mode := flag.String("mode", "camp", "campaign mode: camp, lead, client, or adhoc")
	dryRun := flag.Bool("dry-run", false, "print messages instead of delivering them")
	flag.Parse()

	// Load configuration
	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	setupLogger(cfg.Logging.Level)

	if *dryRun {
		cfg.Provider = "stdout"
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if *templatePath == "" {
		slog.Error("-template is required")
		os.Exit(1)
	}
	renderer, err := template.Load(*templatePath)
	if err != nil {
		slog.Error("failed to load template", "path", *templatePath, "error", err)
		os.Exit(1)
	}

	// The attachment is read once up front so a bad path aborts before
	// any network activity.
	var attachments []email.Attachment
	if *attachPath != "" {
		att, err := email.LoadAttachment(*attachPath)
		if err != nil {
			slog.Error("failed to load attachment", "path", *attachPath, "error", err)
			os.Exit(1)
		}
		attachments = append(attachments, att)
	}

	recipients, err := loadRoster(*rosterPath, *toList, *campaignID, *mailType, *mode)
	if err != nil {
		slog.Error("failed to load recipients", "error", err)
		os.Exit(1)
	}

	// Select delivery provider
	prov := selectProvider(cfg)

	slog.Info("starting campaign",
		"provider", prov.Name(),
		"recipients", len(recipients),
		"subject", *subject,
		"cap", *maxSends,
		"attachments", len(attachments),
	)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		sig := <-sigCh
		slog.Info("received signal, stopping after current send", "signal", sig)
		cancel()
	}()

	runner := campaign.NewRunner(prov, renderer, cfg.Sender.Address, cfg.Sender.Name, campaign.Options{
		Subject:     *subject,
		Attachments: attachments,
		MaxSends:    *maxSends,
		BatchSize:   cfg.Delivery.BatchSize,
		BatchDelay:  cfg.Delivery.BatchDelay,
	})

	report, runErr := runner.Run(ctx, recipients)

	slog.Info("campaign summary",
		"recipients", report.Total,
		"attempts", report.Attempts,
		"sent", report.Sent,
		"failed", report.Failed,
		"elapsed", report.Elapsed,
	)

	if runErr != nil {
		slog.Error("campaign aborted", "error", runErr)
		os.Exit(1)
	}
}

// loadConfig loads configuration from the specified path (YAML + env
// override) or from environment variables only if no path is given.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// setupLogger configures the global slog logger with JSON output and the
// specified log level.
func setupLogger(level string) {
	var logLevel slog.Level

	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// loadRoster builds the recipient list from the xlsx roster or the literal
// address list, whichever was given.
func loadRoster(rosterPath, toList string, campaignID int, mailType, mode string) ([]roster.Recipient, error) {
	parsedType, err := roster.ParseMailType(mailType)
	if err != nil {
		return nil, err
	}
	parsedMode, err := roster.ParseMode(mode)
	if err != nil {
		return nil, err
	}
	c := roster.Campaign{ID: campaignID, MailType: parsedType, Mode: parsedMode}

	switch {
	case rosterPath != "":
		result, err := roster.LoadExcel(rosterPath, c)
		if err != nil {
			return nil, err
		}
		return result.Recipients, nil
	case toList != "":
		return roster.FromList(toList, c)
	default:
		return nil, errors.New("either -recipients or -to must be given")
	}
}

// selectProvider chooses the delivery backend based on configuration.
func selectProvider(cfg *config.Config) provider.Provider {
	switch cfg.Provider {
	case "smtp":
		tlsConfig, err := clienttls.ClientConfig(cfg.SMTP.Host, cfg.SMTP.CAFile, cfg.SMTP.Insecure)
		if err != nil {
			slog.Error("failed to build TLS config", "error", err)
			os.Exit(1)
		}
		slog.Info("using SMTP relay provider",
			"host", cfg.SMTP.Host,
			"port", cfg.SMTP.Port,
			"sender", cfg.Sender.Address,
		)
		return smtp.New(smtp.Config{
			Host:      cfg.SMTP.Host,
			Port:      cfg.SMTP.Port,
			Username:  cfg.Sender.Address,
			Password:  cfg.SMTP.AppPassword,
			StartTLS:  true,
			TLSConfig: tlsConfig,
		})

	case "ses":
		slog.Info("using AWS SES provider",
			"region", cfg.SES.Region,
			"sender", cfg.Sender.Address,
		)
		p, err := ses.New(context.Background(), ses.Config{
			Region:          cfg.SES.Region,
			AccessKeyID:     cfg.SES.AccessKeyID,
			SecretAccessKey: cfg.SES.SecretAccessKey,
		})
		if err != nil {
			slog.Error("failed to create SES provider", "error", err)
			os.Exit(1)
		}
		return p

	case "stdout":
		slog.Info("using stdout provider (dry run)")
		return stdout.New()

	default:
		slog.Error("unknown provider", "provider", cfg.Provider)
		os.Exit(1)
		return nil
	}
}
