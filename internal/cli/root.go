// Package cli implements the otamanga admin command line.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xenking/otamanga-storefront/internal/apiclient"
	"github.com/xenking/otamanga-storefront/internal/session"
	"github.com/xenking/otamanga-storefront/internal/storefront"
)

// Config is the CLI configuration, loadable from environment variables
// (OTAMANGA_ prefix) or YAML config files. Flags override it.
type Config struct {
	BackendURL  string `usage:"Backend API base URL"`
	SessionFile string `usage:"File holding the logged-in session"`
	Debug       bool   `default:"false" usage:"Log requests and failures to stderr"`
}

// LoadConfig reads Config without parsing command line flags.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags: true,
		EnvPrefix: "OTAMANGA",
		Files:     []string{"config.yaml", "/etc/otamanga/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	return &cfg, nil
}

// runtime is the state shared by all commands of one invocation.
type runtime struct {
	cfg    Config
	lg     *zap.Logger
	store  *session.Store
	client *apiclient.Client
	// extra client options, set by tests.
	extra []apiclient.Option
}

func (r *runtime) account() *storefront.Account {
	return storefront.NewAccount(r.client.Auth, r.store, r.lg)
}

func (r *runtime) admin() *storefront.AdminPanel {
	return storefront.NewAdminPanel(r.client.Mangas, r.client.Authors, r.client.Categories, r.lg)
}

// setup builds the logger, the session store and a client authenticated
// with the stored session token, if any.
func (r *runtime) setup(errOut io.Writer) error {
	r.lg = zap.NewNop()
	if r.cfg.Debug {
		r.lg = zap.New(zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(errOut),
			zapcore.DebugLevel,
		))
	}

	path := r.cfg.SessionFile
	if path == "" {
		p, err := session.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	r.store = session.NewStore(path)

	opts := []apiclient.Option{apiclient.WithLogger(r.lg.Named("apiclient"))}
	if r.cfg.BackendURL != "" {
		opts = append(opts, apiclient.WithBaseURL(r.cfg.BackendURL))
	}
	payload, err := r.store.Get(session.UserKey)
	switch {
	case err == nil:
		if s, err := apiclient.ParseSession(payload); err == nil && s.Token != "" {
			opts = append(opts, apiclient.WithToken(s.Token))
		}
	case !errors.Is(err, session.ErrNotFound):
		r.lg.Warn("Ignoring unreadable session", zap.Error(err))
	}
	opts = append(opts, r.extra...)

	client, err := apiclient.New(opts...)
	if err != nil {
		return err
	}
	r.client = client
	return nil
}

// NewCommand returns the root command. cfg supplies defaults that the
// persistent flags override.
func NewCommand(cfg Config, extra ...apiclient.Option) *cobra.Command {
	rt := &runtime{cfg: cfg, extra: extra}

	root := &cobra.Command{
		Use:           "otamanga",
		Short:         "Administer the otamanga manga store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.setup(cmd.ErrOrStderr())
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&rt.cfg.BackendURL, "backend-url", cfg.BackendURL, "backend API base URL")
	flags.StringVar(&rt.cfg.SessionFile, "session-file", cfg.SessionFile, "file holding the logged-in session")
	flags.BoolVar(&rt.cfg.Debug, "debug", cfg.Debug, "log requests and failures to stderr")

	root.AddCommand(
		loginCommand(rt),
		registerCommand(rt),
		logoutCommand(rt),
		whoamiCommand(rt),
		mangasCommand(rt),
		authorsCommand(rt),
		categoriesCommand(rt),
		ordersCommand(rt),
		metricsCommand(rt),
		recommendationsCommand(rt),
		dashboardCommand(rt),
	)
	return root
}

// Main runs the CLI with os.Args and returns the process exit code.
func Main() int {
	cfg, err := LoadConfig()
	if err != nil {
		_, _ = io.WriteString(os.Stderr, "error: "+err.Error()+"\n")
		return 1
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewCommand(*cfg)
	if err := cmd.ExecuteContext(ctx); err != nil {
		_, _ = io.WriteString(cmd.ErrOrStderr(), "error: "+err.Error()+"\n")
		return 1
	}
	return 0
}
