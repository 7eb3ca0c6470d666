package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/felixgeelhaar/maison/internal/app"
	"github.com/felixgeelhaar/maison/internal/config"
	"github.com/felixgeelhaar/maison/internal/log"
	"github.com/felixgeelhaar/maison/internal/ux"
)

// interactive reports whether forms can be shown on stdin.
var interactive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// env is what every command needs besides the storefront itself.
type env struct {
	cc         *CommandContext
	cfg        *config.Config
	configPath string
	logger     *log.Logger
	format     string
	styles     ux.Styles
	out        ux.Formatter
	w          io.Writer
}

func loadConfig(cc *CommandContext) (*config.Config, string, error) {
	path := cc.ConfigPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return nil, "", err
		}
		path = p
	}
	cfg, err := config.Resolve(path, cc.EnvFile)
	if err != nil {
		return nil, path, err
	}
	if cc.APIURL != "" {
		cfg.API.BaseURL = cc.APIURL
	}
	return cfg, path, nil
}

func newEnv(cmd *cobra.Command) (*env, error) {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to create command context: %w", err)
	}

	cfg, path, err := loadConfig(cc)
	if err != nil {
		return nil, ux.FormatError(err, "load configuration")
	}

	format := cc.Format
	if format == "" {
		format = cfg.Defaults.Format
	}
	noColor := cc.NoColor || cfg.Defaults.NoColor || os.Getenv("NO_COLOR") != ""

	w := cmd.OutOrStdout()
	out, err := ux.NewFormatter(format, &ux.FormatterOptions{Writer: w, NoColor: noColor})
	if err != nil {
		return nil, err
	}

	logCfg := log.DefaultConfig()
	if cc.Verbose {
		logCfg = log.VerboseConfig()
	} else {
		logCfg.Level = log.ParseLevel(cfg.Logging.Level)
	}
	logCfg.Format = log.ParseFormat(cfg.Logging.Format)
	logCfg.Output = cmd.ErrOrStderr()

	return &env{
		cc:         cc,
		cfg:        cfg,
		configPath: path,
		logger:     log.New(logCfg),
		format:     format,
		styles:     ux.NewStyles(noColor),
		out:        out,
		w:          w,
	}, nil
}

// setup resolves the environment and opens the storefront.
func setup(cmd *cobra.Command) (*env, *app.App, error) {
	e, err := newEnv(cmd)
	if err != nil {
		return nil, nil, err
	}
	a, err := app.New(e.cfg, e.logger)
	if err != nil {
		return nil, nil, err
	}
	e.logger.Debug("storefront opened", "api", e.cfg.API.BaseURL, "data_dir", e.cfg.Storage.DataDir)
	return e, a, nil
}

func (e *env) text() bool {
	return e.format == "" || e.format == "text"
}

func (e *env) print(v any) error {
	return e.out.Format(v)
}

// done reports a finished action: a success line as text, data otherwise.
func (e *env) done(message string, data any) error {
	if e.text() {
		_, err := fmt.Fprintln(e.w, e.styles.Success.Render(message))
		return err
	}
	if data == nil {
		data = map[string]string{"message": message}
	}
	return e.out.Format(data)
}

// note prints a hint in text mode only.
func (e *env) note(message string) {
	if e.text() {
		fmt.Fprintln(e.w, e.styles.Muted.Render(message))
	}
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
