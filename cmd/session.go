package cmd

import (
	"errors"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cristivlas/shmy-sub000/commands"
	"github.com/cristivlas/shmy-sub000/core/command"
	"github.com/cristivlas/shmy-sub000/core/config"
	"github.com/cristivlas/shmy-sub000/core/hooks"
	"github.com/cristivlas/shmy-sub000/core/job"
	"github.com/cristivlas/shmy-sub000/core/logger"
	"github.com/cristivlas/shmy-sub000/core/repl"
	"github.com/cristivlas/shmy-sub000/core/scope"
	"github.com/cristivlas/shmy-sub000/core/shell"
)

// session is a configured interpreter attached to the command's streams.
type session struct {
	interp    *shell.Interp
	config    *config.Configuration
	useColor  bool
	interrupt *job.Signal

	closers []func()
}

func newSession(cmd *cobra.Command, configuration *config.Configuration) (*session, error) {
	s := &session{
		config:    configuration,
		useColor:  applyColorMode(configuration.Color),
		interrupt: job.NewSignal(),
	}

	sc := scope.NewFromEnv(os.Environ())
	fs := afero.NewOsFs()
	reg := command.NewRegistry(fs, func() string { return sc.Getenv("PATH") })
	commands.Install(reg)
	commands.InstallAliases(reg, configuration.Aliases)

	eventLog := logger.NewNopLogger()
	if fd, err := configuration.OpenAppLog(); err != nil {
		log.Printf("event log disabled: %v", err)
	} else {
		eventLog = logger.NewJsonLinesLogRecorder(fd)
		s.closers = append(s.closers, func() { fd.Close() })
	}

	hks := hooks.New(configuration)
	s.interp = shell.New(
		shell.WithScope(sc),
		shell.WithRegistry(reg),
		shell.WithFS(fs),
		shell.WithIO(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()),
		shell.WithHooks(hks),
		shell.WithLogger(eventLog.NewSession()),
		shell.WithInterrupt(s.interrupt),
		shell.WithLaunchers(configuration.Launchers),
	)
	hks.Bind(s.interp.Env())

	s.closers = append(s.closers, job.ListenInterrupts(s.interrupt))
	return s, nil
}

// applyColorMode sets the terminal color mode and reports whether colors
// are on.
func applyColorMode(mode string) bool {
	switch mode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}
	return !color.NoColor
}

// Run evaluates text, or the script in args, and then reads commands
// interactively if nothing was given or keep is set. It returns the exit
// code.
func (s *session) Run(text string, keep bool, args []string) (int, error) {
	switch {
	case text != "":
		if code, done := s.report(text, s.eval(text)); done || !keep {
			return code, nil
		}

	case len(args) > 0:
		src, _ := afero.ReadFile(s.interp.Env().FS, args[0])
		_, err := s.interp.EvalFile(args[0], args[1:])
		code, _ := s.report(string(src), err)
		return code, nil
	}

	return s.interactive()
}

func (s *session) eval(text string) error {
	_, err := s.interp.Eval(text)
	return err
}

// report shows err and converts it to an exit code. done is set when the
// shell was asked to exit.
func (s *session) report(input string, err error) (code int, done bool) {
	if err == nil {
		return 0, false
	}
	var exit *command.ExitRequest
	if errors.As(err, &exit) {
		return exit.Code, true
	}
	repl.ShowError(s.interp.Env().Stderr, input, err, s.useColor)
	return 1, false
}

func (s *session) interactive() (int, error) {
	r, rl, err := repl.New(s.interp, repl.Options{
		Prompt:      s.config.Prompt,
		HistoryPath: s.config.HistoryPath(),
		HistorySize: s.config.HistorySize,
		Color:       s.useColor,
	})
	if err != nil {
		return 0, err
	}
	defer rl.Close()

	return r.Run()
}

// Close releases the event log and stops listening for interrupts.
func (s *session) Close() error {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	return nil
}

var _ io.Closer = (*session)(nil)
