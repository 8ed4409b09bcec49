package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/liuxd6825/srcmapaudit/cmd/state"
	"github.com/liuxd6825/srcmapaudit/errext"
	"github.com/liuxd6825/srcmapaudit/errext/exitcodes"
	"github.com/liuxd6825/srcmapaudit/internal/audit"
	"github.com/liuxd6825/srcmapaudit/internal/audit/i18n"
	"github.com/liuxd6825/srcmapaudit/internal/report"
	"github.com/liuxd6825/srcmapaudit/lib/artifacts"
	"github.com/liuxd6825/srcmapaudit/lib/fsext"
)

// cmdCheck handles the `srcmapaudit check` sub-command
type cmdCheck struct {
	gs *state.GlobalState
}

func (c *cmdCheck) run(cmd *cobra.Command, args []string) error {
	cliConf, err := getConfig(cmd.Flags())
	if err != nil {
		return errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}
	conf, err := getConsolidatedConfig(c.gs, cliConf)
	if err != nil {
		return err
	}

	arts, err := c.loadArtifacts(args[0], conf.ArtifactPath.String)
	if err != nil {
		return errext.WithExitCodeIfNone(
			errext.WithHint(err, "the input must be a list of source map entries or an artifacts object holding one"),
			exitcodes.InvalidArtifact,
		)
	}

	audits, err := newAuditRegistry().Select(conf.Audits)
	if err != nil {
		return errext.WithExitCodeIfNone(
			errext.WithHint(err, fmt.Sprintf("run '%s audits' to list them", c.gs.BinaryName)),
			exitcodes.InvalidConfig,
		)
	}

	tr := i18n.NewTranslator(conf.Locale.String)
	if tr.Locale() != conf.Locale.String {
		c.gs.Logger.WithFields(logrus.Fields{
			"locale":    conf.Locale.String,
			"available": i18n.Locales(),
		}).Warnf("Unknown locale, falling back to %s", tr.Locale())
	}

	c.gs.Logger.WithFields(logrus.Fields{
		"entries": len(arts.SourceMaps),
		"audits":  len(audits),
	}).Debug("Running audits")
	results := audit.Run(c.gs.Logger, audits, arts, tr)
	doc := report.NewDocument(arts.FinalURL, tr.Locale(), results)

	if err := c.writeReport(conf, doc); err != nil {
		return err
	}

	if doc.Summary.OK() || conf.NoFail.Bool {
		return nil
	}
	err = fmt.Errorf("%d audit(s) failed and %d errored", doc.Summary.Failed, doc.Summary.Errored)
	return errext.WithExitCodeIfNone(err, exitcodes.AuditFailed)
}

func (c *cmdCheck) loadArtifacts(arg, path string) (*artifacts.Artifacts, error) {
	if arg == stdioPath {
		data, err := io.ReadAll(c.gs.Stdin)
		if err != nil {
			return nil, fmt.Errorf("couldn't read artifacts from stdin: %w", err)
		}
		c.gs.Logger.Debug("Decoding artifacts from stdin")
		return artifacts.Decode(data, artifacts.FormatJSON, path)
	}

	filename, err := c.absPath(arg)
	if err != nil {
		return nil, err
	}
	c.gs.Logger.WithField("path", filename).Debug("Loading artifacts")
	return artifacts.Load(c.gs.FS, filename, path)
}

func (c *cmdCheck) writeReport(conf Config, doc report.Document) error {
	toFile := conf.Output.String != stdioPath
	opts := report.Options{NoColor: true}
	if !toFile && c.gs.Stdout.IsTTY {
		// URLs are only shortened to fit an actual terminal
		opts = report.Options{NoColor: c.gs.Flags.NoColor, Width: c.gs.Stdout.TermWidth()}
	}
	renderer, err := report.New(conf.Format.String, opts)
	if err != nil {
		return errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}

	if !toFile {
		c.gs.OutMutex.Lock()
		defer c.gs.OutMutex.Unlock()
		return renderer.Render(c.gs.Stdout.Writer, doc)
	}

	buf := &bytes.Buffer{}
	if err := renderer.Render(buf, doc); err != nil {
		return err
	}
	filename, err := c.absPath(conf.Output.String)
	if err != nil {
		return err
	}
	if err := c.gs.FS.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("couldn't create the report directory: %w", err)
	}
	if err := fsext.WriteFile(c.gs.FS, filename, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("couldn't write the report: %w", err)
	}
	c.gs.Logger.WithField("path", filename).Info("Report written")
	return nil
}

func (c *cmdCheck) absPath(path string) (string, error) {
	cwd, err := c.gs.Getwd()
	if err != nil {
		return "", errors.New("couldn't get the working directory")
	}
	return fsext.Abs(cwd, path), nil
}

func getCmdCheck(gs *state.GlobalState) *cobra.Command {
	c := &cmdCheck{gs: gs}

	exampleText := getExampleText(gs, `
  # Audit the source maps collected from a page.
  {{.}} check artifacts.json

  # Pick the entries from a full artifacts dump and write a JSON report.
  {{.}} check --artifact-path SourceMaps -f json -o report.json lighthouse.json

  # Read the entries from stdin and never fail.
  cat source-maps.json | {{.}} check --no-fail -`[1:])

	checkCmd := &cobra.Command{
		Use:   "check [flags] <artifacts>",
		Short: "Audit the source maps of a page",
		Long: `Audit the source maps of a page.

The artifacts file holds one entry per script seen on the page, either with the
parsed source map or with the error raised while loading it. It can be a JSON or
YAML list of entries, or an object from which the entries are picked with
--artifact-path. Use - to read JSON from stdin.`,
		Example: exampleText,
		Args:    exactArgsWithMsg(1, "arg should either be - or a path to an artifacts file"),
		RunE:    c.run,
	}

	checkCmd.Flags().SortFlags = false
	checkCmd.Flags().AddFlagSet(configFlagSet())
	return checkCmd
}
