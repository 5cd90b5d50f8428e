package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/WarpspeedSCP/wscpublish/internal/logging"
	"github.com/WarpspeedSCP/wscpublish/internal/ui/pretty"
	"github.com/WarpspeedSCP/wscpublish/pkg/config"
	"github.com/WarpspeedSCP/wscpublish/pkg/fsutil"
	"github.com/WarpspeedSCP/wscpublish/pkg/parser"
	"github.com/WarpspeedSCP/wscpublish/pkg/render"
)

// ErrCompileFailed is returned when at least one source failed to compile.
var ErrCompileFailed = errors.New("compile failed")

type buildFlags struct {
	outDir         string
	detectLanguage bool
	check          bool
}

func newBuildCommand(opts *rootOptions) *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build [paths...]",
		Short: "Compile Markdown files to HTML",
		Long: `Compile Markdown files to HTML.

Paths may be files or directories; directories are searched recursively
for .md files. Output is written next to each source (or under --out-dir)
with the .html extension, atomically, and only when the content changed.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args, opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.outDir, "out-dir", "o", "", "directory for compiled HTML")
	cmd.Flags().BoolVar(&flags.detectLanguage, "detect-language", false,
		"classify unlabeled fenced code blocks")
	cmd.Flags().BoolVar(&flags.check, "check", false, "parse without writing output")

	return cmd
}

func runBuild(cmd *cobra.Command, args []string, opts *rootOptions, flags *buildFlags) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	applyBuildFlags(cmd, cfg, flags)
	if !opts.debug {
		logging.SetLevel(cfg.LogLevel)
	}

	logger := logging.Default()
	styles := pretty.NewStyles(pretty.IsColorEnabled(cfg.Color, os.Stderr))

	files, err := discoverSources(args)
	if err != nil {
		return err
	}
	logger.Debug("discovered sources", logging.FieldFilesDiscovered, len(files))

	compiled, unchanged, failed := 0, 0, 0
	for _, path := range files {
		wrote, err := buildFile(path, cfg, flags.check)
		switch {
		case err != nil:
			failed++
			source, _ := os.ReadFile(path)
			fmt.Fprint(os.Stderr, styles.FormatCompileError(path, string(source), err))
		case wrote:
			compiled++
		default:
			unchanged++
		}
	}

	logger.Info("build finished",
		logging.FieldFilesCompiled, compiled,
		logging.FieldFilesUnchanged, unchanged,
		logging.FieldFilesFailed, failed,
	)

	if failed > 0 {
		return ErrCompileFailed
	}
	return nil
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	if opts.configPath == "" {
		cfg := config.Default()
		cfg.Color = opts.color
		return cfg, nil
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.color != "auto" {
		cfg.Color = opts.color
	}
	return cfg, nil
}

func applyBuildFlags(cmd *cobra.Command, cfg *config.Config, flags *buildFlags) {
	if cmd.Flags().Changed("out-dir") {
		cfg.OutDir = flags.outDir
	}
	if cmd.Flags().Changed("detect-language") {
		cfg.DetectLanguage = flags.detectLanguage
	}
}

// discoverSources expands the given paths into a list of Markdown files.
// Directories are walked recursively; no paths means the working directory.
func discoverSources(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}

		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".md") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
	}

	return files, nil
}

// buildFile compiles one source. Returns whether output was written.
func buildFile(path string, cfg *config.Config, check bool) (bool, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	nodes, err := parser.Parse(string(source))
	if err != nil {
		return false, err
	}

	if check {
		return false, nil
	}

	var buf bytes.Buffer
	renderer := render.NewHTMLRenderer(render.Options{DetectLanguage: cfg.DetectLanguage})
	if err := render.Render(renderer, nodes, &buf); err != nil {
		return false, err
	}

	outPath, err := outputPath(path, cfg.OutDir)
	if err != nil {
		return false, err
	}

	wrote, err := fsutil.WriteAtomicIfChanged(outPath, buf.Bytes(), 0)
	if err != nil {
		return false, err
	}

	if wrote {
		logging.Default().Debug("compiled",
			logging.FieldPath, path,
			logging.FieldOutput, outPath,
		)
	}
	return wrote, nil
}

// outputPath derives the .html destination for a source file.
func outputPath(source, outDir string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)) + ".html"

	if outDir == "" {
		return filepath.Join(filepath.Dir(source), base), nil
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create out dir: %w", err)
	}
	return filepath.Join(outDir, base), nil
}
