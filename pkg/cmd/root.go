package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tidescript/js-imports-group/pkg/cache"
	"github.com/tidescript/js-imports-group/pkg/config"
	"github.com/tidescript/js-imports-group/pkg/engine"
	jigerrors "github.com/tidescript/js-imports-group/pkg/errors"
	"github.com/tidescript/js-imports-group/pkg/utils"
	"github.com/tidescript/js-imports-group/pkg/version"
)

const (
	UseDescription   = "jig [flags] PATH..."
	ShortDescription = "JS imports grouper - A tool to group and sort ECMAScript imports"
	LongDescription  = `jig is a command-line tool that groups and sorts JavaScript and
TypeScript import statements.

It organizes imports into groups:
1. Runtime modules (node:, bun:, deno:, ...)
2. Registry modules (npm:, jsr:, ...) and other URL schemes
3. Bare package specifiers
4. Aliased paths ($alias/, @/, ~/, ~scope/)
5. Relative paths (parent directories before the current directory)

Within a group, statements are ordered side-effect imports first, then
namespace, default and named imports, with identifiers in natural order.

PATH can be files or directories. Directories are walked recursively for
source files matching the configured extensions. Without --write the
regrouped content is printed to stdout.`
)

var (
	write         bool
	check         bool
	listDifferent bool
	outputFormat  string
	watchMode     bool
	jobs          int
	configFile    string
	noCache       bool
	cacheDir      string
	quiet         bool
	showVersion   bool
	versionStr    string
)

var rootCmd = &cobra.Command{
	Use:          UseDescription,
	Short:        ShortDescription,
	Long:         LongDescription,
	Args:         validateArgs,
	RunE:         run,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&write, "write", "w", false, "Rewrite files in place instead of printing to stdout")
	rootCmd.PersistentFlags().BoolVarP(&check, "check", "c", false, "Exit non-zero if any file has ungrouped imports, without rewriting")
	rootCmd.PersistentFlags().BoolVarP(&listDifferent, "list-different", "l", false, "Print the paths of files with ungrouped imports")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "text", "Output format: text or json")
	rootCmd.PersistentFlags().BoolVar(&watchMode, "watch", false, "Keep running and regroup files as they change (implies --write)")
	rootCmd.PersistentFlags().IntVar(&jobs, "jobs", 0, "Number of files to process concurrently (0 = number of CPUs)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to the config file (default: jig.yml in the project root)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Rescan files even when unchanged since the last run")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "Directory for the clean-file cache")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress per-file output")
	rootCmd.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version information")
}

func validateArgs(cmd *cobra.Command, args []string) error {
	// If version flag is set, we don't need file arguments
	if showVersion {
		return nil
	}
	return cobra.MinimumNArgs(1)(cmd, args)
}

func run(cmd *cobra.Command, args []string) error {
	// Handle version flag
	if showVersion {
		info := version.Get()
		if info.Version == "dev" && versionStr != "" {
			info.Version = versionStr
		}
		fmt.Println(info.String())
		return nil
	}

	if outputFormat != "text" && outputFormat != "json" {
		return fmt.Errorf("unknown format %q (want text or json)", outputFormat)
	}
	if watchMode && outputFormat == "json" {
		return fmt.Errorf("watch mode supports text output only")
	}

	cfg, err := config.Load(configFile, startDirFor(args))
	if err != nil {
		return fmt.Errorf("%s: %w", jigerrors.ErrMsgFailedToLoadConfig, err)
	}
	if jobs > 0 {
		cfg.Jobs = jobs
	}

	opts := engine.Options{
		Mode:       resolveMode(),
		Extensions: cfg.Extensions,
		Exclude:    cfg.Exclude,
		Jobs:       cfg.Jobs,
	}

	if cfg.Cache.Enabled && !noCache {
		dir := cacheDir
		if dir == "" {
			dir = cfg.Cache.Dir
		}
		c, err := cache.Open(dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, jigerrors.WarnMsgCacheDisabled+"\n", err)
		} else {
			opts.Cache = c
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := engine.Process(ctx, args, opts)
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		if err := renderJSON(res); err != nil {
			return err
		}
	} else {
		if len(res.Files) == 0 && !quiet && !watchMode {
			fmt.Printf(jigerrors.InfoMsgNoFilesFound+"\n", strings.Join(args, ", "))
		}
		renderText(res, opts.Mode)
	}

	if watchMode {
		if !quiet {
			fmt.Fprintln(os.Stderr, jigerrors.InfoMsgWatching)
		}
		return engine.Watch(ctx, args, opts, func(fr engine.FileResult) {
			printFileResult(fr, opts.Mode)
		})
	}

	if res.Errors > 0 {
		return fmt.Errorf(jigerrors.ErrMsgFilesFailedToGroup, res.Errors)
	}
	if (check || listDifferent) && res.Changed > 0 {
		return fmt.Errorf(jigerrors.ErrMsgFilesNeedRegrouping, res.Changed)
	}
	return nil
}

// resolveMode maps the flag combination to an engine mode. An explicit
// --check wins over --watch so the watcher can serve as a live linter.
func resolveMode() engine.Mode {
	switch {
	case write:
		return engine.ModeWrite
	case check || listDifferent:
		return engine.ModeCheck
	case watchMode:
		return engine.ModeWrite
	default:
		return engine.ModePrint
	}
}

// startDirFor picks where the config search begins: the first path argument,
// or its directory when it names a file.
func startDirFor(args []string) string {
	if len(args) == 0 {
		return "."
	}
	p := args[0]
	if ok, err := utils.IsDirectory(p); err == nil && ok {
		return p
	}
	return filepath.Dir(p)
}

func renderText(res *engine.Result, mode engine.Mode) {
	for i := range res.Files {
		printFileResult(res.Files[i], mode)
	}

	if quiet || listDifferent || mode == engine.ModePrint {
		return
	}
	summary := fmt.Sprintf(jigerrors.InfoMsgCheckedCount, len(res.Files))
	if res.Changed > 0 {
		summary += fmt.Sprintf(jigerrors.InfoMsgChangedCount, res.Changed)
	}
	if res.Errors > 0 {
		summary += fmt.Sprintf(jigerrors.InfoMsgErrorCount, res.Errors)
	}
	fmt.Println(summary)
}

func printFileResult(fr engine.FileResult, mode engine.Mode) {
	if fr.Err != nil {
		red := color.New(color.FgRed).SprintFunc()
		fmt.Fprintln(os.Stderr, red(fmt.Sprintf(jigerrors.InfoMsgErrorProcessing, fr.Path, fr.Err)))
		return
	}

	if mode == engine.ModePrint {
		os.Stdout.Write(fr.Output)
		return
	}
	if !fr.Changed {
		return
	}

	if listDifferent {
		fmt.Println(fr.Path)
		return
	}
	if quiet {
		return
	}
	switch mode {
	case engine.ModeWrite:
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Println(green(fmt.Sprintf(jigerrors.InfoMsgRewrote, fr.Path)))
	case engine.ModeCheck:
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Println(yellow(fmt.Sprintf(jigerrors.InfoMsgWouldRewrite, fr.Path)))
	}
}

type jsonFile struct {
	Path    string `json:"path"`
	Changed bool   `json:"changed"`
	Blocks  int    `json:"blocks,omitempty"`
	Error   string `json:"error,omitempty"`
}

type jsonReport struct {
	Checked int        `json:"checked"`
	Changed int        `json:"changed"`
	Errors  int        `json:"errors"`
	Files   []jsonFile `json:"files"`
}

func renderJSON(res *engine.Result) error {
	report := jsonReport{
		Checked: len(res.Files),
		Changed: res.Changed,
		Errors:  res.Errors,
		Files:   make([]jsonFile, 0, len(res.Files)),
	}
	for i := range res.Files {
		f := jsonFile{
			Path:    res.Files[i].Path,
			Changed: res.Files[i].Changed,
			Blocks:  res.Files[i].Blocks,
		}
		if res.Files[i].Err != nil {
			f.Error = res.Files[i].Err.Error()
		}
		report.Files = append(report.Files, f)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func Execute(v string) error {
	versionStr = v
	return rootCmd.Execute()
}
