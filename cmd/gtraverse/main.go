package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/quantmind-br/gtraverse-go/internal/config"
	"github.com/quantmind-br/gtraverse-go/internal/contents"
	"github.com/quantmind-br/gtraverse-go/internal/utils"
	"github.com/quantmind-br/gtraverse-go/pkg/traverse"
	"github.com/quantmind-br/gtraverse-go/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	formatText  = "text"
	formatPaths = "paths"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var (
	cfgFile string
	verbose bool
	log     *utils.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gtraverse [repository]",
	Short: "Read the files of a GitHub repository",
	Long: `gtraverse walks a GitHub repository through the contents API and prints
the files it finds, optionally filtered by suffix.

The repository may be given as owner/repo, owner/repo/sub/dir, a GitHub
web URL (including /tree/<ref>/<path> views) or an SSH remote.`,
	Version:      version.Short(),
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.gtraverse/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("token", "", "GitHub access token (default $GITHUB_TOKEN)")

	// Traversal flags
	rootCmd.Flags().String("path", "", "Start directory inside the repository")
	rootCmd.Flags().StringSliceP("suffix", "s", nil, "Only keep files ending with this suffix (repeatable)")
	rootCmd.Flags().Bool("single", false, "List the start directory only")
	rootCmd.Flags().IntP("max-depth", "d", config.DefaultMaxDepth, "Levels to descend below the start directory (-1=unlimited)")
	rootCmd.Flags().Int("depth-limit", config.DefaultDepthLimit, "Hard recursion ceiling")

	// API and HTTP flags
	rootCmd.Flags().String("api-url", config.DefaultBaseURL, "Contents API base URL")
	rootCmd.Flags().String("backend", config.DefaultAPIBackend, "Listing client (rest, github)")
	rootCmd.Flags().Duration("timeout", config.DefaultTimeout, "Request timeout")
	rootCmd.Flags().Int("retries", config.DefaultMaxRetries, "Retries for throttled requests")
	rootCmd.Flags().String("user-agent", "", "Custom User-Agent")

	// Cache flags
	rootCmd.Flags().String("cache", config.DefaultCacheBackend, "Cache backend (memory, badger, redis)")
	rootCmd.Flags().Duration("cache-ttl", config.DefaultCacheTTL, "Cache TTL")
	rootCmd.Flags().String("cache-dir", "", "Badger cache directory")
	rootCmd.Flags().String("redis-addr", config.DefaultRedisAddr, "Redis address")

	// Output flags
	rootCmd.Flags().StringP("format", "f", formatText, "Output format (text, paths, json, yaml)")
	rootCmd.Flags().Bool("no-progress", false, "Disable the progress spinner")

	// Bind flags to viper
	_ = viper.BindPFlag("auth.token", rootCmd.PersistentFlags().Lookup("token"))
	_ = viper.BindPFlag("traversal.max_depth", rootCmd.Flags().Lookup("max-depth"))
	_ = viper.BindPFlag("traversal.depth_limit", rootCmd.Flags().Lookup("depth-limit"))
	_ = viper.BindPFlag("api.base_url", rootCmd.Flags().Lookup("api-url"))
	_ = viper.BindPFlag("api.backend", rootCmd.Flags().Lookup("backend"))
	_ = viper.BindPFlag("http.timeout", rootCmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("http.max_retries", rootCmd.Flags().Lookup("retries"))
	_ = viper.BindPFlag("http.user_agent", rootCmd.Flags().Lookup("user-agent"))
	_ = viper.BindPFlag("cache.backend", rootCmd.Flags().Lookup("cache"))
	_ = viper.BindPFlag("cache.ttl", rootCmd.Flags().Lookup("cache-ttl"))
	_ = viper.BindPFlag("cache.directory", rootCmd.Flags().Lookup("cache-dir"))
	_ = viper.BindPFlag("cache.redis_addr", rootCmd.Flags().Lookup("redis-addr"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

func run(cmd *cobra.Command, args []string) error {
	// Check if a repository was provided
	if len(args) == 0 {
		return cmd.Help()
	}

	// Load configuration
	cfg, err := config.LoadWithViper(viper.GetViper(), cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if single, _ := cmd.Flags().GetBool("single"); single {
		cfg.Traversal.Mode = config.ModeSingle
	}

	// Initialize logger
	log = utils.NewLogger(utils.LoggerOptions{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Verbose: verbose,
		NoColor: os.Getenv("NO_COLOR") != "",
	})

	format, _ := cmd.Flags().GetString("format")
	format = strings.ToLower(format)
	if !validFormat(format) {
		return fmt.Errorf("unknown output format %q", format)
	}

	path, _ := cmd.Flags().GetString("path")
	suffixes, _ := cmd.Flags().GetStringSlice("suffix")
	entry, err := buildEntry(args[0], path, suffixes)
	if err != nil {
		return err
	}

	builder, err := traverse.FromConfig(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to configure session: %w", err)
	}

	noProgress, _ := cmd.Flags().GetBool("no-progress")
	if !noProgress && !verbose {
		bar := utils.NewProgressBar(-1, utils.DescFetching, cmd.ErrOrStderr())
		builder.OnFile(func(string, int) { _ = bar.Add(1) })
		defer func() {
			_ = bar.Finish()
			fmt.Fprintln(cmd.ErrOrStderr())
		}()
	}

	session, err := builder.Build()
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	abandoned := false
	defer func() {
		if abandoned {
			_ = session.Abandon()
			return
		}
		_ = session.Close()
	}()

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Debug().
		Str("repository", entry.Repository()).
		Str("path", entry.Path()).
		Strs("suffixes", entry.Suffixes()).
		Msg("Starting traversal")

	start := time.Now()
	var readErr error
	result, err := session.ReadWithFailure(ctx, entry, func(err error) {
		readErr = err
	}).Await(ctx)
	if err != nil {
		if ctx.Err() != nil {
			abandoned = true
			log.Info().Msg("Interrupted, abandoning traversal")
		}
		return err
	}
	if readErr != nil {
		return fmt.Errorf("failed to read %s: %w", entry.Repository(), readErr)
	}

	log.Debug().
		Int("files", result.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("Traversal finished")

	return writeResult(cmd.OutOrStdout(), result, format)
}

// buildEntry resolves the repository argument. An explicit path replaces
// the one embedded in the argument.
func buildEntry(raw, path string, suffixes []string) (traverse.Entry, error) {
	ref, err := contents.ParseRepository(raw)
	if err != nil {
		return traverse.Entry{}, err
	}
	if path != "" {
		ref.Path = contents.NormalizePath(path)
	}
	return traverse.NewEntryBuilder().
		Owner(ref.Owner).
		Repo(ref.Repo).
		Path(ref.Path).
		Suffixes(suffixes...).
		Build()
}

func validFormat(format string) bool {
	switch format {
	case formatText, formatPaths, formatJSON, formatYAML:
		return true
	}
	return false
}

// writeResult renders result in the requested format
func writeResult(w io.Writer, result *traverse.Result, format string) error {
	switch format {
	case formatPaths:
		for _, p := range result.Keys() {
			if _, err := fmt.Fprintln(w, p); err != nil {
				return err
			}
		}
		return nil
	case formatJSON:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	default:
		for p, content := range result.All() {
			if _, err := fmt.Fprintf(w, "==> %s <==\n%s\n", p, strings.TrimRight(content, "\n")); err != nil {
				return err
			}
		}
		return nil
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Full())
	},
}
