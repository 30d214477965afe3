// file: cmd/root.go
// version: 1.2.0
// guid: 3e9f1b5d-7a24-4c80-96e3-0d5b8f2a6c41

package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sfalken/quickbar/internal/config"
	"github.com/sfalken/quickbar/internal/fuzzy"
	"github.com/sfalken/quickbar/internal/history"
	"github.com/sfalken/quickbar/internal/metrics"
	"github.com/sfalken/quickbar/internal/realtime"
	"github.com/sfalken/quickbar/internal/registry"
	"github.com/sfalken/quickbar/internal/server"
	"github.com/sfalken/quickbar/internal/watcher"
)

var cfgFile string
var registryPath string
var historyPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quickbar",
	Short: "Fuzzy search over a home-automation entity registry",
	Long: `Quickbar serves a sequential fuzzy filter-rank engine over a YAML
entity registry. Type a few characters and it ranks matching lights,
sensors, switches and scripts the way a launcher bar would.

It runs either as a web service (serve) or as a one-shot lookup (search).`,
}

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the quickbar web service",
	Long:  `Start the HTTP API: search, entity listing, SSE events and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.AppConfig.RegistryPath == "" {
			return fmt.Errorf("registry path not specified (use --registry or registry_path in config)")
		}

		reg, err := registry.Load(config.AppConfig.RegistryPath)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		fmt.Printf("Loaded %d entities from %s\n", reg.Count(), reg.Path())

		var hist *history.Store
		if config.AppConfig.HistoryPath != "" {
			hist, err = history.Open(config.AppConfig.HistoryPath)
			if err != nil {
				return fmt.Errorf("failed to open history store: %w", err)
			}
			defer hist.Close()
			fmt.Printf("Search history: %s\n", config.AppConfig.HistoryPath)
		} else {
			fmt.Println("Search history disabled (no history path configured)")
		}

		hub := realtime.NewEventHub()

		if config.AppConfig.WatchRegistry {
			w := watcher.New(reg.Path(), reloadOnChange(reg, hub), watcher.DefaultDebounce)
			if err := w.Start(); err != nil {
				return fmt.Errorf("failed to watch registry file: %w", err)
			}
			defer w.Stop()
			fmt.Println("Watching registry file for changes")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.NewServer(reg, hist, hub)

		cfg := server.ServerConfig{
			Host:         config.AppConfig.Host,
			Port:         config.AppConfig.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		if rt := cmd.Flag("read-timeout").Value.String(); rt != "" {
			if d, err := time.ParseDuration(rt); err == nil {
				cfg.ReadTimeout = d
			}
		}
		if wt := cmd.Flag("write-timeout").Value.String(); wt != "" {
			if d, err := time.ParseDuration(wt); err == nil {
				cfg.WriteTimeout = d
			}
		}
		if it := cmd.Flag("idle-timeout").Value.String(); it != "" {
			if d, err := time.ParseDuration(it); err == nil {
				cfg.IdleTimeout = d
			}
		}

		return srv.Start(ctx, cfg)
	},
}

// reloadOnChange returns the watcher callback that refreshes the registry
// and notifies SSE clients once the file has settled.
func reloadOnChange(reg *registry.Registry, hub *realtime.EventHub) watcher.Callback {
	return func(path string) {
		count, err := reg.Reload()
		if err != nil {
			log.Printf("[WARN] Registry reload after change to %s failed: %v", path, err)
			return
		}
		metrics.IncRegistryReload()
		metrics.SetEntities(count)
		hub.SendRegistryUpdated(count, path)
		log.Printf("[INFO] Registry reloaded: %d entities", count)
	}
}

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a one-shot fuzzy search against the registry",
	Long:  `Load the registry, rank entities against the query and print the results.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.AppConfig.RegistryPath == "" {
			return fmt.Errorf("registry path not specified (use --registry or registry_path in config)")
		}

		query := ""
		if len(args) > 0 {
			query = args[0]
		}

		reg, err := registry.Load(config.AppConfig.RegistryPath)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}

		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			limit = config.AppConfig.DefaultLimit
		}

		var dec fuzzy.Decorator
		if decorate, _ := cmd.Flags().GetBool("decorate"); decorate {
			dec = fuzzy.MakeDecorator(config.AppConfig.Markers.Left, config.AppConfig.Markers.Right)
		}

		results := reg.Search(query, limit, dec)
		if len(results) == 0 {
			fmt.Println("No matches")
			return nil
		}

		for _, r := range results {
			label := r.Entity.Name
			if dec != nil && len(r.Decorated) > 1 {
				// Decorated strings follow ScorableStrings order: the
				// friendly name comes right after the id.
				label = strings.Join(r.Decorated[1], "::")
			}
			fmt.Printf("%5d  %-32s %s\n", r.Score, r.Entity.ID, label)
		}
		return nil
	},
}

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the entity registry file",
	Long:  `Parse the registry file and report entity and domain counts, or the first error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.AppConfig.RegistryPath == "" {
			return fmt.Errorf("registry path not specified (use --registry or registry_path in config)")
		}

		reg, err := registry.Load(config.AppConfig.RegistryPath)
		if err != nil {
			return fmt.Errorf("registry invalid: %w", err)
		}

		fmt.Printf("Registry OK: %s\n", reg.Path())
		fmt.Printf("- Entities: %d\n", reg.Count())
		fmt.Printf("- Domains:  %s\n", strings.Join(reg.Domains(), ", "))
		return nil
	},
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("quickbar %s (%s, %s/%s)\n", server.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.quickbar.yaml)")
	rootCmd.PersistentFlags().StringVar(&registryPath, "registry", "", "path to the entity registry YAML file")
	rootCmd.PersistentFlags().StringVar(&historyPath, "history", "", "path to the search history database (empty disables history)")

	viper.BindPFlag("registry_path", rootCmd.PersistentFlags().Lookup("registry"))
	viper.BindPFlag("history_path", rootCmd.PersistentFlags().Lookup("history"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)

	serveCmd.Flags().String("port", "", "port to run the web service on")
	serveCmd.Flags().String("host", "", "host to bind the web service to")
	serveCmd.Flags().String("read-timeout", "15s", "read timeout (e.g. 15s, 1m)")
	serveCmd.Flags().String("write-timeout", "15s", "write timeout (e.g. 15s, 1m)")
	serveCmd.Flags().String("idle-timeout", "60s", "idle timeout (e.g. 60s, 2m)")
	viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("host", serveCmd.Flags().Lookup("host"))

	searchCmd.Flags().Int("limit", 0, "maximum number of results (0 uses the configured default)")
	searchCmd.Flags().Bool("decorate", false, "wrap matched characters with the configured markers")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".quickbar")
	}

	viper.SetEnvPrefix("QUICKBAR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}

	config.InitConfig()

	// Ensure the history directory exists before pebble opens it.
	if config.AppConfig.HistoryPath != "" {
		if err := os.MkdirAll(filepath.Dir(config.AppConfig.HistoryPath), 0o755); err != nil {
			fmt.Printf("Error creating history directory: %v\n", err)
		}
	}
}
