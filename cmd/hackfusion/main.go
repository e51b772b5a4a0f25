package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/who0xac/hackfusion/pkg/checker"
	"github.com/who0xac/hackfusion/pkg/config"
	"github.com/who0xac/hackfusion/pkg/llm"
	"github.com/who0xac/hackfusion/pkg/menu"
	"github.com/who0xac/hackfusion/pkg/output/terminal"
	"github.com/who0xac/hackfusion/pkg/report"
	"github.com/who0xac/hackfusion/pkg/scanner"
	"github.com/who0xac/hackfusion/pkg/store"
	"github.com/who0xac/hackfusion/pkg/tools"
)

const (
	version = "1.0.0"
	author  = "who0xac"
)

// printBanner prints the colorful banner
func printBanner() {
	cyan := color.New(color.FgCyan, color.Bold)
	magenta := color.New(color.FgMagenta, color.Bold)
	blue := color.New(color.FgBlue, color.Bold)
	brightRed := color.New(color.FgHiRed, color.Bold)
	green := color.New(color.FgGreen)

	cyan.Println(`
 _   _            _    _____          _
| | | | __ _  ___| | _|  ___|   _ ___(_) ___  _ __
| |_| |/ _' |/ __| |/ / |_ | | | / __| |/ _ \| '_ \
|  _  | (_| | (__|   <|  _|| |_| \__ \ | (_) | | | |
|_| |_|\__,_|\___|_|\_\_|   \__,_|___/_|\___/|_| |_|`)

	magenta.Println("\nHackFusion")
	blue.Println("AI-Assisted Security Testing Toolkit")

	fmt.Println()
	green.Printf("Version: %s\n", version)
	fmt.Print("Author: ")
	brightRed.Printf("%s\n\n", author)
}

var (
	// Global flags
	cfgFile string
	verbose bool

	// AI flags
	refine   bool
	save     bool
	noNotify bool

	// History flags
	historyLimit int

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "hackfusion",
	Short:         "AI-Assisted Security Testing Toolkit",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return initLogger()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		printBanner()

		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		return menu.New(s, os.Stdin, runOptions(s.Config)).Run(context.Background())
	},
}

var aiCmd = &cobra.Command{
	Use:   "ai [request]",
	Short: "Plan, run and report a natural-language request",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		printBanner()

		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		if ok, reason := s.AIAvailable(); !ok {
			terminal.PrintAINotAvailable(reason.Error())
			return scanner.ErrAIUnavailable
		}

		ctx, stop := interruptContext()
		defer stop()

		request := strings.Join(args, " ")
		out, err := s.RunAI(ctx, request, runOptions(s.Config))
		if out == nil {
			return err
		}

		terminal.PrintSectionHeader("REPORT")
		fmt.Println(out.Markdown)

		_, _, findings := report.Summary(out.Run)
		terminal.PrintRunSummary(out.Run, findings)
		for _, f := range out.Files {
			terminal.PrintSuccess("Report saved to: " + f)
		}
		return err
	},
}

func categoryCmd(use, short string, category scanner.Category) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printBanner()

			s, err := newSession()
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, stop := interruptContext()
			defer stop()

			terminal.PrintProgress(fmt.Sprintf("Running %s against %s...", category, args[0]))
			results := s.CategoryScan(ctx, category, args[0])
			if err := ctx.Err(); err != nil {
				return err
			}
			fmt.Println(terminal.ScanTable(string(category)+" Results", results))
			return nil
		},
	}
}

var (
	reconCmd    = categoryCmd("recon [target]", "Run nmap, whois and dnsenum", scanner.InformationGathering)
	vulnCmd     = categoryCmd("vuln [target]", "Run nmap vuln scripts and nikto", scanner.VulnerabilityAnalysis)
	webCmd      = categoryCmd("web [url]", "Run the web application scanners", scanner.WebApplication)
	wirelessCmd = categoryCmd("wireless [interface]", "Run airmon-ng and iwlist", scanner.Wireless)
)

var checkCmd = &cobra.Command{
	Use:     "check",
	Aliases: []string{"c"},
	Short:   "Check if required tools are installed",
	Long:    "Verify that all external tools and the AI assistant are reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		printBanner()

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		ctx, stop := interruptContext()
		defer stop()

		statuses := checker.New(tools.NewExecRunner()).CheckAllTools(ctx)
		checker.PrintToolStatus(statuses)

		st := checker.AIStatus{Provider: cfg.AI.Provider, Model: cfg.AI.Model}
		st.HasModel, st.Err = llm.NewProber(cfg.AI).CheckModel(ctx)
		st.Reachable = st.Err == nil
		checker.PrintAIStatus(st)

		if missing := checker.MissingRequired(statuses); len(missing) > 0 {
			return fmt.Errorf("%d required tools missing", len(missing))
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "List archived reports, or print one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		st, err := store.NewReportStore(cfg.History.Path, logger.Named("store"))
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()
		if len(args) == 1 {
			rec, err := st.Get(ctx, args[0])
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no report with id %q", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Println(rec.Markdown)
			return nil
		}

		records, err := st.List(ctx, historyLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			terminal.PrintInfo("No reports archived yet. Run 'hackfusion ai --save' to keep one.")
			return nil
		}

		rows := make([][]string, 0, len(records))
		for _, r := range records {
			rows = append(rows, []string{
				r.ID[:8],
				r.CreatedAt.Local().Format(report.DateLayout),
				r.Category,
				strconv.Itoa(r.Steps),
				strconv.Itoa(r.Failed),
				strconv.Itoa(r.Findings),
				shorten(r.Request, 48),
			})
		}
		fmt.Println(terminal.Table("Report History",
			[]string{"ID", "Date", "Category", "Steps", "Failed", "Findings", "Request"}, rows))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		printBanner()
	},
}

// initLogger builds the process logger. Verbose mode logs to the console;
// otherwise JSON lines go to the configured log file.
func initLogger() error {
	if logger != nil {
		return nil
	}

	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		level := zapcore.InfoLevel
		path := filepath.Join(os.TempDir(), "hackfusion.log")
		if cfg, lerr := config.Load(cfgFile); lerr == nil {
			if l, perr := zapcore.ParseLevel(cfg.Log.Level); perr == nil {
				level = l
			}
			if cfg.Log.File != "" {
				path = cfg.Log.File
			}
		}

		zcfg := zap.Config{
			Level:            zap.NewAtomicLevelAt(level),
			Encoding:         "json",
			OutputPaths:      []string{path},
			ErrorOutputPaths: []string{"stderr"},
			EncoderConfig:    zap.NewProductionEncoderConfig(),
		}
		logger, err = zcfg.Build()
	}
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func newSession() (*scanner.Session, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	return scanner.New(cfg, logger, version)
}

func runOptions(cfg *config.Config) scanner.RunOptions {
	return scanner.RunOptions{
		Refine: refine || cfg.AI.RefineSteps,
		Save:   save,
		Notify: !noNotify,
	}
}

func shorten(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

// interruptContext is cancelled by Ctrl+C or SIGTERM
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func init() {
	rootCmd.AddCommand(aiCmd)
	rootCmd.AddCommand(reconCmd)
	rootCmd.AddCommand(vulnCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(wirelessCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.config/hackfusion/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to the console at debug level")

	// AI flags also apply to the menu's AI option
	for _, cmd := range []*cobra.Command{rootCmd, aiCmd} {
		cmd.Flags().BoolVar(&refine, "refine", false, "Ask the AI to refine each step's parameters before running it")
		cmd.Flags().BoolVar(&save, "save", false, "Write the report files and archive the run")
		cmd.Flags().BoolVar(&noNotify, "no-notify", false, "Do not send a desktop notification when the run ends")
	}

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of reports to list")

	rootCmd.SetUsageTemplate(usageTemplate)

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		printBanner()
		cmd.Print(cmd.UsageString())
	})
}

const usageTemplate = `
USAGE:
  hackfusion                         Open the interactive menu
  hackfusion [command]               Run a command

COMMANDS:
  ai "<request>"       Plan, run and report a natural-language request
  recon <target>       Information gathering (nmap, whois, dnsenum)
  vuln <target>        Vulnerability analysis (nmap vuln scripts, nikto)
  web <url>            Web application analysis (nikto, dirb, sqlmap, wpscan, skipfish)
  wireless <iface>     Wireless network analysis (airmon-ng, iwlist)
  check, c             Check if required tools are installed
  history [id]         List archived reports, or print one
  version              Show version information

AI OPTIONS:
  --refine                       Refine each step's parameters with the AI before running it
  --save                         Write report files and archive the run
  --no-notify                    Skip the desktop notification

HISTORY:
  -n, --limit INT                Number of reports to list (default: 20)

GLOBAL:
  --config STRING                Config file (default: ~/.config/hackfusion/config.yaml)
  -v, --verbose                  Log to the console at debug level

ENVIRONMENT:
  OPENAI_API_KEY                 Credential for the OpenAI provider
  HACKFUSION_AI_PROVIDER         openai or ollama
  HACKFUSION_<SECTION>_<KEY>     Override any config.yaml key

EXAMPLES:
  # Interactive menu
  hackfusion

  # Let the AI plan a scan and keep the report
  hackfusion ai "scan 10.0.0.0/24 for open services" --save

  # Local model through Ollama
  HACKFUSION_AI_PROVIDER=ollama HACKFUSION_AI_MODEL=llama3 hackfusion ai "check example.com for SQL injection"

  # Direct web scan
  hackfusion web http://target.local

For more information: https://github.com/who0xac/hackfusion
`

func main() {
	defer func() {
		if logger != nil {
			_ = logger.Sync()
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		terminal.PrintError(err.Error())
		if logger != nil {
			_ = logger.Sync()
		}
		os.Exit(1)
	}
}
