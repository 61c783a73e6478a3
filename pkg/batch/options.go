package batch

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/kolide/kit/version"
	"github.com/peterbourgon/ff/v3"
	"github.com/qualitygate/batch/pkg/settings/keys"
)

const (
	EnvVarPrefix = "SONAR_BATCH"
)

// Options is the set of options that may be configured for the batch.
type Options struct {
	// Local is the raw value given for local mode, empty when not given. It is
	// deliberately left unparsed so that malformed values reach the settings
	// fallback instead of failing option parsing.
	Local string
	// Properties are the analysis properties given as -D key=value.
	Properties map[string]string
	// RootDirectory is where the settings database lives. When empty, settings
	// are kept in memory for the duration of the run and nothing is persisted.
	RootDirectory string
	// ResetSettings forgets every persisted setting before this run resolves any.
	ResetSettings bool
	// Debug enables debug logging.
	Debug bool
	// Optional file to mirror debug logs to
	DebugLogFile string
	// ConfigFilePath is the config file options were parsed from, if provided
	ConfigFilePath string
}

// PropertyFlags collects repeated -D key=value flags.
type PropertyFlags []string

func (p *PropertyFlags) String() string {
	return strings.Join(*p, " ")
}

func (p *PropertyFlags) Set(value string) error {
	*p = append(*p, value)
	return nil
}

// ParseOptions parses the options that may be configured via command-line flags,
// environment variables and an optional config file, determines order of precedence
// and returns a typed struct of options for further application use
func ParseOptions(args []string, output io.Writer) (*Options, error) {
	flagset := flag.NewFlagSet("batch", flag.ContinueOnError)
	flagset.SetOutput(output)
	flagset.Usage = commandUsage(flagset, "batch --option=value")

	var (
		flLocal          = flagset.String("local", "", "Run the analysis in local mode (true/false, default: false)")
		flRootDirectory  = flagset.String("root_directory", "", "The location of the settings database (default: in memory)")
		flResetSettings  = flagset.Bool("reset_settings", false, "Forget settings persisted by earlier runs (default: false)")
		flDebug          = flagset.Bool("debug", false, "Whether or not debug logging is enabled (default: false)")
		flDebugLogFile   = flagset.String("debug_log_file", "", "Optional file to mirror debug logs to")
		flConfigFilePath = flagset.String("config", "", "config file to parse options from (optional)")
		flVersion        = flagset.Bool("version", false, "Print batch version and exit")
		flProperties     PropertyFlags // set below with flagset.Var
	)

	flagset.Var(&flProperties, "D", "Analysis property, as key=value (repeatable)")

	ffOpts := []ff.Option{
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
		ff.WithEnvVarPrefix(EnvVarPrefix),
	}

	if err := ff.Parse(flagset, args, ffOpts...); err != nil {
		return nil, fmt.Errorf("parsing options: %w", err)
	}

	// handle --version
	if *flVersion {
		version.PrintFull()
		return nil, NewInfoCmdError("--version")
	}

	properties, err := parseProperties(flProperties)
	if err != nil {
		return nil, err
	}

	return &Options{
		Local:          strings.TrimSpace(*flLocal),
		Properties:     properties,
		RootDirectory:  *flRootDirectory,
		ResetSettings:  *flResetSettings,
		Debug:          *flDebug,
		DebugLogFile:   *flDebugLogFile,
		ConfigFilePath: *flConfigFilePath,
	}, nil
}

func parseProperties(raw []string) (map[string]string, error) {
	properties := make(map[string]string, len(raw))
	for _, kv := range raw {
		key, value, found := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("malformed property %q, expected key=value", kv)
		}
		properties[key] = value
	}
	return properties, nil
}

// CmdLineProperties converts command line options into the properties handed to
// settings. A dedicated flag wins over the same key given through -D.
func CmdLineProperties(opts *Options) map[string]string {
	properties := make(map[string]string, len(opts.Properties)+1)
	for k, v := range opts.Properties {
		properties[k] = v
	}

	if opts.Local != "" {
		properties[keys.Local.String()] = opts.Local
	}

	return properties
}

func commandUsage(fs *flag.FlagSet, short string) func() {
	return func() {
		out := fs.Output()
		fmt.Fprintf(out, "Code quality batch (version %s)\n", version.Version().Version)
		fmt.Fprintf(out, "\n")
		fmt.Fprintf(out, "  Usage:\n")
		fmt.Fprintf(out, "    %s\n", short)
		fmt.Fprintf(out, "\n")
		fmt.Fprintf(out, "  Flags:\n")
		w := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
		fs.VisitAll(func(f *flag.Flag) {
			fmt.Fprintf(w, "    --%s %s\t%s\n", f.Name, f.DefValue, f.Usage)
		})
		w.Flush()
		fmt.Fprintf(out, "\n")
		fmt.Fprintf(out, "  All options can be set as environment variables using the following convention:\n")
		fmt.Fprintf(out, "      %s_OPTION=value batch\n", EnvVarPrefix)
		fmt.Fprintf(out, "\n")
	}
}
