package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrHelp is returned by ParseArgs when -h/--help is given.
var ErrHelp = errors.New("help requested")

// ErrVersion is returned by ParseArgs when --version is given.
var ErrVersion = errors.New("version requested")

// CustomAttribute is a span attribute computed from an expression over a frame.
type CustomAttribute struct {
	Name       string
	Expression string
}

// Config holds the parsed command-line configuration
type Config struct {
	// Inputs are trace files read in order; empty means standard input
	Inputs []string
	// Filter is an expression selecting which frames are reported
	Filter string
	// CustomAttributes are extra span attributes for exported frames
	CustomAttributes []CustomAttribute
	// ProfilePath points to a YAML pipeline profile
	ProfilePath string
	// Stats enables the extended latency summary
	Stats bool
	// OTLP enables span export of the reported frames
	OTLP bool
	// TraceID is a literal trace ID or an expression producing one
	TraceID string
	// ParentID is a literal span ID or an expression producing one
	ParentID string
	// MetricsTextfile is where Prometheus metrics are written after the run
	MetricsTextfile string
	// LogLevel is the diagnostic log level ("debug", "info", "warn", "error")
	LogLevel string
	// LogDev switches diagnostics to the human-readable console encoder
	LogDev bool
}

// ParseArgs parses command-line arguments and returns a Config.
// Expected format: program_name [flags] [file ...] [-- file ...]
func ParseArgs(args []string) (*Config, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no arguments provided")
	}

	cfg := &Config{}

	// value returns the argument following a flag.
	value := func(i int, flag string) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("%s requires a value", flag)
		}
		return args[i+1], nil
	}

	for i := 1; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			cfg.Inputs = append(cfg.Inputs, args[i+1:]...)
			break
		}
		if arg == "-" || !strings.HasPrefix(arg, "-") {
			cfg.Inputs = append(cfg.Inputs, arg)
			continue
		}

		switch arg {
		case "-h", "--help":
			return nil, ErrHelp
		case "--version":
			return nil, ErrVersion
		case "-s", "--stats":
			cfg.Stats = true
		case "--otlp":
			cfg.OTLP = true
		case "-v", "--verbose":
			cfg.LogLevel = "debug"
		case "-f", "--filter":
			v, err := value(i, arg)
			if err != nil {
				return nil, err
			}
			cfg.Filter = v
			i++
		case "-p", "--profile":
			v, err := value(i, arg)
			if err != nil {
				return nil, err
			}
			cfg.ProfilePath = v
			i++
		case "-t", "--trace-id":
			v, err := value(i, arg)
			if err != nil {
				return nil, err
			}
			cfg.TraceID = v
			i++
		case "--parent-id":
			v, err := value(i, arg)
			if err != nil {
				return nil, err
			}
			cfg.ParentID = v
			i++
		case "-m", "--metrics-textfile":
			v, err := value(i, arg)
			if err != nil {
				return nil, err
			}
			cfg.MetricsTextfile = v
			i++
		case "-a", "--attribute":
			v, err := value(i, arg)
			if err != nil {
				return nil, err
			}
			attr, err := parseAttribute(v)
			if err != nil {
				return nil, err
			}
			cfg.CustomAttributes = append(cfg.CustomAttributes, attr)
			i++
		default:
			return nil, fmt.Errorf("unknown flag %q (see --help)", arg)
		}
	}

	return cfg, nil
}

// ParseAttributeString parses "NAME=EXPR;NAME=EXPR" as used by FRAMETRACE_ATTRIBUTES.
func ParseAttributeString(s string) ([]CustomAttribute, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var attrs []CustomAttribute
	for _, part := range strings.Split(s, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		attr, err := parseAttribute(part)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

// parseAttribute splits "NAME=EXPR" on the first '='; the expression may contain more.
func parseAttribute(s string) (CustomAttribute, error) {
	name, expression, ok := strings.Cut(s, "=")
	if !ok {
		return CustomAttribute{}, fmt.Errorf("invalid attribute format %q: want NAME=EXPR", s)
	}
	name = strings.TrimSpace(name)
	expression = strings.TrimSpace(expression)
	if name == "" {
		return CustomAttribute{}, fmt.Errorf("invalid attribute %q: name cannot be empty", s)
	}
	if expression == "" {
		return CustomAttribute{}, fmt.Errorf("invalid attribute %q: expression cannot be empty", s)
	}
	return CustomAttribute{Name: name, Expression: expression}, nil
}

// Usage returns the help text.
func Usage(programName string) string {
	return fmt.Sprintf(`Usage: %[1]s [flags] [file ...]

Reconstructs per-frame timelines from a GStreamer debug trace and reports
per-stage latency. Reads standard input when no file is given ("-" also
means standard input). Files ending in .gz or .zst are decompressed.

Capture a trace with:
  GST_DEBUG=*:2,GST_SCHEDULING:5,GST_PERFORMANCE:5 gst-launch-1.0 --gst-debug-no-color -e PIPELINE >trace.log 2>&1

Flags:
  -f, --filter EXPR            report only frames for which EXPR is true
                               (variables: key, no, total_us, entries, labels, gaps_us)
  -s, --stats                  print percentiles and a per-stage breakdown
  -p, --profile FILE           YAML pipeline profile naming the traced elements
  -m, --metrics-textfile PATH  write Prometheus metrics to PATH after the run
      --otlp                   export frames as OpenTelemetry spans (OTLP/HTTP)
  -t, --trace-id EXPR          trace ID for exported spans (hex or expression)
      --parent-id EXPR         parent span ID for exported spans
  -a, --attribute NAME=EXPR    extra span attribute (repeatable)
  -v, --verbose                debug diagnostics on stderr
  -h, --help                   show this help
      --version                show version

Example:
  %[1]s -s -f 'total_us > 20000' trace.log.gz
`, programName)
}
