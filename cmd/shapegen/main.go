package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hanpama/shapegen/internal/eventbus"
	"github.com/hanpama/shapegen/internal/events"
	"github.com/hanpama/shapegen/internal/ir"
	"github.com/hanpama/shapegen/internal/otel"
	"github.com/hanpama/shapegen/internal/protoreg"
	"github.com/hanpama/shapegen/internal/reqid"
	"github.com/hanpama/shapegen/internal/schema"
	"github.com/hanpama/shapegen/internal/tsrender"
	"gopkg.in/yaml.v3"
)

const rootUsage = `shapegen: typed artifacts from a GraphQL schema and operation documents

USAGE:
  shapegen <command> [flags]

COMMANDS:
  generate         Render TypeScript declarations for the schema and documents
  compile-proto    Generate a .proto file for the schema and documents
  print-schema     Print the loaded schema as SDL
  help             Show help for any command
`

const sharedFlags = `  -config <file>             YAML config file; flags override its values
  -schema <path>             Schema file or directory (.graphql, .graphqls, .gql, .json). Repeatable
  -documents <path>          Document file or directory (.graphql, .gql). Repeatable
  -otel.endpoint <addr>      OTLP collector endpoint
  -otel.service <name>       OpenTelemetry service name (default: shapegen)
`

const generateUsage = `generate FLAGS:
` + sharedFlags + `  -out <file>                Write declarations to file (default: stdout)
  -immutable-types           Mark properties and lists read-only
  -avoid-optionals           Drop optional markers of nullable properties
  -enums-as-types            Render enums as string literal unions
  -flatten-types             Inline nested shapes into their fields
  -scalar <Name=type>        Map a scalar to a TypeScript type. Repeatable
  -template <name=file>      Replace a named template partial. Repeatable
`

const compileProtoUsage = `compile-proto FLAGS:
` + sharedFlags + `  -out <dir>                 Output directory (default: print to stdout)
  -proto.path <file>         File path of the generated file (default: schema.proto)
  -proto.package <name>      Proto package (default: graphql)
  -scalar <Name=type>        Map a scalar to a proto scalar type. Repeatable
`

const printSchemaUsage = `print-schema FLAGS:
` + sharedFlags + `  -out <file>                Write SDL to file (default: stdout)
`

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	global := flag.NewFlagSet("shapegen", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "generate":
		return cmdGenerate(cmdArgs, stdout, stderr)
	case "compile-proto":
		return cmdCompileProto(cmdArgs, stdout, stderr)
	case "print-schema":
		return cmdPrintSchema(cmdArgs, stdout, stderr)
	case "help":
		return cmdHelp(cmdArgs, stdout)
	default:
		fmt.Fprint(stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, rootUsage)
		return nil
	}
	switch args[0] {
	case "generate":
		fmt.Fprint(stdout, generateUsage)
	case "compile-proto":
		fmt.Fprint(stdout, compileProtoUsage)
	case "print-schema":
		fmt.Fprint(stdout, printSchemaUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

// fileConfig is the layout of the -config file.
type fileConfig struct {
	Schema     []string         `yaml:"schema"`
	Documents  []string         `yaml:"documents"`
	Out        string           `yaml:"out"`
	Shapes     ir.Config        `yaml:"shapes"`
	TypeScript tsrender.Options `yaml:"typescript"`
	Proto      protoreg.Options `yaml:"proto"`
	Otel       struct {
		Endpoint string `yaml:"endpoint"`
		Service  string `yaml:"service"`
	} `yaml:"otel"`
}

func loadConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	// Relative paths in the file are relative to the file.
	base := filepath.Dir(path)
	cfg.Schema = resolvePaths(base, cfg.Schema)
	cfg.Documents = resolvePaths(base, cfg.Documents)
	return cfg, nil
}

func resolvePaths(base string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		if filepath.IsAbs(p) {
			out[i] = p
		} else {
			out[i] = filepath.Join(base, p)
		}
	}
	return out
}

type stringListFlag []string

func (s *stringListFlag) String() string { return strings.Join(*s, ",") }

func (s *stringListFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

type mappingFlag map[string]string

func (m mappingFlag) String() string { return "" }

func (m mappingFlag) Set(v string) error {
	parts := strings.SplitN(v, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid mapping %q, want Name=value", v)
	}
	name := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if name == "" || value == "" {
		return fmt.Errorf("invalid mapping %q, want Name=value", v)
	}
	m[name] = value
	return nil
}

// commonFlags are shared by every command that loads a project.
type commonFlags struct {
	configPath   string
	schema       stringListFlag
	documents    stringListFlag
	out          string
	otelEndpoint string
	otelService  string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "YAML config file")
	fs.Var(&c.schema, "schema", "Schema file or directory")
	fs.Var(&c.documents, "documents", "Document file or directory")
	fs.StringVar(&c.out, "out", "", "Output path")
	fs.StringVar(&c.otelEndpoint, "otel.endpoint", "", "OTLP collector endpoint")
	fs.StringVar(&c.otelService, "otel.service", "", "OpenTelemetry service name")
}

// merge overlays the flags on cfg.
func (c *commonFlags) merge(cfg *fileConfig) {
	if len(c.schema) > 0 {
		cfg.Schema = c.schema
	}
	if len(c.documents) > 0 {
		cfg.Documents = c.documents
	}
	if c.out != "" {
		cfg.Out = c.out
	}
	if c.otelEndpoint != "" {
		cfg.Otel.Endpoint = c.otelEndpoint
	}
	if c.otelService != "" {
		cfg.Otel.Service = c.otelService
	}
	if cfg.Otel.Service == "" {
		cfg.Otel.Service = "shapegen"
	}
}

// withRun wires telemetry for one command and reports its outcome on the
// event bus.
func withRun(command string, cfg *fileConfig, fn func(ctx context.Context) error) (err error) {
	ctx, _ := reqid.NewContext(context.Background())
	if cfg.Otel.Endpoint != "" {
		eventbus.Use(eventbus.New())
		defer eventbus.Use(nil)
		shutdown, err := otel.Setup(cfg.Otel.Endpoint, cfg.Otel.Service)
		if err != nil {
			return fmt.Errorf("otel setup: %w", err)
		}
		defer func() { _ = shutdown(context.Background()) }()
	}

	start := time.Now()
	eventbus.Publish(ctx, events.RunStart{Command: command})
	defer func() {
		eventbus.Publish(ctx, events.RunFinish{Command: command, Err: err, Duration: time.Since(start)})
	}()
	return fn(ctx)
}

func cmdGenerate(args []string, stdout, stderr io.Writer) error {
	var common commonFlags
	var immutableTypes, avoidOptionals, enumsAsTypes, flattenTypes bool
	scalars := mappingFlag{}
	templateFiles := mappingFlag{}

	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	common.register(fs)
	fs.BoolVar(&immutableTypes, "immutable-types", false, "Mark properties and lists read-only")
	fs.BoolVar(&avoidOptionals, "avoid-optionals", false, "Drop optional markers of nullable properties")
	fs.BoolVar(&enumsAsTypes, "enums-as-types", false, "Render enums as string literal unions")
	fs.BoolVar(&flattenTypes, "flatten-types", false, "Inline nested shapes into their fields")
	fs.Var(scalars, "scalar", "Map a scalar to a TypeScript type")
	fs.Var(templateFiles, "template", "Replace a named template partial")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(stderr, generateUsage)
		return err
	}

	cfg, err := loadConfig(common.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	common.merge(cfg)
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "immutable-types":
			cfg.Shapes.ImmutableTypes = immutableTypes
		case "avoid-optionals":
			cfg.Shapes.AvoidOptionals = avoidOptionals
		case "enums-as-types":
			cfg.Shapes.EnumsAsTypes = enumsAsTypes
		case "flatten-types":
			cfg.Shapes.FlattenTypes = flattenTypes
		}
	})
	if len(scalars) > 0 {
		cfg.Shapes.Primitives = mergeMaps(cfg.Shapes.Primitives, scalars)
	}
	if len(templateFiles) > 0 {
		overrides := make(map[string]string, len(templateFiles))
		for name, file := range templateFiles {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read template %s: %w", name, err)
			}
			overrides[name] = string(data)
		}
		cfg.TypeScript.Templates = mergeMaps(cfg.TypeScript.Templates, overrides)
	}
	if len(cfg.Schema) == 0 {
		fmt.Fprint(stderr, generateUsage)
		return fmt.Errorf("-schema is required")
	}

	return withRun("generate", cfg, func(ctx context.Context) error {
		proj, err := ir.Load(ctx, cfg.Schema, cfg.Documents, cfg.Shapes)
		if err != nil {
			return fmt.Errorf("load project: %w", err)
		}
		r, err := tsrender.New(cfg.TypeScript)
		if err != nil {
			return fmt.Errorf("typescript templates: %w", err)
		}
		out, err := r.RenderString(ctx, proj.Schema, proj.Documents)
		if err != nil {
			return fmt.Errorf("render typescript: %w", err)
		}
		return writeOutput(cfg.Out, out, stdout)
	})
}

func cmdCompileProto(args []string, stdout, stderr io.Writer) error {
	var common commonFlags
	var protoPath, protoPackage string
	scalars := mappingFlag{}

	fs := flag.NewFlagSet("compile-proto", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	common.register(fs)
	fs.StringVar(&protoPath, "proto.path", "", "File path of the generated file")
	fs.StringVar(&protoPackage, "proto.package", "", "Proto package")
	fs.Var(scalars, "scalar", "Map a scalar to a proto scalar type")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(stderr, compileProtoUsage)
		return err
	}

	cfg, err := loadConfig(common.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	common.merge(cfg)
	if protoPath != "" {
		cfg.Proto.Path = protoPath
	}
	if protoPackage != "" {
		cfg.Proto.Package = protoPackage
	}
	if len(scalars) > 0 {
		cfg.Proto.Scalars = mergeMaps(cfg.Proto.Scalars, scalars)
	}
	if len(cfg.Schema) == 0 {
		fmt.Fprint(stderr, compileProtoUsage)
		return fmt.Errorf("-schema is required")
	}

	return withRun("compile-proto", cfg, func(ctx context.Context) error {
		proj, err := ir.Load(ctx, cfg.Schema, cfg.Documents, cfg.Shapes)
		if err != nil {
			return fmt.Errorf("load project: %w", err)
		}
		reg, err := protoreg.Build(proj.Schema, proj.Documents, cfg.Proto)
		if err != nil {
			return fmt.Errorf("protoreg build: %w", err)
		}
		if cfg.Out == "" {
			return protoreg.Render(ctx, stdout, reg)
		}
		if err := protoreg.RenderDir(ctx, reg, cfg.Out); err != nil {
			return fmt.Errorf("render proto: %w", err)
		}
		log.Printf("wrote %s", filepath.Join(cfg.Out, reg.File().Path()))
		return nil
	})
}

func cmdPrintSchema(args []string, stdout, stderr io.Writer) error {
	var common commonFlags
	fs := flag.NewFlagSet("print-schema", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(stderr, printSchemaUsage)
		return err
	}

	cfg, err := loadConfig(common.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	common.merge(cfg)
	if len(cfg.Schema) == 0 {
		fmt.Fprint(stderr, printSchemaUsage)
		return fmt.Errorf("-schema is required")
	}

	return withRun("print-schema", cfg, func(ctx context.Context) error {
		proj, err := ir.Load(ctx, cfg.Schema, nil, cfg.Shapes)
		if err != nil {
			return fmt.Errorf("load schema: %w", err)
		}
		return writeOutput(cfg.Out, schema.Render(proj.Schema.Source()), stdout)
	})
}

func writeOutput(path, content string, stdout io.Writer) error {
	if path == "" {
		_, err := io.WriteString(stdout, content)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return err
	}
	log.Printf("wrote %s (%d bytes)", path, len(content))
	return nil
}

func mergeMaps(base, over map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}
