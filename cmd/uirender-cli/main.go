package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-uirenderer"
	"github.com/goliatone/go-uirenderer/components/regions"
	"github.com/goliatone/go-uirenderer/pkg/collab"
	"github.com/goliatone/go-uirenderer/pkg/layout"
	"github.com/goliatone/go-uirenderer/pkg/model"
	pkgopenapi "github.com/goliatone/go-uirenderer/pkg/openapi"
	"github.com/goliatone/go-uirenderer/pkg/render"
	"github.com/goliatone/go-uirenderer/pkg/renderers/tui"
)

const usage = `Usage: %s <command> [flags]

Commands:
  render    render a form as html or text
  validate  validate a record against a layout
  prompt    edit a record interactively in the terminal
  serve     serve forms over http for previewing
`

// sourceFlags selects where layouts come from and which record to load.
type sourceFlags struct {
	layouts string
	openapi string
	object  string
	mode    string
	record  string
}

func (s *sourceFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.layouts, "layouts", "", "directory of JSON/YAML layout payloads")
	fs.StringVar(&s.openapi, "openapi", "", "OpenAPI document path or URL (operation ids become object types)")
	fs.StringVar(&s.object, "object", "", "object type to open")
	fs.StringVar(&s.mode, "mode", "", "mode override: create, edit, view or search")
	fs.StringVar(&s.record, "record", "", "JSON/YAML file replacing the payload record")
}

func (s sourceFlags) provider() (collab.ConfigProvider, error) {
	switch {
	case s.layouts != "" && s.openapi != "":
		return nil, errors.New("use either -layouts or -openapi")
	case s.layouts != "":
		return layout.LoadFS(os.DirFS(s.layouts))
	case s.openapi != "":
		path := strings.TrimSpace(s.openapi)
		if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
			src, err := pkgopenapi.SourceFromURL(path)
			if err != nil {
				return nil, err
			}
			return pkgopenapi.NewProvider(src, pkgopenapi.WithHTTPFallback(30*time.Second)), nil
		}
		return pkgopenapi.NewProvider(pkgopenapi.SourceFromFile(path)), nil
	default:
		return nil, errors.New("one of -layouts or -openapi is required")
	}
}

func (s sourceFlags) request() (uirenderer.Request, error) {
	req := uirenderer.Request{ObjectType: s.object, Mode: model.ParseMode(s.mode)}
	if req.ObjectType == "" {
		return req, errors.New("-object is required")
	}
	if req.Mode == "" && strings.TrimSpace(s.mode) != "" {
		return req, fmt.Errorf("invalid mode %q", s.mode)
	}
	if s.record != "" {
		data, err := os.ReadFile(s.record)
		if err != nil {
			return req, err
		}
		doc, err := layout.ParseDocument(data, s.record)
		if err != nil {
			return req, err
		}
		req.Record = model.Record(doc)
	}
	return req, nil
}

func (s sourceFlags) engine(options ...uirenderer.Option) (*uirenderer.Engine, error) {
	provider, err := s.provider()
	if err != nil {
		return nil, err
	}
	return uirenderer.New(append([]uirenderer.Option{uirenderer.WithConfigProvider(provider)}, options...)...), nil
}

func main() {
	log.SetFlags(0)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage, filepath.Base(os.Args[0]))
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	args := flag.Args()[1:]
	var err error
	switch flag.Arg(0) {
	case "render":
		err = runRender(ctx, args)
	case "validate":
		err = runValidate(ctx, args)
	case "prompt":
		err = runPrompt(ctx, args)
	case "serve":
		err = runServe(ctx, args)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", flag.Arg(0), err)
	}
}

func runRender(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	var src sourceFlags
	src.register(fs)
	format := fs.String("format", "html", "output: html or text")
	output := fs.String("output", "", "output file (stdout if empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	engine, err := src.engine()
	if err != nil {
		return err
	}
	req, err := src.request()
	if err != nil {
		return err
	}
	sess, err := engine.Open(ctx, req)
	if err != nil {
		return err
	}
	data, _, err := engine.Render(ctx, sess, *format, render.RenderOptions{States: regions.New().States()})
	if err != nil {
		return err
	}

	if *output == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("Form written to %s\n", *output)
	return nil
}

func runValidate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	var src sourceFlags
	src.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	engine, err := src.engine()
	if err != nil {
		return err
	}
	req, err := src.request()
	if err != nil {
		return err
	}
	sess, err := engine.Open(ctx, req)
	if err != nil {
		return err
	}
	result, err := engine.Validate(sess)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return err
	}
	if !result.Valid {
		os.Exit(1)
	}
	return nil
}

func runPrompt(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("prompt", flag.ExitOnError)
	var src sourceFlags
	src.register(fs)
	format := fs.String("format", string(tui.OutputFormatJSON), "result format: json, form or pretty")
	output := fs.String("output", "", "output file (stdout if empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	engine, err := src.engine()
	if err != nil {
		return err
	}
	req, err := src.request()
	if err != nil {
		return err
	}
	sess, err := engine.Open(ctx, req)
	if err != nil {
		return err
	}
	ctrl, err := engine.Controller(sess)
	if err != nil {
		return err
	}

	editor := tui.New(tui.WithOutputFormat(tui.OutputFormat(*format)), tui.WithTheme(tui.Theme{InfoPrefix: "- ", ErrorPrefix: "! "}))
	record, err := editor.Edit(ctx, ctrl)
	if errors.Is(err, tui.ErrAborted) {
		return nil
	}
	if err != nil {
		return err
	}
	data, err := editor.Serialize(record)
	if err != nil {
		return err
	}
	if *output == "" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(*output, data, 0o644)
}
