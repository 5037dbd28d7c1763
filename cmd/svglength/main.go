// Command svglength parses SVG length-list attribute values and runs scripts
// against them.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chrisuehlinger/svgdom/js"
	"github.com/chrisuehlinger/svgdom/svg"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

type itemJSON struct {
	Text     string  `json:"text"`
	Value    float64 `json:"value"`
	Unit     string  `json:"unit"`
	UnitType int     `json:"unitType"`
}

type evalResultJSON struct {
	Attribute string     `json:"attribute"`
	Value     string     `json:"value"`
	Items     []itemJSON `json:"items"`
	Changes   int        `json:"changes"`
}

func toItems(lengths []*svg.Length) []itemJSON {
	items := make([]itemJSON, len(lengths))
	for i, l := range lengths {
		items[i] = itemJSON{
			Text:     l.ValueAsString(),
			Value:    l.ValueInSpecifiedUnits(),
			Unit:     l.UnitType().String(),
			UnitType: int(l.UnitType()),
		}
	}
	return items
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(level).
		With().Timestamp().Logger()
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "svglength",
		Short:         "Inspect and edit SVG length-list attribute values",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")

	logger := func() zerolog.Logger { return newLogger(stderr, verbose) }

	root.AddCommand(newParseCmd(logger), newEvalCmd(logger))
	return root
}

func newParseCmd(logger func() zerolog.Logger) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse <value>",
		Short: "Parse a length list and print it normalized",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()
			lengths, err := svg.ParseLengthList(args[0])
			if err != nil {
				log.Error().Err(err).Str("value", args[0]).Msg("parse failed")
				return err
			}
			log.Debug().Int("items", len(lengths)).Msg("parsed")

			if asJSON {
				data, err := json.Marshal(toItems(lengths))
				if err != nil {
					return fmt.Errorf("encoding items: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), svg.FormatLengthList(lengths))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print items as JSON")
	return cmd
}

type evalOptions struct {
	name      string
	value     string
	readOnly  bool
	direction string
	fontSize  float64
	xHeight   float64
	viewport  string
	asJSON    bool
}

func newEvalCmd(logger func() zerolog.Logger) *cobra.Command {
	opts := evalOptions{}

	cmd := &cobra.Command{
		Use:   "eval <script.js|->",
		Short: "Run a script against a length-list attribute",
		Long: `Run a script with the globals:
  lengths  the SVGAnimatedLengthList for the attribute
  list     lengths.baseVal, or lengths.animVal with --readonly
and print the attribute value afterwards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, args[0], opts, logger())
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.name, "name", "x", "attribute name")
	flags.StringVar(&opts.value, "value", "", "initial attribute value")
	flags.BoolVar(&opts.readOnly, "readonly", false, "bind list to the read-only animVal")
	flags.StringVar(&opts.direction, "direction", "width", "percentage axis: width, height or other")
	flags.Float64Var(&opts.fontSize, "font-size", 16, "font size for em/ex units")
	flags.Float64Var(&opts.xHeight, "x-height", 0, "x-height for ex units (default half the font size)")
	flags.StringVar(&opts.viewport, "viewport", "100x100", "viewport size as WIDTHxHEIGHT")
	flags.BoolVar(&opts.asJSON, "json", false, "print the result as JSON")
	return cmd
}

func runEval(cmd *cobra.Command, path string, opts evalOptions, log zerolog.Logger) error {
	dir, err := parseDirection(opts.direction)
	if err != nil {
		return err
	}
	width, height, err := parseViewport(opts.viewport)
	if err != nil {
		return err
	}

	code, err := readScript(cmd.InOrStdin(), path)
	if err != nil {
		log.Error().Err(err).Str("script", path).Msg("cannot read script")
		return err
	}

	changes := 0
	attr := svg.NewAnimatedLengthList(opts.name, dir, svg.AttributeHostFunc(func(name, value string) {
		changes++
		log.Debug().Str("attribute", name).Str("value", value).Msg("attribute changed")
	}))
	if err := attr.SetValueAsString(opts.value); err != nil {
		log.Error().Err(err).Str("value", opts.value).Msg("invalid initial value")
		return err
	}

	runtime := js.NewRuntime()
	runtime.SetLogger(log)
	binder := js.NewBinder(runtime)
	binder.SetContext(svg.StaticContext{
		Font:     opts.fontSize,
		X:        opts.xHeight,
		Viewport: [2]float64{width, height},
	})

	list := attr.BaseVal()
	if opts.readOnly {
		list = attr.AnimVal()
	}
	if err := runtime.Set("lengths", binder.BindAnimatedLengthList(attr)); err != nil {
		return err
	}
	if err := runtime.Set("list", binder.BindLengthList(list)); err != nil {
		return err
	}

	if err := runtime.ExecuteScript(code, path); err != nil {
		return fmt.Errorf("running %s: %w", path, err)
	}
	log.Debug().Int("changes", changes).Msg("script finished")

	if opts.asJSON {
		data, err := json.Marshal(evalResultJSON{
			Attribute: attr.Name(),
			Value:     attr.ValueAsString(),
			Items:     toItems(attr.BaseVal().Values()),
			Changes:   changes,
		})
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), attr.ValueAsString())
	return nil
}

func readScript(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func parseDirection(s string) (svg.Direction, error) {
	switch strings.ToLower(s) {
	case "width", "x":
		return svg.DirectionWidth, nil
	case "height", "y":
		return svg.DirectionHeight, nil
	case "other":
		return svg.DirectionOther, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

func parseViewport(s string) (float64, float64, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("viewport %q: expected WIDTHxHEIGHT", s)
	}
	width, err := strconv.ParseFloat(w, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("viewport %q: %w", s, err)
	}
	height, err := strconv.ParseFloat(h, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("viewport %q: %w", s, err)
	}
	return width, height, nil
}
