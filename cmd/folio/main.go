// Command folio normalizes the geometry of scanned book pages: it estimates
// per-page crop boxes and skew angles, corrects outliers across the whole
// book, and writes the rotated, cropped images.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/scanbound/folio"
	"github.com/scanbound/folio/deskew"
	"github.com/scanbound/folio/ocr"
)

// fileConfig is the optional YAML configuration file. CLI flags override
// anything set here.
type fileConfig struct {
	XTolerance  *int     `yaml:"x_tolerance"`
	YTolerance  *int     `yaml:"y_tolerance"`
	MaxContours *int     `yaml:"max_contours"`
	Rotate      *string  `yaml:"rotate"`
	Workers     *int     `yaml:"workers"`
	Resize      *float64 `yaml:"resize"`
	LogLevel    *string  `yaml:"log_level"`
}

func main() {
	app := &cli.App{
		Name:  "folio",
		Usage: "normalize the geometry of scanned book pages",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "indir", Aliases: []string{"i"}, Usage: "scan directory to read", Required: true},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML configuration file"},
			&cli.StringFlag{Name: "loglevel", Value: "info", Usage: "log level (debug, info, warn, error)"},
			&cli.StringFlag{Name: "logfile", Usage: "write logs to this file instead of stderr"},
			&cli.IntSliceFlag{Name: "pages", Aliases: []string{"p"}, Usage: "process only these page numbers"},
			&cli.IntFlag{Name: "x-tolerance", Value: 0, Usage: "vertical-segment break tolerance in pixels"},
			&cli.IntFlag{Name: "y-tolerance", Value: 0, Usage: "horizontal-segment break tolerance in pixels"},
			&cli.IntFlag{Name: "max-contours", Value: 0, Usage: "contours examined per page"},
			&cli.StringFlag{Name: "rotate", Usage: "skew merge strategy (horizontal, vertical, overall)"},
			&cli.IntFlag{Name: "workers", Value: 0, Usage: "parallel page estimation workers"},
		},
		Commands: []*cli.Command{
			{
				Name:  "boxes",
				Usage: "estimate and correct crop boxes, printing them as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write JSON here instead of stdout"},
				},
				Action: boxesAction,
			},
			{
				Name:  "process",
				Usage: "write rotated, cropped page images",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "outdir", Aliases: []string{"o"}, Usage: "output directory", Required: true},
					&cli.Float64Flag{Name: "resize", Usage: "scale factor for output images"},
					&cli.BoolFlag{Name: "deskew-only", Usage: "rotate but do not crop"},
				},
				Action: processAction,
			},
			{
				Name:  "contours",
				Usage: "write diagnostic images with detected contours outlined",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "outdir", Aliases: []string{"o"}, Usage: "output directory", Required: true},
				},
				Action: contoursAction,
			},
			{
				Name:  "gray",
				Usage: "write grayscale copies of the pages",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "outdir", Aliases: []string{"o"}, Usage: "output directory", Required: true},
				},
				Action: grayAction,
			},
			{
				Name:  "thumbnail",
				Usage: "write a JPEG preview of the book's cover page",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output JPEG path", Required: true},
					&cli.IntFlag{Name: "max-dim", Value: 400, Usage: "longest side of the thumbnail in pixels"},
				},
				Action: thumbnailAction,
			},
			{
				Name:      "text",
				Usage:     "OCR processed page images (requires -tags ocr at build time)",
				ArgsUsage: "image [image ...]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "language", Aliases: []string{"l"}, Value: "eng", Usage: "Tesseract language(s), \"+\"-separated"},
				},
				Action: textAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// buildProcessor assembles a configured Processor from the YAML file (if
// any) and the CLI flags, flags winning.
func buildProcessor(c *cli.Context) (*folio.Processor, error) {
	log, err := buildLogger(c)
	if err != nil {
		return nil, err
	}

	p := folio.OpenDir(c.String("indir")).Logger(log)

	if path := c.String("config"); path != "" {
		cfg, err := loadConfig(path)
		if err != nil {
			return nil, err
		}
		if cfg.XTolerance != nil {
			p = p.XTolerance(*cfg.XTolerance)
		}
		if cfg.YTolerance != nil {
			p = p.YTolerance(*cfg.YTolerance)
		}
		if cfg.MaxContours != nil {
			p = p.MaxContours(*cfg.MaxContours)
		}
		if cfg.Rotate != nil {
			strategy, err := deskew.ParseStrategy(*cfg.Rotate)
			if err != nil {
				return nil, err
			}
			p = p.RotateStrategy(strategy)
		}
		if cfg.Workers != nil {
			p = p.Workers(*cfg.Workers)
		}
		if cfg.Resize != nil {
			p = p.ResizeFactor(*cfg.Resize)
		}
	}

	if c.IsSet("x-tolerance") {
		p = p.XTolerance(c.Int("x-tolerance"))
	}
	if c.IsSet("y-tolerance") {
		p = p.YTolerance(c.Int("y-tolerance"))
	}
	if c.IsSet("max-contours") {
		p = p.MaxContours(c.Int("max-contours"))
	}
	if c.IsSet("rotate") {
		strategy, err := deskew.ParseStrategy(c.String("rotate"))
		if err != nil {
			return nil, err
		}
		p = p.RotateStrategy(strategy)
	}
	if c.IsSet("workers") {
		p = p.Workers(c.Int("workers"))
	}
	if pages := c.IntSlice("pages"); len(pages) > 0 {
		p = p.Pages(pages...)
	}
	return p, nil
}

func buildLogger(c *cli.Context) (*logrus.Logger, error) {
	log := logrus.New()

	level, err := logrus.ParseLevel(c.String("loglevel"))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.String("loglevel"), err)
	}
	log.SetLevel(level)

	if path := c.String("logfile"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		log.SetOutput(f)
	}
	return log, nil
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

func boxesAction(c *cli.Context) error {
	p, err := buildProcessor(c)
	if err != nil {
		return err
	}

	boxes, err := p.Boxes()
	if err != nil {
		return err
	}

	out := os.Stdout
	if path := c.String("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(boxes)
}

func processAction(c *cli.Context) error {
	p, err := buildProcessor(c)
	if err != nil {
		return err
	}
	if c.IsSet("resize") {
		p = p.ResizeFactor(c.Float64("resize"))
	}
	if c.Bool("deskew-only") {
		p = p.DeskewOnly()
	}
	return p.Process(c.String("outdir"))
}

func contoursAction(c *cli.Context) error {
	p, err := buildProcessor(c)
	if err != nil {
		return err
	}
	return p.DrawContours(c.String("outdir"))
}

func grayAction(c *cli.Context) error {
	p, err := buildProcessor(c)
	if err != nil {
		return err
	}
	return p.Grayscale(c.String("outdir"))
}

func thumbnailAction(c *cli.Context) error {
	p, err := buildProcessor(c)
	if err != nil {
		return err
	}
	return p.Thumbnail(c.String("out"), c.Int("max-dim"))
}

func textAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one image path is required")
	}

	client, err := ocr.New(c.String("language"))
	if err != nil {
		return err
	}
	defer client.Close()

	for _, path := range c.Args().Slice() {
		text, err := client.RecognizeFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fmt.Println(text)
	}
	return nil
}
