package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v2"

	"github.com/epdphoto/photoframe"
	"github.com/epdphoto/photoframe/epd"
)

const (
	defaultDB      = "photoframe.db"
	defaultLibrary = "albums"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *slog.Logger {
	level := slog.LevelInfo
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))
}

func paramFlags(defaults photoframe.Params) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output-dir",
			Aliases: []string{"o"},
			Value:   defaults.OutputDir,
			Usage:   "directory receiving the converted files",
		},
		&cli.StringFlag{
			Name:  "suffix",
			Value: defaults.Suffix,
			Usage: "suffix appended to output filenames",
		},
		&cli.Float64Flag{
			Name:  "strength",
			Value: defaults.Strength,
			Usage: "tone curve contrast strength (0-1)",
		},
		&cli.Float64Flag{
			Name:  "shadow-boost",
			Value: defaults.ShadowBoost,
			Usage: "lift shadows below the midpoint (0-1)",
		},
		&cli.Float64Flag{
			Name:  "highlight-compress",
			Value: defaults.HighlightCompress,
			Usage: "compress highlights toward white (0.5-3)",
		},
		&cli.Float64Flag{
			Name:  "midpoint",
			Value: defaults.Midpoint,
			Usage: "tone curve neutral intensity (0.3-0.7)",
		},
		&cli.Float64Flag{
			Name:  "saturation",
			Value: defaults.Saturation,
			Usage: "saturation multiplier",
		},
		&cli.StringFlag{
			Name:  "mode",
			Value: string(defaults.Mode),
			Usage: "processing mode: enhanced or stock",
		},
		&cli.StringFlag{
			Name:  "palette",
			Value: string(defaults.Palette),
			Usage: "palette variant: theoretical or measured",
		},
		&cli.BoolFlag{
			Name:  "no-thumbnail",
			Usage: "skip writing the JPEG thumbnail",
		},
	}
}

func buildParams(c *cli.Context) (photoframe.Params, error) {
	p := photoframe.DefaultParams()

	p.OutputDir = c.String("output-dir")
	p.Suffix = c.String("suffix")
	p.Strength = c.Float64("strength")
	p.ShadowBoost = c.Float64("shadow-boost")
	p.HighlightCompress = c.Float64("highlight-compress")
	p.Midpoint = c.Float64("midpoint")
	p.Saturation = c.Float64("saturation")
	p.Thumbnail = !c.Bool("no-thumbnail")

	mode, err := photoframe.ParseMode(c.String("mode"))
	if err != nil {
		return p, err
	}
	p.Mode = mode

	variant, err := epd.ParseVariant(c.String("palette"))
	if err != nil {
		return p, err
	}
	p.Palette = variant

	return p, p.Validate()
}

func openAlbums(c *cli.Context) (*photoframe.AlbumDB, error) {
	return photoframe.OpenAlbumDB(c.String("db"), c.String("library"))
}

func main() {
	app := cli.NewApp()

	app.Name = "photoframe"
	app.Usage = "Convert photos for a 7-color e-paper photo frame"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"PHOTOFRAME_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to the album database",
		},
		&cli.StringFlag{
			Name:    "library",
			EnvVars: []string{"PHOTOFRAME_LIBRARY"},
			Value:   filepath.Join(cwd, defaultLibrary),
			Usage:   "root directory for album files",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	defaults := photoframe.DefaultParams()

	app.Commands = []*cli.Command{
		{
			Name:      "convert",
			Usage:     "Convert photos into panel bitmaps",
			ArgsUsage: "FILE...",
			Flags:     paramFlags(defaults),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				p, err := buildParams(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				pf := photoframe.New(nil, newLogger(c))
				for _, file := range c.Args().Slice() {
					res, err := pf.Convert(file, p)
					if err != nil {
						return cli.Exit(err, 1)
					}
					fmt.Println(res.Bitmap)
				}

				return nil
			},
		},
		{
			Name:      "scan",
			Usage:     "Convert every photo under a directory",
			ArgsUsage: "DIRECTORY",
			Flags:     paramFlags(defaults),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				p, err := buildParams(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				pf := photoframe.New(nil, newLogger(c))
				if err := pf.ConvertDir(c.Args().First(), p); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:  "album",
			Usage: "Manage albums on the frame",
			Subcommands: []*cli.Command{
				{
					Name:      "create",
					Usage:     "Create an album",
					ArgsUsage: "NAME",
					Action: func(c *cli.Context) error {
						if c.NArg() < 1 {
							cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
						}
						albums, err := openAlbums(c)
						if err != nil {
							return cli.Exit(err, 1)
						}
						defer albums.Close()

						if err := albums.CreateAlbum(c.Args().First()); err != nil {
							return cli.Exit(err, 1)
						}
						return nil
					},
				},
				{
					Name:      "delete",
					Usage:     "Delete an album and its files",
					ArgsUsage: "NAME",
					Action: func(c *cli.Context) error {
						if c.NArg() < 1 {
							cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
						}
						albums, err := openAlbums(c)
						if err != nil {
							return cli.Exit(err, 1)
						}
						defer albums.Close()

						if err := albums.DeleteAlbum(c.Args().First()); err != nil {
							return cli.Exit(err, 1)
						}
						return nil
					},
				},
				{
					Name:  "list",
					Usage: "List albums",
					Action: func(c *cli.Context) error {
						albums, err := openAlbums(c)
						if err != nil {
							return cli.Exit(err, 1)
						}
						defer albums.Close()

						if err := albums.EnsureDefaultAlbum(); err != nil {
							return cli.Exit(err, 1)
						}

						list, err := albums.Albums()
						if err != nil {
							return cli.Exit(err, 1)
						}
						for _, a := range list {
							state := "enabled"
							if !a.Enabled {
								state = "disabled"
							}
							fmt.Printf("%s\t%s\n", a.Name, state)
						}
						return nil
					},
				},
				{
					Name:      "enable",
					Usage:     "Enable an album",
					ArgsUsage: "NAME",
					Action:    setEnabled(true),
				},
				{
					Name:      "disable",
					Usage:     "Disable an album",
					ArgsUsage: "NAME",
					Action:    setEnabled(false),
				},
				{
					Name:      "import",
					Usage:     "Convert photos into an album",
					ArgsUsage: "NAME FILE...",
					Flags:     paramFlags(defaults),
					Action: func(c *cli.Context) error {
						if c.NArg() < 2 {
							cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
						}

						p, err := buildParams(c)
						if err != nil {
							return cli.Exit(err, 1)
						}

						albums, err := openAlbums(c)
						if err != nil {
							return cli.Exit(err, 1)
						}
						defer albums.Close()

						pf := photoframe.New(albums, newLogger(c))
						if err := pf.Import(c.Args().First(), p, c.Args().Tail()...); err != nil {
							return cli.Exit(err, 1)
						}
						return nil
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setEnabled(enabled bool) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() < 1 {
			cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
		}
		albums, err := openAlbums(c)
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer albums.Close()

		if err := albums.SetEnabled(c.Args().First(), enabled); err != nil {
			return cli.Exit(err, 1)
		}
		return nil
	}
}
