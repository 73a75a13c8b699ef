// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/tbakr/troopmedia/internal/models"
	"github.com/urfave/cli/v3"
)

// listFlags are the filter and output flags shared by every listing command.
func listFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "search",
			Aliases: []string{"s"},
			Usage:   "Substring match on names, lyrics and usage text",
		},
		&cli.StringFlag{
			Name:    "type",
			Aliases: []string{"t"},
			Usage:   "Filter by exact type",
		},
		&cli.IntFlag{
			Name:    "difficulty",
			Aliases: []string{"d"},
			Usage:   "Filter by difficulty (1-3)",
		},
		&cli.BoolFlag{
			Name:  "cached",
			Usage: "Read from the local cache instead of the server",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
		},
	}
}

// setupCommand handles local database initialization.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration, database and migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles login, logout and session inspection.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the stored login session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Obtain and store an access token pair",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "username",
						Aliases: []string{"u"},
						Usage:   "Account username (prompted when omitted)",
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password (prompted when omitted)",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Discard stored tokens",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show whether a usable session is stored",
				Action: r.AuthStatus,
			},
		},
	}
}

// musicCommand handles the songs and chants collection.
func musicCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "music",
		Aliases: []string{"songs"},
		Usage:   "Browse and manage songs and chants",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List songs and chants",
				Flags: append(listFlags(), &cli.StringFlag{
					Name:  "category",
					Usage: "Filter by category (" + strings.Join(models.MusicCategories(), ", ") + ")",
				}),
				Action: r.MusicList,
			},
			{
				Name:   "add",
				Usage:  "Create a new song or chant",
				Flags:  musicWriteFlags(),
				Action: r.MusicAdd,
			},
			{
				Name:  "edit",
				Usage: "Replace an existing song or chant",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  musicWriteFlags(),
				Action: r.MusicEdit,
			},
			{
				Name:  "delete",
				Usage: "Delete a song or chant",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.MusicDelete,
			},
		},
	}
}

func musicWriteFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "title",
			Usage:    "Item title",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "type",
			Usage:    "Item type (" + strings.Join(models.MusicTypes(), ", ") + ")",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "lyrics",
			Usage: "Lyrics text",
		},
		&cli.StringFlag{
			Name:  "category",
			Usage: "Category (" + strings.Join(models.MusicCategories(), ", ") + ")",
		},
		&cli.IntFlag{
			Name:  "difficulty",
			Usage: "Difficulty (1-3)",
		},
		&cli.StringFlag{
			Name:  "web-link",
			Usage: "External web link",
		},
		&cli.StringFlag{
			Name:  "audio",
			Usage: "Path to an audio file to upload",
		},
		&cli.StringFlag{
			Name:  "video",
			Usage: "Path to a video file to upload",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output the saved item as JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
		},
	}
}

// scoutsCommand handles the scouting techniques collection.
func scoutsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "scouts",
		Aliases: []string{"techniques"},
		Usage:   "Browse and manage scouting techniques",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List techniques, optionally scoped to a category slug",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "category"},
				},
				Flags:  listFlags(),
				Action: r.ScoutList,
			},
			{
				Name:   "add",
				Usage:  "Create a new technique",
				Flags:  scoutWriteFlags(),
				Action: r.ScoutAdd,
			},
			{
				Name:  "edit",
				Usage: "Replace an existing technique",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  scoutWriteFlags(),
				Action: r.ScoutEdit,
			},
			{
				Name:  "delete",
				Usage: "Delete a technique",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.ScoutDelete,
			},
		},
	}
}

func scoutWriteFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "name",
			Usage:    "Technique name",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "type",
			Usage:    "Technique type (" + strings.Join(models.ScoutTypes(), ", ") + ")",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "category",
			Usage: "Category (" + strings.Join(models.ScoutCategories(), ", ") + ")",
		},
		&cli.IntFlag{
			Name:  "difficulty",
			Usage: "Difficulty (1-3)",
		},
		&cli.StringFlag{
			Name:  "usage",
			Usage: "Usage notes",
		},
		&cli.StringFlag{
			Name:  "youtube-link",
			Usage: "YouTube link",
		},
		&cli.StringFlag{
			Name:  "model-3d",
			Usage: "3D model link",
		},
		&cli.StringFlag{
			Name:  "picture",
			Usage: "Path to a picture to upload",
		},
		&cli.StringFlag{
			Name:  "video",
			Usage: "Path to a video file to upload",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output the saved item as JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
		},
	}
}

// syncCommand handles pulling remote listings into the local cache.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Pull content listings into the local cache",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "resource",
				Aliases: []string{"r"},
				Usage:   "Resource to sync (music, scouts or all)",
				Value:   "all",
			},
			&cli.BoolFlag{
				Name:  "replace",
				Usage: "Clear cached rows for each resource before writing",
			},
			&cli.IntFlag{
				Name:  "rate",
				Usage: "Maximum listing requests per second",
				Value: 5,
			},
		},
		Action: r.SyncRun,
	}
}

// exportCommand handles writing listings to disk.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export content listings to files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "resource",
				Aliases: []string{"r"},
				Usage:   "Resource to export (music, scouts or all)",
				Value:   "all",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format (json, csv, markdown, txt)",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent export writers",
				Value: 2,
			},
			&cli.BoolFlag{
				Name:  "cached",
				Usage: "Export from the local cache instead of the server",
			},
			&cli.StringFlag{
				Name:    "search",
				Aliases: []string{"s"},
				Usage:   "Substring match applied to each listing fetch",
			},
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Type filter applied to each listing fetch",
			},
			&cli.StringFlag{
				Name:  "category",
				Usage: "Category filter applied to each listing fetch",
			},
			&cli.IntFlag{
				Name:    "difficulty",
				Aliases: []string{"d"},
				Usage:   "Difficulty filter applied to each listing fetch",
			},
			&cli.IntFlag{
				Name:  "rate",
				Usage: "Maximum listing requests per second",
				Value: 5,
			},
		},
		Action: r.ExportRun,
	}
}

// tuiCommand launches the interactive terminal browser.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive media library browser",
		Action: r.TUI,
	}
}
