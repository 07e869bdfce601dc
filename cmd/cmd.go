// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for the local catalog.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize the upload-history database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Create a config.toml from the embedded template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path for the new configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// authCommand handles authentication against the CMS.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage CMS authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authenticate with the CMS using OAuth2",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check current authentication state (calls /health)",
				Action: r.AuthStatus,
			},
			{
				Name:  "session",
				Usage: "Import a browser session from a cURL command (Copy as cURL)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Output path for session.json (default: ~/.lectern/session.json)",
					},
				},
				Action: r.AuthSession,
			},
		},
	}
}

// browseJSONFlags returns fresh output flags for one browse subcommand.
func browseJSONFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

// browseCommand handles read-only curriculum hierarchy traversal.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "browse",
		Aliases: []string{"ls"},
		Usage:   "Browse the curriculum hierarchy",
		Commands: []*cli.Command{
			{
				Name:   "classes",
				Usage:  "List top-level classes",
				Flags:  browseJSONFlags(),
				Action: r.BrowseClasses,
			},
			{
				Name:  "subjects",
				Usage: "List subjects under a class",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "class-id"},
				},
				Flags:  browseJSONFlags(),
				Action: r.BrowseSubjects,
			},
			{
				Name:  "units",
				Usage: "List units under a subject",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "subject-id"},
				},
				Flags:  browseJSONFlags(),
				Action: r.BrowseUnits,
			},
			{
				Name:  "subunits",
				Usage: "List sub-units under a unit",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "unit-id"},
				},
				Flags:  browseJSONFlags(),
				Action: r.BrowseSubUnits,
			},
			{
				Name:  "lessons",
				Usage: "List lessons under a sub-unit",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "subunit-id"},
				},
				Flags:  browseJSONFlags(),
				Action: r.BrowseLessons,
			},
			{
				Name:  "contents",
				Usage: "List content items attached to a lesson",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "lesson-id"},
				},
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "manifest",
						Usage: "Write a markdown manifest of the lesson to this directory",
					},
				}, browseJSONFlags()...),
				Action: r.BrowseContents,
			},
		},
	}
}

// uploadCommand handles enqueueing and draining uploads.
func uploadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "upload",
		Aliases: []string{"up"},
		Usage:   "Upload content to the CMS",
		Commands: []*cli.Command{
			{
				Name:  "file",
				Usage: "Upload a single file to a lesson",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "lesson",
						Aliases:  []string{"l"},
						Usage:    "Lesson ID the content attaches to",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "category",
						Usage:    "Content category (book, worksheet, slide, exam, audio, video)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Display title (default: file name without extension)",
					},
					&cli.StringFlag{
						Name:  "folder",
						Usage: "Sub-folder for server-stored categories",
					},
					&cli.StringFlag{
						Name:  "exam-kind",
						Usage: "Exam kind metadata (exam category only)",
					},
					&cli.StringFlag{
						Name:  "manifest",
						Usage: "Write a CSV summary of this run to {base}_history.csv",
					},
				},
				Action: r.UploadFile,
			},
			{
				Name:  "dir",
				Usage: "Upload every usable file in a directory to a lesson",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "lesson",
						Aliases:  []string{"l"},
						Usage:    "Lesson ID the content attaches to",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Force one category for every file (default: infer per file)",
					},
					&cli.StringFlag{
						Name:  "folder",
						Usage: "Sub-folder for server-stored categories",
					},
					&cli.StringFlag{
						Name:  "manifest",
						Usage: "Write a CSV summary of this run to {base}_history.csv",
					},
				},
				Action: r.UploadDir,
			},
		},
	}
}

// historyCommand handles the local upload-history catalog.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect and export the local upload history",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded uploads",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "lesson",
						Usage: "Filter by lesson ID",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Filter by content category",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "export",
				Usage: "Export the upload history to CSV or plain text",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format (csv or text)",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output base path",
					},
					&cli.StringFlag{
						Name:  "lesson",
						Usage: "Filter by lesson ID",
					},
				},
				Action: r.HistoryExport,
			},
		},
	}
}

// apiCommand handles direct API calls to the CMS.
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the CMS",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the CMS, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive queue monitoring.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive upload queue monitor",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "lesson",
				Aliases: []string{"l"},
				Usage:   "Lesson ID the content attaches to",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Directory to bulk-enqueue before launching",
			},
			&cli.StringFlag{
				Name:  "category",
				Usage: "Force one category for every file (default: infer per file)",
			},
			&cli.StringFlag{
				Name:  "folder",
				Usage: "Sub-folder for server-stored categories",
			},
		},
		Action: r.TUI,
	}
}
