package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/charforge/pkg/cli/config"
	"github.com/secmon-lab/charforge/pkg/domain/interfaces"
	"github.com/secmon-lab/charforge/pkg/domain/model"
	"github.com/secmon-lab/charforge/pkg/domain/types"
	"github.com/secmon-lab/charforge/pkg/usecase"
	"github.com/secmon-lab/charforge/pkg/utils/logging"
	"github.com/secmon-lab/charforge/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	keyColor  = color.New(color.FgCyan, color.Bold)
)

// session is one command invocation's view of the persisted character
type session struct {
	uc      *usecase.CharacterUseCase
	storage interfaces.Storage
	out     io.Writer
}

func (s *session) Close(ctx context.Context) {
	safe.Close(ctx, s.storage)
}

// openSession opens storage and restores the persisted state. An unreadable
// state is reported and the command continues with the default fields.
func openSession(ctx context.Context, c *cli.Command, storageCfg *config.Storage, opts ...usecase.Option) (*session, error) {
	storage, err := storageCfg.Configure(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize storage")
	}

	uc := usecase.New(storage, opts...).Character
	s := &session{uc: uc, storage: storage, out: c.Root().Writer}

	issues, err := uc.Load(ctx)
	if err != nil {
		logging.From(ctx).Warn("failed to load saved character, starting from defaults", "error", err)
		warnColor.Fprintf(s.out, "warning: saved data could not be loaded (%s)\n", err.Error())
	}
	for _, issue := range issues {
		warnColor.Fprintf(s.out, "warning: dropped saved entry %s %q: %s\n", issue.Key, issue.Value, issue.Reason)
	}

	return s, nil
}

func requireArgs(c *cli.Command, n int, usage string) error {
	if c.NArg() < n {
		return goerr.Wrap(model.ErrValidation, "missing arguments", goerr.V("usage", c.FullName()+" "+usage))
	}
	return nil
}

func cmdField(storageCfg *config.Storage) *cli.Command {
	var customOnly bool

	return &cli.Command{
		Name:  "field",
		Usage: "Manage character fields",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a custom field",
				ArgsUsage: "<key> <name>",
				Action: func(ctx context.Context, c *cli.Command) error {
					if err := requireArgs(c, 2, "<key> <name>"); err != nil {
						return err
					}
					s, err := openSession(ctx, c, storageCfg)
					if err != nil {
						return err
					}
					defer s.Close(ctx)

					name := strings.Join(c.Args().Slice()[1:], " ")
					f, err := s.uc.AddField(ctx, types.FieldKey(c.Args().Get(0)), name)
					if err != nil {
						return err
					}
					okColor.Fprintf(s.out, "added field %s (%s)\n", f.Key, f.Name)
					return nil
				},
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a custom field with its values and selection",
				ArgsUsage: "<key>",
				Action: func(ctx context.Context, c *cli.Command) error {
					if err := requireArgs(c, 1, "<key>"); err != nil {
						return err
					}
					s, err := openSession(ctx, c, storageCfg)
					if err != nil {
						return err
					}
					defer s.Close(ctx)

					key := types.FieldKey(c.Args().Get(0))
					if err := s.uc.DeleteField(ctx, key); err != nil {
						return err
					}
					okColor.Fprintf(s.out, "deleted field %s\n", key)
					return nil
				},
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List fields and their values",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "custom",
						Usage:       "Only show deletable custom fields",
						Destination: &customOnly,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					s, err := openSession(ctx, c, storageCfg)
					if err != nil {
						return err
					}
					defer s.Close(ctx)

					fields := s.uc.Fields()
					if customOnly {
						fields = s.uc.DeletableFields()
					}
					selection := s.uc.Selection()
					for _, f := range fields {
						printField(s.out, f, selection.Value(f.Key))
					}
					return nil
				},
			},
		},
	}
}

func printField(w io.Writer, f *model.FieldDefinition, selected string) {
	kind := "default"
	if !f.IsDefault {
		kind = "custom"
	}
	keyColor.Fprintf(w, "%s", f.Key)
	fmt.Fprintf(w, " (%s, %s)\n", f.Name, kind)
	for _, v := range f.Values {
		marker := " "
		if v == selected {
			marker = "*"
		}
		fmt.Fprintf(w, "  %s %s\n", marker, v)
	}
}

func cmdValue(storageCfg *config.Storage) *cli.Command {
	return &cli.Command{
		Name:  "value",
		Usage: "Manage values of a field",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a value to a field",
				ArgsUsage: "<key> <value>",
				Action: func(ctx context.Context, c *cli.Command) error {
					if err := requireArgs(c, 2, "<key> <value>"); err != nil {
						return err
					}
					s, err := openSession(ctx, c, storageCfg)
					if err != nil {
						return err
					}
					defer s.Close(ctx)

					key := types.FieldKey(c.Args().Get(0))
					value := strings.Join(c.Args().Slice()[1:], " ")
					if err := s.uc.AddValue(ctx, key, value); err != nil {
						return err
					}
					okColor.Fprintf(s.out, "added %q to %s\n", value, key)
					return nil
				},
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a value you added",
				ArgsUsage: "<key> <value>",
				Action: func(ctx context.Context, c *cli.Command) error {
					if err := requireArgs(c, 2, "<key> <value>"); err != nil {
						return err
					}
					s, err := openSession(ctx, c, storageCfg)
					if err != nil {
						return err
					}
					defer s.Close(ctx)

					key := types.FieldKey(c.Args().Get(0))
					value := strings.Join(c.Args().Slice()[1:], " ")
					if err := s.uc.DeleteValue(ctx, key, value); err != nil {
						return err
					}
					okColor.Fprintf(s.out, "deleted %q from %s\n", value, key)
					return nil
				},
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List deletable values, for one field or all fields",
				Action: func(ctx context.Context, c *cli.Command) error {
					s, err := openSession(ctx, c, storageCfg)
					if err != nil {
						return err
					}
					defer s.Close(ctx)

					fields := s.uc.FieldsWithCustomValues()
					if c.NArg() > 0 {
						f, err := s.uc.Field(types.FieldKey(c.Args().Get(0)))
						if err != nil {
							return err
						}
						fields = []*model.FieldDefinition{f}
					}
					for _, f := range fields {
						values, err := s.uc.CustomValues(f.Key)
						if err != nil {
							return err
						}
						keyColor.Fprintf(s.out, "%s", f.Key)
						fmt.Fprintf(s.out, ": %s\n", strings.Join(values, ", "))
					}
					return nil
				},
			},
		},
	}
}

func cmdSelect(storageCfg *config.Storage) *cli.Command {
	return &cli.Command{
		Name:      "select",
		Usage:     "Select a value for a field, omit the value to clear it",
		ArgsUsage: "<key> [value]",
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := requireArgs(c, 1, "<key> [value]"); err != nil {
				return err
			}
			s, err := openSession(ctx, c, storageCfg)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			key := types.FieldKey(c.Args().Get(0))
			value := strings.Join(c.Args().Slice()[1:], " ")
			if err := s.uc.Select(ctx, key, value); err != nil {
				return err
			}
			if value == "" {
				okColor.Fprintf(s.out, "cleared %s\n", key)
			} else {
				okColor.Fprintf(s.out, "selected %s = %s\n", key, value)
			}
			return nil
		},
	}
}

func cmdRender(storageCfg *config.Storage) *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "Print the prompt for the current selection",
		Action: func(ctx context.Context, c *cli.Command) error {
			s, err := openSession(ctx, c, storageCfg)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			fmt.Fprintln(s.out, s.uc.Prompt())
			return nil
		},
	}
}

func cmdGenerate(storageCfg *config.Storage) *cli.Command {
	var captureCfg config.Capture
	var speak bool

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "speak",
			Usage:       "Ask the capture backend to narrate the result",
			Destination: &speak,
		},
	}
	flags = append(flags, captureCfg.Flags()...)

	return &cli.Command{
		Name:  "generate",
		Usage: "Render the prompt and send it to the capture backend",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			capturer, err := captureCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure capture")
			}

			var opts []usecase.Option
			if capturer != nil {
				opts = append(opts, usecase.WithCapturer(capturer))
			}
			s, err := openSession(ctx, c, storageCfg, opts...)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			gen, err := s.uc.Generate(ctx, speak)
			if err != nil {
				return err
			}

			if !gen.Captured {
				warnColor.Fprintf(s.out, "capture unavailable (%s), prompt:\n", gen.Reason)
				fmt.Fprintln(s.out, gen.Prompt)
				return nil
			}
			fmt.Fprintln(s.out, gen.Output)
			return nil
		},
	}
}

func cmdImport(storageCfg *config.Storage) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import fields and values from a TOML catalog",
		ArgsUsage: "<catalog.toml>",
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := requireArgs(c, 1, "<catalog.toml>"); err != nil {
				return err
			}
			catalog, err := config.LoadCatalog(c.Args().Get(0))
			if err != nil {
				return err
			}

			s, err := openSession(ctx, c, storageCfg)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			result, err := s.uc.ImportCatalog(ctx, catalog.ToFieldDefinitions())
			if err != nil {
				return err
			}
			for _, w := range result.Warnings {
				warnColor.Fprintf(s.out, "skipped: %s\n", w)
			}
			okColor.Fprintf(s.out, "imported %d fields, %d values\n", result.AddedFields, result.AddedValues)
			return nil
		},
	}
}
