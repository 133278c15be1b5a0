package main

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/fsentity/pkg/entity"
)

func (a *app) newRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename PATH NAME",
		Short: "Rename a file or directory in place",
		Long: `Rename PATH to NAME inside the same parent directory. A file keeps
its extension when NAME has none.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := entity.Open(args[0], a.options()...)
			if err != nil {
				return err
			}
			if err := e.Rename(args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.Path())
			return nil
		},
	}
}

func (a *app) newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete PATH",
		Aliases: []string{"rm"},
		Short:   "Delete a file or directory tree, including read-only entries",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := entity.Open(args[0], a.options()...)
			if err != nil {
				return err
			}
			return e.Delete()
		},
	}
}

// statOutput is the --json form of stat.
type statOutput struct {
	Path        string    `json:"path"`
	Name        string    `json:"name"`
	Kind        string    `json:"kind"`
	Size        int64     `json:"size"`
	Permissions string    `json:"permissions"`
	ReadOnly    bool      `json:"read_only"`
	Modified    time.Time `json:"modified"`
	ContentType string    `json:"content_type,omitempty"`
}

func (a *app) newStatCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stat PATH",
		Short: "Show metadata for a file or directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := entity.Open(args[0], a.options()...)
			if err != nil {
				return err
			}
			out, err := stat(e)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				data, err := sonic.MarshalIndent(out, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode stat: %w", err)
				}
				fmt.Fprintln(w, string(data))
				return nil
			}

			fmt.Fprintf(w, "path:        %s\n", out.Path)
			fmt.Fprintf(w, "kind:        %s\n", out.Kind)
			fmt.Fprintf(w, "size:        %d\n", out.Size)
			fmt.Fprintf(w, "permissions: %s\n", out.Permissions)
			fmt.Fprintf(w, "read-only:   %t\n", out.ReadOnly)
			fmt.Fprintf(w, "modified:    %s\n", out.Modified.Format(time.RFC3339))
			if out.ContentType != "" {
				fmt.Fprintf(w, "type:        %s\n", out.ContentType)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func stat(e entity.Entity) (statOutput, error) {
	info, err := e.Metadata()
	if err != nil {
		return statOutput{}, err
	}
	perm, err := e.Permissions()
	if err != nil {
		return statOutput{}, err
	}
	readOnly, err := e.ReadOnly()
	if err != nil {
		return statOutput{}, err
	}
	out := statOutput{
		Path:        e.Path(),
		Name:        e.Name(),
		Kind:        e.Kind().String(),
		Size:        e.Size(),
		Permissions: perm.String(),
		ReadOnly:    readOnly,
		Modified:    info.ModTime(),
	}
	if f, ok := e.(*entity.File); ok {
		out.ContentType = f.ContentType()
	}
	return out, nil
}

func (a *app) newSizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "size PATH",
		Short: "Print the size in bytes of a file or the sum of a directory tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := entity.Open(args[0], a.options()...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.Size())
			return nil
		},
	}
}

func (a *app) newLsCmd() *cobra.Command {
	var pattern string
	cmd := &cobra.Command{
		Use:   "ls PATH",
		Short: "List the entries of a directory",
		Long: `List the direct children of PATH. With --glob, list every file below
PATH whose relative path matches the pattern (** crosses directories).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := entity.OpenDirectory(args[0], a.options()...)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			if pattern != "" {
				files, err := dir.Glob(pattern)
				if err != nil {
					return err
				}
				for _, f := range files {
					fmt.Fprintln(w, f.Path())
				}
				return nil
			}

			children, err := dir.Children()
			if err != nil {
				return err
			}
			for _, child := range children {
				e, err := entity.Open(child, a.options()...)
				if err != nil {
					// Raced with a concurrent delete.
					continue
				}
				mode := fs.FileMode(0)
				if perm, err := e.Permissions(); err == nil {
					mode = perm
				}
				name := e.Name()
				if e.Kind() == entity.KindDirectory {
					name += "/"
				}
				fmt.Fprintf(w, "%s %12d %s\n", mode, e.Size(), name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pattern, "glob", "", "doublestar pattern relative to PATH")
	return cmd
}
