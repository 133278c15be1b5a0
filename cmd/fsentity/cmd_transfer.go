package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/fsentity/internal/infrastructure/config"
	"github.com/GriffinCanCode/fsentity/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/fsentity/pkg/entity"
	"github.com/GriffinCanCode/fsentity/pkg/entity/async"
)

type transferFlags struct {
	into       bool
	onConflict string
}

func (a *app) newCopyCmd() *cobra.Command {
	var flags transferFlags
	cmd := &cobra.Command{
		Use:   "copy SRC DST",
		Short: "Copy a file or directory tree to DST",
		Long: `Copy SRC to exactly DST, or into the directory DST with --into.
Directories are copied recursively and merged into an existing DST.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.transfer(cmd, entity.OpCopy, args[0], args[1], flags)
		},
	}
	addTransferFlags(cmd, &flags)
	return cmd
}

func (a *app) newMoveCmd() *cobra.Command {
	var flags transferFlags
	cmd := &cobra.Command{
		Use:   "move SRC DST",
		Short: "Move a file or directory tree to DST",
		Long: `Move SRC to exactly DST, or into the directory DST with --into.
A rename is tried first; across filesystems the tree is copied and the
source removed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.transfer(cmd, entity.OpMove, args[0], args[1], flags)
		},
	}
	addTransferFlags(cmd, &flags)
	return cmd
}

func addTransferFlags(cmd *cobra.Command, flags *transferFlags) {
	cmd.Flags().BoolVar(&flags.into, "into", false, "treat DST as a directory and keep the source name")
	cmd.Flags().StringVar(&flags.onConflict, "on-conflict", "", "replace or fail when DST exists (default from config)")
}

func (a *app) transfer(cmd *cobra.Command, op entity.Op, src, dst string, flags transferFlags) error {
	policy := a.cfg.Transfer.OnConflict
	if flags.onConflict != "" {
		policy = flags.onConflict
	}
	if policy != config.OnConflictReplace && policy != config.OnConflictFail {
		return fmt.Errorf("--on-conflict must be %q or %q", config.OnConflictReplace, config.OnConflictFail)
	}

	e, err := entity.Open(src, a.options()...)
	if err != nil {
		return err
	}

	timer := monitoring.NewTimer(a.metrics, string(op))
	err = a.runTransfer(cmd, e, op, dst, flags.into)
	if conflict, ok := entity.AsConflict(err); ok {
		if policy == config.OnConflictFail {
			err = fmt.Errorf("%w (rerun with --on-conflict=replace to overwrite)", conflict)
		} else {
			a.logger.Info("destination exists, replacing",
				zap.String("status", conflict.Status.String()),
				zap.String("destination", conflict.Destination),
			)
			_, err = async.Recover(conflict).Wait(cmd.Context())
		}
	}
	timer.Stop(err)
	if err != nil {
		return err
	}

	target, err := transferTarget(e, op, dst, flags.into)
	if err != nil {
		return err
	}

	snap := a.metrics.Snapshot()
	a.logger.Debug("transfer finished",
		zap.String("op", string(op)),
		zap.Int64("files", snap.FilesTransferred),
		zap.Int64("bytes", snap.BytesTransferred),
		zap.Int64("conflicts", snap.Conflicts),
	)
	fmt.Fprintln(cmd.OutOrStdout(), target)
	return nil
}

// transferTarget is where src ends up. A moved entity already points there.
func transferTarget(e entity.Entity, op entity.Op, dst string, into bool) (string, error) {
	if op == entity.OpMove {
		return e.Path(), nil
	}
	target, err := entity.Normalize(dst)
	if err != nil {
		return "", err
	}
	if into {
		target = filepath.Join(target, e.Name())
	}
	return target, nil
}

// runTransfer runs the operation as a task. Cancelling the command context,
// which main does on SIGINT and SIGTERM, ends the wait early; work already
// done is not rolled back.
func (a *app) runTransfer(cmd *cobra.Command, e entity.Entity, op entity.Op, dst string, into bool) error {
	if err := cmd.Context().Err(); err != nil {
		return err
	}

	var fn func(string) error
	switch {
	case op == entity.OpCopy && into:
		fn = e.CopyTo
	case op == entity.OpCopy:
		fn = e.CopyNew
	case into:
		fn = e.MoveTo
	default:
		fn = e.MoveNew
	}

	task := async.Run(async.Default(), string(op), func() (struct{}, error) {
		return struct{}{}, fn(dst)
	})
	_, err := task.Wait(cmd.Context())
	return err
}
