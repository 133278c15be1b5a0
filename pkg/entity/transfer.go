package entity

import (
	"fmt"

	"go.uber.org/zap"
)

type transferMode int

const (
	modeCopy transferMode = iota
	modeMove
)

func (m transferMode) op() Op {
	if m == modeMove {
		return OpMove
	}
	return OpCopy
}

// transfer walks src breadth first and recreates it under dst. Files that
// collide with existing ones are replaced, existing directories are merged.
// In move mode the emptied source tree is removed at the end.
func transfer(src *Directory, dst string, mode transferMode) error {
	o := src.opts
	queue := []*Directory{src}

	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		subdirs, err := dir.Directories()
		if err != nil {
			return fmt.Errorf("list '%s': %w", dir.path, err)
		}
		queue = append(queue, subdirs...)

		target := Rebase(dir.path, src.path, dst)
		if !o.isDir(target) {
			if err := o.backend.MkdirAll(target, dirPerm); err != nil {
				return err
			}
		}

		files, err := dir.Files()
		if err != nil {
			return fmt.Errorf("list '%s': %w", dir.path, err)
		}
		for _, f := range files {
			var err error
			if mode == modeMove {
				err = f.MoveTo(target)
			} else {
				err = f.CopyTo(target)
			}
			if err := Recover(err); err != nil {
				return err
			}
		}

		o.logger.Debug("transferred directory",
			zap.String("op", string(mode.op())),
			zap.String("path", dir.path),
			zap.String("destination", target),
			zap.Int("files", len(files)),
		)
	}

	if mode == modeMove {
		return o.remove(src.path)
	}
	return nil
}
