package commands

import (
	"github.com/spf13/cobra"

	"husky/internal/storage"
	"husky/internal/ui"
)

// FailuresCommand handles the failures command
type FailuresCommand struct {
	commands  *Commands
	newViewer func(st storage.Storage) ui.Viewer
}

// Execute runs the command
func (fc *FailuresCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg, err := fc.commands.loadConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.NewJSONStorage(cfg)
	results, err := st.Load()
	if err != nil {
		return err
	}

	return fc.newViewer(st).View(results)
}
