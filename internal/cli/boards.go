package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"tabula/pkg/board"
	"tabula/pkg/store"
)

// boardsCommand creates the boards command group.
func (c *CLI) boardsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boards",
		Short: "List boards in the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBoardsList(cmd)
		},
	}

	cmd.AddCommand(c.boardsImportCommand())

	return cmd
}

// runBoardsList prints a table of boards with live item counts.
func (c *CLI) runBoardsList(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(ctx, cfg.Store.DSN)
	if err != nil {
		return err
	}
	defer st.Close()

	boardIDs, err := st.ListBoards(ctx)
	if err != nil {
		return err
	}
	if len(boardIDs) == 0 {
		printInfo("No boards yet")
		printNextStep("Create one", "tabula edit my-board")
		return nil
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, 0, len(boardIDs))
	for _, id := range boardIDs {
		items, err := st.ListItems(ctx, id)
		if err != nil {
			return fmt.Errorf("load board %s: %w", id, err)
		}
		live, frames := 0, 0
		for i := range items {
			if items[i].Deleted {
				continue
			}
			live++
			if items[i].Type == board.TypeFrame {
				frames++
			}
		}
		rows = append(rows, []string{id, fmt.Sprintf("%d", live), fmt.Sprintf("%d", frames)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Board", "Items", "Frames").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return StyleValue
			}
			return StyleDim
		})

	fmt.Println(t.Render())
	return nil
}

// boardsImportCommand creates the "boards import" subcommand, loading a
// snapshot file into the store.
func (c *CLI) boardsImportCommand() *cobra.Command {
	var boardID string

	cmd := &cobra.Command{
		Use:   "import <snapshot.json>",
		Short: "Import a board snapshot into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			snap, err := board.ReadSnapshot(f)
			if err != nil {
				return err
			}
			if boardID == "" {
				boardID = snap.BoardID
			}
			if boardID == "" {
				boardID = strings.TrimSuffix(filepath.Base(args[0]), ".json")
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			st, err := store.Open(ctx, cfg.Store.DSN)
			if err != nil {
				return err
			}
			defer st.Close()

			p := newProgress(logger)
			imported, skipped := 0, 0
			for i := range snap.Items {
				if err := st.CreateItem(ctx, boardID, snap.Items[i]); err != nil {
					logger.Debug("skipping item", "id", snap.Items[i].ID, "err", err)
					skipped++
					continue
				}
				imported++
			}
			p.done(fmt.Sprintf("Imported %d items into %s", imported, boardID))
			if skipped > 0 {
				printWarning("Skipped %d items that already exist", skipped)
			}
			printNextStep("Open it", "tabula edit "+boardID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&boardID, "board", "b", "", "target board id (default from the snapshot)")

	return cmd
}
