package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/gamelistedit/gamelistedit/internal/gamelist"
	"github.com/gamelistedit/gamelistedit/internal/journal"
	"github.com/gamelistedit/gamelistedit/internal/progress"
	"github.com/gamelistedit/gamelistedit/internal/storage"
)

func newHistoryCmd(e env, root *flags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history <target>",
		Short: "List the journaled exports of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}
			if cfg.JournalPath == "" {
				return fmt.Errorf("no journal configured, use --journal or GAMELISTEDIT_JOURNAL_PATH")
			}
			j, err := journal.Open(cfg.JournalPath)
			if err != nil {
				return err
			}
			defer j.Close()

			target, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			entries, err := j.History(cmd.Context(), target, limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tFORMAT\tROWS\tBYTES\tCHECKSUM\tBACKUP")
			for _, en := range entries {
				backup := en.Backup
				if backup == "" {
					backup = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n",
					en.CreatedAt.Local().Format(time.DateTime), en.Format, en.Rows, en.Bytes, en.Checksum, backup)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of entries, 0 for all")
	return cmd
}

func newRestoreCmd(e env) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore a file from its backup",
		Long:  "restore decompresses <file>" + storage.BackupSuffix + " back into <file>, or into --output.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.NewLocalStorage(e.fs)
			data, err := st.Restore(cmd.Context(), args[0]+storage.BackupSuffix)
			if err != nil {
				return err
			}
			dst := output
			if dst == "" {
				dst = args[0]
			}
			if err := st.WriteFile(cmd.Context(), dst, data); err != nil {
				return err
			}
			fmt.Fprintf(e.stdout, "restored %s (%d bytes)\n", dst, len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the restored content here instead")
	return cmd
}

func newGenresCmd(e env, root *flags) *cobra.Command {
	var groups bool
	cmd := &cobra.Command{
		Use:   "genres <gamelist>",
		Short: "List the distinct genres of a gamelist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("groups") {
				groups = cfg.GenreGroups
			}
			doc, err := gamelist.Load(cmd.Context(), e.fs, args[0], cfg.Schema(), progress.Nop{})
			if err != nil {
				return err
			}
			if g := doc.Genres(groups); len(g) > 0 {
				fmt.Fprintln(e.stdout, strings.Join(g, "\n"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&groups, "groups", false, "keep A/B genres as one entry")
	return cmd
}
