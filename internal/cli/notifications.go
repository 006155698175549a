package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var notifCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Manage notifications",
}

var notifListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications",
	RunE:  runNotifList,
}

var notifReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotifRead,
}

var notifClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all notifications",
	RunE:  runNotifClear,
}

func init() {
	rootCmd.AddCommand(notifCmd)
	notifCmd.AddCommand(notifListCmd)
	notifCmd.AddCommand(notifReadCmd)
	notifCmd.AddCommand(notifClearCmd)

	notifListCmd.Flags().Bool("unread", false, "Only show unread notifications")
	notifReadCmd.Flags().Bool("undo", false, "Mark as unread instead")
}

func runNotifList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	unreadOnly, _ := cmd.Flags().GetBool("unread")

	t, store, err := initTracker(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	notifs, err := t.Notifications(cmd.Context(), ownerID(cfg))
	if err != nil {
		return fmt.Errorf("list notifications: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tWHEN\tTYPE\tREAD\tTITLE\tMESSAGE\n")
	shown := 0
	for _, n := range notifs {
		if unreadOnly && n.Read {
			continue
		}
		read := " "
		if n.Read {
			read = "x"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			n.ID, n.CreatedAt.Format("2006-01-02 15:04"), n.Type, read, n.Title, n.Message)
		shown++
	}
	w.Flush()

	if shown == 0 {
		fmt.Println("No notifications.")
	}
	return nil
}

func runNotifRead(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	undo, _ := cmd.Flags().GetBool("undo")

	t, store, err := initTracker(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := t.MarkNotificationRead(cmd.Context(), ownerID(cfg), args[0], !undo); err != nil {
		return fmt.Errorf("mark notification: %w", err)
	}
	return nil
}

func runNotifClear(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	t, store, err := initTracker(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := t.ResetNotifications(cmd.Context(), ownerID(cfg)); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	fmt.Println("All notifications deleted.")
	return nil
}
