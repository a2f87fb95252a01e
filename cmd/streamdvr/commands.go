package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"streamdvr/pkg/types"
)

// printRaw writes the untouched JSON reply when --json is set.
func printRaw(w io.Writer, c *client, b []byte) bool {
	if !c.raw {
		return false
	}
	fmt.Fprintln(w, strings.TrimSpace(string(b)))
	return true
}

func newStatusCmd(cl func() *client) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of every registered streamer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cl()
			var st types.StatusResponse
			b, err := c.do(cmd.Context(), http.MethodGet, "/status", nil, &st)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if printRaw(out, c, b) {
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSTATUS\tQUALITY\tMANUAL\tDETAIL")
			for _, s := range st.Streamers {
				detail := s.Detail
				if s.Capture != nil {
					detail = s.Capture.OutputPath
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", s.Name, s.Label, s.Quality, s.Manual, detail)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nactive captures: %d  passes: %d  manual mode: %t\n",
				st.ActiveCaptures, st.Passes, st.ManualModeGlobal)
			return nil
		},
	}
}

func newAddCmd(cl func() *client) *cobra.Command {
	var req types.AddStreamerRequest
	cmd := &cobra.Command{
		Use:     "add NAME",
		Short:   "Register a streamer (or update its preferences)",
		Example: "  streamdvr add alice --quality 720p60 --manual",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cl()
			req.Name = args[0]
			var s types.Streamer
			b, err := c.do(cmd.Context(), http.MethodPost, "/streamers", req, &s)
			if err != nil {
				return err
			}
			if !printRaw(cmd.OutOrStdout(), c, b) {
				fmt.Fprintf(cmd.OutOrStdout(), "added %s (quality %s, format %s, manual %t)\n", s.Name, s.Quality, s.Format, s.Manual)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Quality, "quality", "", "Preferred quality (default best)")
	cmd.Flags().StringVar(&req.Format, "format", "", "Container format (default mp4)")
	cmd.Flags().BoolVar(&req.Manual, "manual", false, "Wait for confirmation before recording")
	return cmd
}

// simpleCommand builds a NAME-taking command that POSTs or DELETEs and
// prints a short acknowledgement.
func simpleCommand(cl func() *client, use, short, method, suffix, done string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " NAME",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cl()
			b, err := c.do(cmd.Context(), method, streamerPath(args[0], suffix), nil, nil)
			if err != nil {
				return err
			}
			if !printRaw(cmd.OutOrStdout(), c, b) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", done, args[0])
			}
			return nil
		},
	}
}

func newRemoveCmd(cl func() *client) *cobra.Command {
	return simpleCommand(cl, "remove", "Unregister a streamer and stop its capture", http.MethodDelete, "", "removed")
}

func newStopCmd(cl func() *client) *cobra.Command {
	return simpleCommand(cl, "stop", "Stop the running capture of a streamer", http.MethodPost, "/stop", "stopped")
}

func newRecordCmd(cl func() *client) *cobra.Command {
	return simpleCommand(cl, "record", "Start recording a streamer that is waiting for confirmation", http.MethodPost, "/record", "recording")
}

func newQualitiesCmd(cl func() *client) *cobra.Command {
	return &cobra.Command{
		Use:   "qualities NAME",
		Short: "List the qualities a live streamer offers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cl()
			var q types.QualitiesResponse
			b, err := c.do(cmd.Context(), http.MethodGet, streamerPath(args[0], "/qualities"), nil, &q)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if printRaw(out, c, b) {
				return nil
			}
			switch q.Status {
			case "online":
				fmt.Fprintln(out, strings.Join(q.Qualities, "\n"))
			case "error":
				return fmt.Errorf("probe failed: %s", q.Message)
			default:
				fmt.Fprintf(out, "%s is %s\n", args[0], q.Status)
			}
			return nil
		},
	}
}

func newConfigCmd(cl func() *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the global settings",
	}
	show := func(out io.Writer, c *client, s types.Settings, b []byte) {
		if printRaw(out, c, b) {
			return
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "output_dir\t%s\n", s.OutputDir)
		fmt.Fprintf(tw, "check_interval\t%d\n", s.CheckInterval)
		fmt.Fprintf(tw, "filename_format\t%s\n", s.FilenameFormat)
		fmt.Fprintf(tw, "theme\t%s\n", s.Theme)
		fmt.Fprintf(tw, "manual_mode_global\t%t\n", s.ManualModeGlobal)
		_ = tw.Flush()
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Print the global settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cl()
			var s types.Settings
			b, err := c.do(cmd.Context(), http.MethodGet, "/config", nil, &s)
			if err != nil {
				return err
			}
			show(cmd.OutOrStdout(), c, s, b)
			return nil
		},
	}

	var (
		outputDir, filenameFormat, theme string
		checkInterval                    int
		manual                           bool
	)
	set := &cobra.Command{
		Use:     "set",
		Short:   "Change one or more global settings",
		Example: "  streamdvr config set --check-interval 30 --manual-mode=false",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var p types.SettingsPatch
			f := cmd.Flags()
			if f.Changed("output-dir") {
				p.OutputDir = &outputDir
			}
			if f.Changed("check-interval") {
				p.CheckInterval = &checkInterval
			}
			if f.Changed("filename-format") {
				p.FilenameFormat = &filenameFormat
			}
			if f.Changed("theme") {
				p.Theme = &theme
			}
			if f.Changed("manual-mode") {
				p.ManualModeGlobal = &manual
			}
			if p == (types.SettingsPatch{}) {
				return fmt.Errorf("nothing to change; pass at least one flag")
			}
			c := cl()
			var s types.Settings
			b, err := c.do(cmd.Context(), http.MethodPatch, "/config", p, &s)
			if err != nil {
				return err
			}
			show(cmd.OutOrStdout(), c, s, b)
			return nil
		},
	}
	set.Flags().StringVar(&outputDir, "output-dir", "", "Recording root directory")
	set.Flags().IntVar(&checkInterval, "check-interval", 0, "Poll interval in seconds")
	set.Flags().StringVar(&filenameFormat, "filename-format", "", "Filename template ({author} {title} {date} {time} {HH})")
	set.Flags().StringVar(&theme, "theme", "", "UI theme name")
	set.Flags().BoolVar(&manual, "manual-mode", false, "Gate every live detection on confirmation")

	cmd.AddCommand(get, set)
	return cmd
}

func newRecordingsCmd(cl func() *client) *cobra.Command {
	return &cobra.Command{
		Use:   "recordings",
		Short: "List recorded files, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cl()
			var rr types.RecordingsResponse
			b, err := c.do(cmd.Context(), http.MethodGet, "/recordings", nil, &rr)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if printRaw(out, c, b) {
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "MODIFIED\tSIZE\tPATH")
			for _, r := range rr.Recordings {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", time.Unix(r.ModifiedUnix, 0).Format("2006-01-02 15:04"), r.Size, r.Path)
			}
			return tw.Flush()
		},
	}
}
