package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/readpipe/docgen"
	"github.com/hazyhaar/readpipe/docstore"
	"github.com/hazyhaar/readpipe/readpipe"
)

var (
	flagNoRender bool
	flagJSON     bool
	flagSave     string
	flagPDFOut   string
)

var readCmd = &cobra.Command{
	Use:   "read <url>",
	Short: "Read one URL and print or save the markdown report",
	Args:  cobra.ExactArgs(1),
	RunE:  runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)

	readCmd.Flags().BoolVar(&flagNoRender, "no-render", false, "Use a plain HTTP fetch instead of the rendering browser")
	readCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the raw result as JSON instead of a markdown report")
	readCmd.Flags().StringVar(&flagSave, "save", "", "Save the markdown report as a stored document with this name")
	readCmd.Flags().StringVar(&flagPDFOut, "pdf", "", "Also export the report as a PDF at this path")
}

func runRead(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pipe := buildPipeline(cfg, nil)
	res := pipe.SmartRead(ctx, args[0], !flagNoRender)
	report := readpipe.Markdown(res)

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		fmt.Println(report)
	}

	if flagSave != "" {
		store, err := docstore.New(cfg.DocsDir)
		if err != nil {
			return err
		}
		path, err := store.Write(flagSave, report, false)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved %s\n", path)
	}

	if flagPDFOut != "" {
		path, err := docgen.WriteFile(report, flagPDFOut)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "exported %s\n", path)
	}

	if res.Failed() {
		os.Exit(1)
	}
	return nil
}
