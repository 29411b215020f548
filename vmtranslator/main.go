package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"hackvm/vmtranslator/internal"
)

// A simple program to translate hack vm codes to hack assembler.

func newRootCommand() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "vmtranslator [flags] path",
		Short: "Translate hack vm code to hack assembler",
		Long: `vmtranslator translates a .vm file into the .asm file next to it, or every
.vm file of a directory, in name order, into one dir/dir.asm file.

No bootstrap code is written; the program ends with an infinite loop.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if err := overrideConfig(&cfg, cmd); err != nil {
				return err
			}
			return translate(args[0], cfg, cmd.OutOrStdout())
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "yaml file with default settings")
	flags.StringP("output", "o", "", "the saved path, defaults to the input name with .asm")
	flags.Bool("comments", true, "echo every vm command as a comment before its code")
	flags.Bool("scope-labels", false, "prefix labels with the name of the enclosing function")
	flags.BoolP("verbose", "v", false, "print a summary of the translated units")
	flags.Bool("dump", false, "print every parsed vm command")
	flags.String("log-level", "info", "debug, info, warn or error")
	return cmd
}

func setupLogger(cfg Config) error {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}

// translate translates the file or directory at path. A failed run removes the
// incomplete output.
func translate(path string, cfg Config, stdout io.Writer) error {
	if err := setupLogger(cfg); err != nil {
		return err
	}
	batch, err := internal.ResolveBatch(path)
	if err != nil {
		return err
	}
	if cfg.Output != "" {
		batch.Output = cfg.Output
	}
	out, err := internal.CreateFileWriter(batch.Output)
	if err != nil {
		return err
	}
	atexit.Register(func() {
		if err := out.Close(); err != nil {
			slog.Error("close output", "path", batch.Output, "err", err)
		}
	})

	translator := internal.NewTranslator(out, cfg.options(), slog.Default())
	if cfg.Dump {
		translator.Observe = newDumper(stdout, stdout == os.Stdout)
	}
	stats, err := internal.TranslateBatch(batch, translator, internal.OpenFile)
	if err == nil {
		err = out.Close()
	}
	if err != nil {
		_ = out.Close()
		if rmErr := os.Remove(batch.Output); rmErr != nil {
			slog.Warn("remove incomplete output", "path", batch.Output, "err", rmErr)
		}
		return err
	}
	slog.Info("translated", "path", path, "output", batch.Output, "units", len(stats))
	if cfg.Verbose {
		fmt.Fprintln(stdout, renderSummary(batch.Output, stats))
	}
	return nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
