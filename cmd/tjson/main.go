// Command tjson parses a JSON document against a YAML-declared schema
// and prints the reconstructed value, or just validates it.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tjson/tjson"
	"github.com/tjson/tjson/schema"
)

var log = logrus.New()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "tjson",
		Short: "Schema-directed JSON parsing from the command line",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newParseCmd(), newValidateCmd())
	return root
}

func newParseCmd() *cobra.Command {
	var schemaPath string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a JSON document against a schema and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, f, err := openTarget(schemaPath, args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			log.WithField("schema", schemaPath).Debug("parsing document")
			value, err := tjson.Parse(f, target)
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}

			text, err := tjson.Serialize(value)
			if err != nil {
				return fmt.Errorf("serialize result: %w", err)
			}
			fmt.Println(text)
			return nil
		},
	}
	cmd.Flags().StringVar(&schemaPath, "schema", "", "path to a YAML schema file (required)")
	cmd.MarkFlagRequired("schema")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var schemaPath string

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Exit 0 if a JSON document matches a schema, nonzero otherwise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, f, err := openTarget(schemaPath, args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			if _, err := tjson.Parse(f, target); err != nil {
				log.WithError(err).Error("document does not match schema")
				return err
			}
			log.Info("document matches schema")
			return nil
		},
	}
	cmd.Flags().StringVar(&schemaPath, "schema", "", "path to a YAML schema file (required)")
	cmd.MarkFlagRequired("schema")
	return cmd
}

func openTarget(schemaPath, docPath string) (*schema.Type, *os.File, error) {
	target, err := loadSchema(schemaPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load schema: %w", err)
	}
	f, err := os.Open(docPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open document: %w", err)
	}
	return target, f, nil
}
