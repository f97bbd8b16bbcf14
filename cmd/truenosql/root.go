// Command truenosql loads a Parquet file into an in-memory engine and runs
// SQL against it, either as a one-shot query or an interactive REPL.
// Grounded on inference-sim's cmd/root.go structure.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	truenodb "github.com/paiml/trueno-db"
	"github.com/paiml/trueno-db/column"
	"github.com/paiml/trueno-db/parquetio"
)

var (
	filePath string
	sqlText  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "truenosql",
	Short: "Run restricted-grammar SQL queries against a Parquet file",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		logrus.SetLevel(level)

		engine, err := loadEngine(filePath)
		if err != nil {
			return err
		}

		if sqlText != "" {
			return runQuery(engine, sqlText)
		}
		return repl(engine)
	},
}

// Execute runs the root command, exiting the process non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&filePath, "file", "", "path to a Parquet file to load as table t")
	rootCmd.Flags().StringVar(&sqlText, "sql", "", "run this query and exit (omit for an interactive REPL)")
	rootCmd.Flags().StringVar(&logLevel, "log", "warn", "log level (debug, info, warn, error)")
}

func loadEngine(path string) (*truenodb.Engine, error) {
	loader := parquetio.NewLoader()
	batch, err := loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	engine := truenodb.New(batch.Schema(), truenodb.WithGPU(truenodb.OpenGPU()))
	if err := engine.Append(batch); err != nil {
		return nil, err
	}
	return engine, nil
}

func runQuery(engine *truenodb.Engine, text string) error {
	queryID := uuid.NewString()
	log := logrus.WithField("query_id", queryID)

	log.Debug("executing query")
	out, err := engine.Query(context.Background(), text)
	if err != nil {
		log.WithError(err).Warn("query failed")
		return err
	}
	log.WithField("rows", out.Rows()).Debug("query completed")
	printBatch(out)
	return nil
}

func repl(engine *truenodb.Engine) error {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("truenosql> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			fmt.Print("truenosql> ")
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}
		if err := runQuery(engine, line); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		fmt.Print("truenosql> ")
	}
	return scanner.Err()
}

func printBatch(b *column.ColumnBatch) {
	schema := b.Schema()
	names := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		names[i] = f.Name
	}
	fmt.Println(strings.Join(names, "\t"))
	for r := 0; r < b.Rows(); r++ {
		cells := make([]string, b.Width())
		for c := 0; c < b.Width(); c++ {
			cells[c] = cellString(b.Column(c), r)
		}
		fmt.Println(strings.Join(cells, "\t"))
	}
}

func cellString(c *column.Column, row int) string {
	if c.Nullable && !c.IsValid(row) {
		return "NULL"
	}
	switch c.Type {
	case column.Int32:
		return fmt.Sprintf("%d", c.I32[row])
	case column.Int64:
		return fmt.Sprintf("%d", c.I64[row])
	case column.Float32:
		return fmt.Sprintf("%g", c.F32[row])
	case column.Float64:
		return fmt.Sprintf("%g", c.F64[row])
	case column.Utf8:
		return c.Str[row]
	case column.Boolean:
		return fmt.Sprintf("%t", c.Bln[row])
	default:
		return ""
	}
}
