package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/CTAG07/glossa/pkg/lexicon"
	"github.com/CTAG07/glossa/pkg/markov"
	"github.com/natefinch/atomic"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

const usage = `usage: glossa [-config path] <command> [args]

commands:
  import <dictionary> <file>   add a word list (one word per line) to a dictionary
  generate <dictionary>        train on a dictionary and print novel generated words
  review <dictionary>          like generate, then accept or reject each novel word
  dump <dictionary>            train on a dictionary and print the frequency table
  stats                        print statistics for every dictionary
  export <dictionary> <file>   write a dictionary and its verdicts as JSON
  load <file>                  merge a JSON dictionary export
  remove <dictionary>          delete a dictionary
  version                      print version information
`

// App bundles the dependencies shared by every command.
type App struct {
	config *Config
	logger *slog.Logger
	store  *lexicon.Store
	stdin  io.Reader
	stdout io.Writer
}

// NewApp creates an App over an open database, setting up the schema.
func NewApp(config *Config, logger *slog.Logger, db *sql.DB, stdin io.Reader, stdout io.Writer) (*App, error) {
	if err := lexicon.SetupSchema(db); err != nil {
		return nil, fmt.Errorf("failed to setup lexicon schema: %w", err)
	}
	store, err := lexicon.NewStore(db)
	if err != nil {
		return nil, fmt.Errorf("error creating lexicon store: %w", err)
	}
	store.SetLogger(logger)

	return &App{
		config: config,
		logger: logger,
		store:  store,
		stdin:  stdin,
		stdout: stdout,
	}, nil
}

// Close releases the store.
func (a *App) Close() {
	a.store.Close()
}

// Run dispatches a command with its arguments.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("no command given")
	}
	cmd, rest := args[0], args[1:]

	need := map[string]int{
		"import": 2, "generate": 1, "review": 1, "dump": 1,
		"stats": 0, "export": 2, "load": 1, "remove": 1, "version": 0,
	}
	n, ok := need[cmd]
	if !ok {
		return fmt.Errorf("unknown command %q", cmd)
	}
	if len(rest) != n {
		return fmt.Errorf("%s expects %d argument(s), got %d", cmd, n, len(rest))
	}

	switch cmd {
	case "import":
		return a.cmdImport(ctx, rest[0], rest[1])
	case "generate":
		return a.cmdGenerate(ctx, rest[0])
	case "review":
		return a.cmdReview(ctx, rest[0])
	case "dump":
		return a.cmdDump(ctx, rest[0])
	case "stats":
		return a.cmdStats(ctx)
	case "export":
		return a.cmdExport(ctx, rest[0], rest[1])
	case "load":
		return a.cmdLoad(ctx, rest[0])
	case "remove":
		return a.cmdRemove(ctx, rest[0])
	default:
		_, err := fmt.Fprintf(a.stdout, "glossa %s (commit %s, built %s)\n", Version, Commit, BuildDate)
		return err
	}
}

func (a *App) cmdImport(ctx context.Context, name, path string) error {
	norm, err := a.normalizer()
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open word list: %w", err)
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	dict, err := a.store.GetOrInsertDictionary(ctx, name)
	if err != nil {
		return err
	}
	result, err := a.store.Import(ctx, dict, file, norm)
	if err != nil {
		return fmt.Errorf("could not import '%s': %w", path, err)
	}
	_, err = fmt.Fprintf(a.stdout, "%s: %d added, %d duplicates, %d skipped\n", name, result.Added, result.Duplicates, result.Skipped)
	return err
}

func (a *App) cmdGenerate(ctx context.Context, name string) error {
	dict, table, err := a.trainedTable(ctx, name)
	if err != nil {
		return err
	}
	novel, err := a.novelWords(ctx, dict, table)
	if err != nil {
		return err
	}
	for _, w := range novel {
		if _, err := fmt.Fprintln(a.stdout, w); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) cmdReview(ctx context.Context, name string) error {
	dict, table, err := a.trainedTable(ctx, name)
	if err != nil {
		return err
	}
	summary, err := a.review(ctx, dict, table)
	if err != nil {
		return fmt.Errorf("review interrupted: %w", err)
	}
	_, err = fmt.Fprintf(a.stdout, "\n%d accepted, %d rejected, %d skipped in %d round(s)\n",
		summary.Accepted, summary.Rejected, summary.Skipped, summary.Rounds)
	return err
}

func (a *App) cmdDump(ctx context.Context, name string) error {
	_, table, err := a.trainedTable(ctx, name)
	if err != nil {
		return err
	}
	return table.Dump(a.stdout,
		markov.WithFormat(markov.DumpFormat(a.config.Model.DumpFormat)),
		markov.WithIgnoreEmptyRows(a.config.Model.IgnoreEmptyRows),
	)
}

func (a *App) cmdStats(ctx context.Context) error {
	stats, err := a.store.GetStats(ctx)
	if err != nil {
		return err
	}
	for _, d := range stats.Dictionaries {
		s := stats.Stats[d.Id]
		if _, err := fmt.Fprintf(a.stdout, "%s: %d words (%d lines), %d accepted, %d rejected\n",
			d.Name, s.DistinctWords, s.TotalWords, s.Accepted, s.Rejected); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) cmdExport(ctx context.Context, name, path string) error {
	dict, err := a.store.GetDictionaryInfo(ctx, name)
	if err != nil {
		return fmt.Errorf("could not find dictionary '%s': %w", name, err)
	}
	var buf bytes.Buffer
	if err := a.store.ExportDictionary(ctx, dict, &buf); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

func (a *App) cmdLoad(ctx context.Context, path string) error {
	norm, err := a.normalizer()
	if err != nil {
		return err
	}
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open export file: %w", err)
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	dict, err := a.store.ImportDictionary(ctx, file, norm)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.stdout, "loaded %s\n", dict.Name)
	return err
}

func (a *App) cmdRemove(ctx context.Context, name string) error {
	dict, err := a.store.GetDictionaryInfo(ctx, name)
	if err != nil {
		return fmt.Errorf("could not find dictionary '%s': %w", name, err)
	}
	return a.store.RemoveDictionary(ctx, dict)
}

// normalizer builds the word normalizer for the configured alphabet and
// word lengths.
func (a *App) normalizer() (*lexicon.Normalizer, error) {
	alphabet, err := markov.RuneAlphabet(a.config.Model.Alphabet)
	if err != nil {
		return nil, fmt.Errorf("invalid alphabet: %w", err)
	}
	return lexicon.NewNormalizer(
		lexicon.WithAlphabet(alphabet),
		lexicon.WithLengthRange(a.config.Model.MinWordLength, a.config.Model.MaxWordLength),
	), nil
}

// trainedTable looks a dictionary up and builds its table.
func (a *App) trainedTable(ctx context.Context, name string) (lexicon.DictionaryInfo, *markov.Table[rune], error) {
	dict, err := a.store.GetDictionaryInfo(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dict, nil, fmt.Errorf("dictionary '%s' does not exist, import a word list first", name)
		}
		return dict, nil, err
	}
	table, err := a.buildTable(ctx, dict)
	return dict, table, err
}

func main() {
	configPath := flag.String("config", "./config.json", "path to the JSON config file")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*configPath, flag.Args()); err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("glossa failed", "error", err)
		os.Exit(1)
	}
}

// run loads the config, opens the database and runs a single command.
func run(configPath string, args []string) error {
	config, err := LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(config.Store.LogLevel)}))

	db, err := initDB(config.Store.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}(db)

	app, err := NewApp(config, logger, db, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx, args)
}
