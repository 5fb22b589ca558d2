package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/statify/internal/analyzer"
	"github.com/desertthunder/statify/internal/formatter"
	"github.com/desertthunder/statify/internal/models"
	"github.com/desertthunder/statify/internal/render"
	"github.com/desertthunder/statify/internal/repositories"
	"github.com/desertthunder/statify/internal/services"
	"github.com/desertthunder/statify/internal/shared"
	"github.com/urfave/cli/v3"
)

// examplePlaylistID is Spotify's "Today's Top Hits", used by --example.
const examplePlaylistID = "37i9dQZF1DXcBWIGoYBM5M"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	catalog    services.CatalogClient
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Catalog    services.CatalogClient // Overrides the Spotify client, used by tests
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		catalog:    opts.Catalog,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// reloadConfig swaps in the config file named by --config when it exists.
func (r *Runner) reloadConfig(cmd *cli.Command) {
	path := cmd.String("config")
	if path == "" {
		return
	}
	if config, err := shared.LoadConfig(path); err == nil {
		r.config = config
	}
}

// tokenProvider builds the auth capability for catalog requests: a static
// token when --token is set, the client-credentials grant otherwise.
func (r *Runner) tokenProvider(cmd *cli.Command) (services.TokenProvider, error) {
	if token := cmd.String("token"); token != "" {
		return &services.StaticTokenProvider{AccessToken: token}, nil
	}

	creds := r.config.Credentials.Spotify
	return services.NewClientCredentialsProvider(creds.ClientID, creds.ClientSecret)
}

// buildCatalog returns the catalog client, constructing a Spotify client
// from configuration unless one was injected.
func (r *Runner) buildCatalog(cmd *cli.Command) (services.CatalogClient, error) {
	if r.catalog != nil {
		return r.catalog, nil
	}

	tokens, err := r.tokenProvider(cmd)
	if err != nil {
		return nil, err
	}
	return services.NewSpotifyClient(tokens, r.httpClient), nil
}

// buildEngine assembles an analysis engine from config plus flag overrides.
func (r *Runner) buildEngine(cmd *cli.Command) (*analyzer.Engine, error) {
	catalog, err := r.buildCatalog(cmd)
	if err != nil {
		return nil, err
	}

	width := r.config.Analysis.BucketWidth
	if cmd.IsSet("bucket-width") {
		width = int(cmd.Int("bucket-width"))
	}

	return analyzer.NewEngine(catalog, r.logger, analyzer.Opts{
		BucketWidth: width,
		Fetch: analyzer.FetcherOpts{
			PageSize: r.config.Analysis.PageSize,
		},
	}), nil
}

// openDatabase opens the configured history database and ensures the schema
// is current.
func (r *Runner) openDatabase() (*sql.DB, error) {
	path := r.config.Database.Path
	if path == "" {
		path = "statify.db"
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// analyze runs the pipeline for one playlist, logging progress updates as
// they arrive.
func (r *Runner) analyze(ctx context.Context, cmd *cli.Command, playlistID string) (*models.AnalysisResult, error) {
	engine, err := r.buildEngine(cmd)
	if err != nil {
		return nil, err
	}

	progress := make(chan analyzer.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String())
		}
	}()

	result, err := engine.Analyze(ctx, progress, playlistID)
	close(progress)
	<-done

	return result, err
}

// recordRun appends the analysis to local history. History is best-effort;
// failures are logged, not fatal.
func (r *Runner) recordRun(result *models.AnalysisResult, exportPath string) {
	db, err := r.openDatabase()
	if err != nil {
		r.logger.Warn("skipping run history", "err", err)
		return
	}
	defer db.Close()

	run := &models.AnalysisRun{
		PlaylistID:     result.Playlist.ID,
		PlaylistName:   result.Playlist.Name,
		Owner:          result.Playlist.Owner,
		TrackCount:     len(result.Tracks),
		SkippedCount:   len(result.Skipped),
		MeanPopularity: result.Stats.Mean,
		ExportPath:     exportPath,
	}
	if err := repositories.NewRunRepository(db).Create(run); err != nil {
		r.logger.Warn("failed to record run", "err", err)
	}
}

// playlistArg resolves the playlist identifier from the first positional
// argument or the --example flag.
func (r *Runner) playlistArg(cmd *cli.Command) (string, error) {
	input := cmd.Args().First()
	if input == "" && cmd.Bool("example") {
		input = examplePlaylistID
	}
	if input == "" {
		return "", fmt.Errorf("%w: playlist ID or URL required", shared.ErrInvalidInput)
	}
	return shared.ParsePlaylistID(input)
}

// Setup initializes the config file and history database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		r.logger.Warn("config not created", "err", err)
	} else {
		r.logger.Info("wrote config file", "path", path)
	}

	r.reloadConfig(cmd)

	db, err := r.openDatabase()
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}
	defer db.Close()

	r.logger.Info("database ready", "path", r.config.Database.Path)
	return nil
}

// Auth verifies that the configured credentials can obtain a token.
func (r *Runner) Auth(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	tokens, err := r.tokenProvider(cmd)
	if err != nil {
		return err
	}

	if _, err := tokens.Token(ctx); err != nil {
		return err
	}

	return r.writePlainln("Credentials OK")
}

// Analyze fetches a playlist, aggregates it, and renders the report.
func (r *Runner) Analyze(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	playlistID, err := r.playlistArg(cmd)
	if err != nil {
		return err
	}

	result, err := r.analyze(ctx, cmd, playlistID)
	if err != nil {
		return r.describeFailure(err)
	}

	exportPath := ""
	if out := cmd.String("csv"); out != "" {
		files, err := formatter.WriteCSVExport(result, strings.TrimSuffix(out, ".csv"))
		if err != nil {
			return err
		}
		exportPath = files.TracksFile
		r.logger.Info("exported CSV", "tracks", files.TracksFile, "metadata", files.MetadataFile)
	}

	if !cmd.Bool("no-save") {
		r.recordRun(result, exportPath)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	topN := r.config.Analysis.TopArtists
	if cmd.IsSet("top") {
		topN = int(cmd.Int("top"))
	}
	return r.writePlain("%s", render.Result(result, topN))
}

// Export runs the pipeline and writes the CSV files without rendering.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	playlistID, err := r.playlistArg(cmd)
	if err != nil {
		return err
	}

	result, err := r.analyze(ctx, cmd, playlistID)
	if err != nil {
		return r.describeFailure(err)
	}

	base := cmd.String("output")
	if base == "" {
		base = playlistID
	}

	files, err := formatter.WriteCSVExport(result, strings.TrimSuffix(base, ".csv"))
	if err != nil {
		return err
	}

	if !cmd.Bool("no-save") {
		r.recordRun(result, files.TracksFile)
	}

	return r.writePlainln("Wrote %s and %s", files.TracksFile, files.MetadataFile)
}

// History lists recent analysis runs.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewRunRepository(db)

	var runs []models.AnalysisRun
	if playlist := cmd.String("playlist"); playlist != "" {
		id, err := shared.ParsePlaylistID(playlist)
		if err != nil {
			return err
		}
		runs, err = repo.ForPlaylist(id)
		if err != nil {
			return err
		}
	} else {
		runs, err = repo.List(int(cmd.Int("limit")))
		if err != nil {
			return err
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(runs, cmd.Bool("pretty"))
	}

	if len(runs) == 0 {
		return r.writePlainln("No analysis runs recorded yet")
	}

	for _, run := range runs {
		r.writePlain("#%d %s  %s (%s) - %d tracks, %d skipped, mean popularity %.2f\n",
			run.Sequence, run.CreatedAt.Format("2006-01-02 15:04"),
			run.PlaylistName, run.PlaylistID,
			run.TrackCount, run.SkippedCount, run.MeanPopularity)
	}
	return nil
}

// describeFailure attaches an actionable hint to pipeline failures.
func (r *Runner) describeFailure(err error) error {
	switch {
	case errors.Is(err, shared.ErrPlaylistNotFound):
		return fmt.Errorf("%w (check the playlist ID and make sure the playlist is public)", err)
	case errors.Is(err, shared.ErrAuthFailed), errors.Is(err, shared.ErrMissingCredentials):
		return fmt.Errorf("%w (run 'statify setup' and fill in your Spotify credentials)", err)
	default:
		return err
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
